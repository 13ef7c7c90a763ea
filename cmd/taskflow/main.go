package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/repository"
	"taskflow/internal/server"
	"taskflow/internal/service"
	"taskflow/internal/upload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.TokenTTL)
	auditSvc := service.NewAuditService(auditRepo)
	authSvc := service.NewAuthService(userRepo, tokens)
	taskSvc := service.NewTaskService(taskRepo, auditSvc)
	adminSvc := service.NewAdminService(userRepo, taskRepo, auditSvc)

	var uploader upload.Uploader
	if cfg.CloudinaryURL != "" {
		cloudinaryUploader, err := upload.NewCloudinary(cfg.CloudinaryURL, cfg.UploadFolder)
		if err != nil {
			log.Fatalf("uploader: %v", err)
		}
		uploader = cloudinaryUploader
	} else {
		log.Println("[warn] CLOUDINARY_URL not set, uploads disabled")
	}

	srv := server.New(authSvc, taskSvc, adminSvc, tokens, uploader)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.AuditSweepInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pruned, err := auditSvc.Prune(jobCtx, cfg.AuditRetention, time.Now())
		if err != nil {
			log.Printf("[warn] audit sweep: %v", err)
			return
		}
		if pruned > 0 {
			log.Printf("[info] audit sweep pruned %d records", pruned)
		}
	}); err != nil {
		log.Fatalf("schedule audit sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[warn] shutdown: %v", err)
		}
	}()

	log.Printf("[info] taskflow listening on %s", cfg.Addr)
	if err := srv.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
