package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
	"taskflow/internal/service"
	"taskflow/internal/testutil"
)

type adminFixture struct {
	db    *gorm.DB
	svc   *service.AdminService
	tasks *service.TaskService
	audit *service.AuditService
	alice policy.Actor
	carol policy.Actor
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditSvc := service.NewAuditService(repository.NewAuditRepository(db))

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com", model.RoleUser)
	carol := testutil.CreateUser(t, db, "Carol", "carol@example.com", model.RoleAdmin)

	return &adminFixture{
		db:    db,
		svc:   service.NewAdminService(userRepo, taskRepo, auditSvc),
		tasks: service.NewTaskService(taskRepo, auditSvc),
		audit: auditSvc,
		alice: policy.Actor{ID: alice.ID, Role: alice.Role},
		carol: policy.Actor{ID: carol.ID, Role: carol.Role},
	}
}

func TestAdminSurfaceRequiresAdmin(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Stats(ctx, f.alice); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stats as user: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.ListUsers(ctx, f.alice); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("list users as user: got %v, want ErrForbidden", err)
	}
	if err := f.svc.UpdateUserRole(ctx, f.alice, f.carol.ID, model.RoleUser); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("role change as user: got %v, want ErrForbidden", err)
	}
	if err := f.svc.DeleteUser(ctx, f.alice, f.carol.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("delete user as user: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Stats(ctx, policy.Actor{}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("stats anonymous: got %v, want ErrUnauthenticated", err)
	}
}

func TestStatsAggregation(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	testutil.CreateTask(t, f.db, f.alice.ID, "t1")
	testutil.CreateTask(t, f.db, f.alice.ID, "t2")
	done := testutil.CreateTask(t, f.db, f.carol.ID, "t3")
	if err := f.db.Model(done).Update("status", model.StatusCompleted).Error; err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	stats, err := f.svc.Stats(ctx, f.carol)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", stats.TotalTasks)
	}
	if stats.TasksByStatus[model.StatusTodo] != 2 || stats.TasksByStatus[model.StatusCompleted] != 1 {
		t.Errorf("TasksByStatus = %v", stats.TasksByStatus)
	}
	if len(stats.RecentTasks) != 3 {
		t.Errorf("RecentTasks = %d entries, want 3", len(stats.RecentTasks))
	}
	for _, rt := range stats.RecentTasks {
		if rt.Owner == "" {
			t.Errorf("recent task %q has no owner label", rt.Title)
		}
	}
}

func TestListUsersIncludesTaskCounts(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	testutil.CreateTask(t, f.db, f.alice.ID, "t1")
	testutil.CreateTask(t, f.db, f.alice.ID, "t2")

	users, err := f.svc.ListUsers(ctx, f.carol)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	counts := map[string]int64{}
	for _, u := range users {
		counts[u.ID] = u.TaskCount
	}
	if counts[f.alice.ID] != 2 {
		t.Errorf("alice task count = %d, want 2", counts[f.alice.ID])
	}
	if counts[f.carol.ID] != 0 {
		t.Errorf("carol task count = %d, want 0", counts[f.carol.ID])
	}
}

func TestUpdateUserRole(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if err := f.svc.UpdateUserRole(ctx, f.carol, f.alice.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	var promoted model.User
	if err := f.db.First(&promoted, "id = ?", f.alice.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if promoted.Role != model.RoleAdmin {
		t.Errorf("role = %q, want ADMIN", promoted.Role)
	}

	records, err := f.audit.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(records) != 1 || records[0].Action != "user.role" {
		t.Errorf("audit trail = %+v", records)
	}

	if err := f.svc.UpdateUserRole(ctx, f.carol, f.alice.ID, model.Role("SUPERUSER")); err == nil {
		t.Error("invalid role accepted")
	}
	if err := f.svc.UpdateUserRole(ctx, f.carol, "no-such-user", model.RoleUser); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing target: got %v, want ErrNotFound", err)
	}
}

func TestDeleteUserSelfDeletionAndCascade(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if err := f.svc.DeleteUser(ctx, f.carol, f.carol.ID); !errors.Is(err, apperr.ErrSelfDeletion) {
		t.Fatalf("self delete: got %v, want ErrSelfDeletion", err)
	}

	testutil.CreateTask(t, f.db, f.alice.ID, "t1")
	testutil.CreateTask(t, f.db, f.alice.ID, "t2")

	if err := f.svc.DeleteUser(ctx, f.carol, f.alice.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// The user's tasks are gone with the account.
	remaining, err := f.tasks.List(ctx, f.carol, f.alice.ID)
	if err != nil {
		t.Fatalf("List after cascade: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("cascade left %d tasks behind", len(remaining))
	}

	if err := f.svc.DeleteUser(ctx, f.carol, f.alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("repeat delete: got %v, want ErrNotFound", err)
	}
}

func TestAuditTrailListingAndPrune(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.audit.Record(ctx, f.carol.ID, "user.role", "user", f.alice.ID, "role set to ADMIN")
	f.audit.Record(ctx, f.carol.ID, "task.delete", "task", "t-1", "cleanup")

	records, err := f.svc.AuditTrail(ctx, f.carol, 0)
	if err != nil {
		t.Fatalf("AuditTrail: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if _, err := f.svc.AuditTrail(ctx, f.alice, 0); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("audit as user: got %v, want ErrForbidden", err)
	}

	// Records newer than the retention window survive a sweep.
	pruned, err := f.audit.Prune(ctx, 24*time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned %d fresh records", pruned)
	}

	// A sweep anchored in the future clears them.
	pruned, err = f.audit.Prune(ctx, 24*time.Hour, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned %d records, want 2", pruned)
	}
}
