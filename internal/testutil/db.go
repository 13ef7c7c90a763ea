// Package testutil provides shared fixtures for repository and service
// tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// NewDB opens a throwaway SQLite database under t.TempDir with migrations
// applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "taskflow_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

// CreateUser inserts a user directly, bypassing registration.
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()
	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

// CreateTask inserts a task owned by ownerID.
func CreateTask(t *testing.T, db *gorm.DB, ownerID, title string) *model.Task {
	t.Helper()
	task := model.Task{UserID: ownerID, Title: title}
	if err := repository.NewTaskRepository(db).Create(context.Background(), &task); err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return &task
}
