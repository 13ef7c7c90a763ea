package service

import (
	"context"
	"fmt"

	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

const recentTaskCount = 5

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	TotalUsers    int64                      `json:"totalUsers"`
	TotalTasks    int64                      `json:"totalTasks"`
	TasksByStatus map[model.TaskStatus]int64 `json:"tasksByStatus"`
	RecentTasks   []RecentTask               `json:"recentTasks"`
}

// RecentTask is a dashboard row: the task plus its owner's display name.
type RecentTask struct {
	model.Task
	Owner string `json:"owner"`
}

// AdminService covers the admin-only surface: dashboard stats, user
// management, and the audit trail.
type AdminService struct {
	users *repository.UserRepository
	tasks *repository.TaskRepository
	audit *AuditService
}

func NewAdminService(users *repository.UserRepository, tasks *repository.TaskRepository, audit *AuditService) *AdminService {
	return &AdminService{users: users, tasks: tasks, audit: audit}
}

// Stats aggregates totals, the per-status breakdown, and the most recent
// tasks with their owners.
func (s *AdminService) Stats(ctx context.Context, actor policy.Actor) (*DashboardStats, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalTasks, err := s.tasks.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.tasks.ListRecent(ctx, recentTaskCount)
	if err != nil {
		return nil, err
	}

	stats := DashboardStats{
		TotalUsers:    totalUsers,
		TotalTasks:    totalTasks,
		TasksByStatus: byStatus,
		RecentTasks:   make([]RecentTask, 0, len(recent)),
	}
	for _, task := range recent {
		owner := ""
		if task.User != nil {
			owner = task.User.Name
			if owner == "" {
				owner = task.User.Email
			}
		}
		task.User = nil
		stats.RecentTasks = append(stats.RecentTasks, RecentTask{Task: task, Owner: owner})
	}
	return &stats, nil
}

// ListUsers returns every account with its task count, newest first.
func (s *AdminService) ListUsers(ctx context.Context, actor policy.Actor) ([]repository.UserWithTaskCount, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.ListWithTaskCounts(ctx)
}

// UpdateUserRole changes a user's role. The target may be anyone, the
// actor included; the change reaches running sessions only on their next
// token refresh.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor policy.Actor, targetID string, role model.Role) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		v := &apperr.ValidationError{}
		return v.Add("role", "role must be one of USER, ADMIN")
	}
	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "user.role", "user", targetID, fmt.Sprintf("role set to %s", role))
	return nil
}

// DeleteUser removes an account and all its tasks. Admins cannot delete
// themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor policy.Actor, targetID string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}
	if targetID == actor.ID {
		return apperr.ErrSelfDeletion
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "user.delete", "user", targetID, "account and owned tasks removed")
	return nil
}

// AuditTrail returns the n newest audit records.
func (s *AdminService) AuditTrail(ctx context.Context, actor policy.Actor, n int) ([]model.AuditRecord, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if n <= 0 || n > 200 {
		n = 50
	}
	return s.audit.ListRecent(ctx, n)
}
