package service

import (
	"context"

	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
	"taskflow/internal/validation"
)

// TaskService wraps task CRUD with the access policy. Every method resolves
// the decision through the policy package before touching storage.
type TaskService struct {
	tasks *repository.TaskRepository
	audit *AuditService
}

func NewTaskService(tasks *repository.TaskRepository, audit *AuditService) *TaskService {
	return &TaskService{tasks: tasks, audit: audit}
}

// List returns the tasks the actor may see. Admins see everything,
// optionally narrowed to targetUserID; regular users see only their own.
func (s *TaskService) List(ctx context.Context, actor policy.Actor, targetUserID string) ([]model.Task, error) {
	ownerFilter, err := policy.ListScope(actor, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, ownerFilter)
}

// Get returns one task if the actor owns it or is an admin. Existence is
// checked first, so a missing task is not-found even to a forbidden actor.
func (s *TaskService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Task, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionRead, task.UserID); err != nil {
		return nil, err
	}
	return task, nil
}

// Create stores a new task owned by the actor. Ownership is always
// server-assigned; any owner supplied by the client never reaches here.
func (s *TaskService) Create(ctx context.Context, actor policy.Actor, in validation.TaskInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:      actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.TaskStatus(in.Status),
		Priority:    model.TaskPriority(in.Priority),
		DueDate:     in.DueDate,
		Attachment:  in.Attachment,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update if the actor owns the task or is an
// admin. Only supplied fields are validated and written.
func (s *TaskService) Update(ctx context.Context, actor policy.Actor, id string, in validation.TaskUpdateInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, existing.UserID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.Attachment != nil {
		fields["attachment"] = *in.Attachment
	}
	return s.tasks.UpdateFields(ctx, id, fields)
}

// Delete removes a task under the owner-or-admin rule, matching update
// semantics. Admin deletions of another user's task land in the audit
// trail.
func (s *TaskService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, existing.UserID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	if actor.IsAdmin() && existing.UserID != actor.ID {
		s.audit.Record(ctx, actor.ID, "task.delete", "task", id, existing.Title)
	}
	return nil
}
