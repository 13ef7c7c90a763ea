package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskflow/internal/apperr"
	"taskflow/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID loads a task regardless of owner; the policy layer decides who
// may see it. Existence is checked before permission on purpose, so a
// missing task reports not-found even to a forbidden actor.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("User").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("task %s", id)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// List returns tasks newest first. An empty ownerID means no owner filter
// (the admin all-tasks view).
func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}
	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateFields applies a partial update. Only the supplied columns change;
// concurrent writers follow last-write-wins.
func (r *TaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*model.Task, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperr.NotFoundf("task %s", id)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("task %s", id)
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// CountByStatus groups all tasks by status for the admin dashboard.
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[model.TaskStatus]int64, error) {
	type row struct {
		Status model.TaskStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("group tasks by status: %w", err)
	}
	counts := make(map[model.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// ListRecent returns the n most recently created tasks with their owners.
func (r *TaskRepository) ListRecent(ctx context.Context, n int) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Limit(n).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return tasks, nil
}
