package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskmanager/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Find(ctx context.Context, id uint) (*model.Task, error)
	All(ctx context.Context) ([]model.Task, error)
	FindByStatus(ctx context.Context, status string) ([]model.Task, error)
	FindByPriority(ctx context.Context, priority string) ([]model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Find retrieves a task by its primary key
func (r *TaskRepository) Find(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// All retrieves every task, newest first
func (r *TaskRepository) All(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Order("id DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// FindByStatus retrieves all tasks with the given status, newest first
func (r *TaskRepository) FindByStatus(ctx context.Context, status string) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("status = ?", status).Order("id DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// FindByPriority retrieves all tasks with the given priority, newest first
func (r *TaskRepository) FindByPriority(ctx context.Context, priority string) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("priority = ?", priority).Order("id DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Insert adds a new task to the database; the assigned ID is written
// back onto the task
func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update applies a partial update to a task. Keys outside the fillable
// column set are dropped, not rejected, so callers cannot write columns
// the model does not own.
func (r *TaskRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		if model.TaskFillable[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(filtered).Error
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
