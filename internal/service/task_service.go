package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// Accepted due date layouts. Everything is rendered back to the wire in
// DateTimeLayout; a date-only input normalizes to midnight.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

type TaskService struct {
	taskRepo repository.TaskRepositoryInterface
}

type TaskServiceInterface interface {
	CreateTask(ctx context.Context, in TaskInput, actorID *uint) (*TaskData, error)
	UpdateTask(ctx context.Context, id uint, in TaskInput) error
	DeleteTask(ctx context.Context, id uint) error
	CompleteTask(ctx context.Context, id uint) error
	GetTaskByID(ctx context.Context, id uint) (*TaskData, error)
	GetAllTasks(ctx context.Context) ([]TaskData, error)
	GetTasksByStatus(ctx context.Context, status string) ([]TaskData, error)
	GetTasksByPriority(ctx context.Context, priority string) ([]TaskData, error)
	ValidateTaskData(in TaskInput) []string
}

var _ TaskServiceInterface = (*TaskService)(nil)

func NewTaskService(taskRepo repository.TaskRepositoryInterface) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// TaskInput carries the raw fields of a create or update request. A nil
// pointer means the field was not supplied; only supplied fields are
// applied on update.
type TaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	CreatedBy   *uint
}

// TaskData is the serializable projection of a task handed to the REST
// layer; datetimes are already rendered in the wire format.
type TaskData struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	CompletedAt *string `json:"completed_at"`
	CreatedBy   *uint   `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateTask applies defaults and timestamps, persists the task and
// returns its projection. The acting user becomes created_by unless the
// input already carries one.
func (s *TaskService) CreateTask(ctx context.Context, in TaskInput, actorID *uint) (*TaskData, error) {
	now := time.Now()

	task := &model.Task{
		Title:     strings.TrimSpace(deref(in.Title)),
		Status:    model.StatusPending,
		Priority:  model.PriorityMedium,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil && *in.Status != "" {
		task.Status = *in.Status
	}
	if in.Priority != nil && *in.Priority != "" {
		task.Priority = *in.Priority
	}
	if task.CreatedBy == nil {
		task.CreatedBy = actorID
	}
	if in.DueDate != nil && *in.DueDate != "" {
		due, err := ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	if err := s.taskRepo.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	data := toTaskData(task)
	return &data, nil
}

// UpdateTask loads the task, stamps updated_at and overwrites exactly the
// fields present in the input. Unknown columns are filtered further down,
// at the repository.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, in TaskInput) error {
	if _, err := s.taskRepo.Find(ctx, id); err != nil {
		return err
	}

	fields, err := in.fields()
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now()

	return s.taskRepo.Update(ctx, id, fields)
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	if _, err := s.taskRepo.Find(ctx, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

// CompleteTask is the one path that stamps completed_at alongside the
// status change.
func (s *TaskService) CompleteTask(ctx context.Context, id uint) error {
	if _, err := s.taskRepo.Find(ctx, id); err != nil {
		return err
	}
	now := time.Now()
	return s.taskRepo.Update(ctx, id, map[string]any{
		"status":       model.StatusCompleted,
		"completed_at": now,
		"updated_at":   now,
	})
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uint) (*TaskData, error) {
	task, err := s.taskRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	data := toTaskData(task)
	return &data, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]TaskData, error) {
	tasks, err := s.taskRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	return toTaskDataList(tasks), nil
}

func (s *TaskService) GetTasksByStatus(ctx context.Context, status string) ([]TaskData, error) {
	tasks, err := s.taskRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toTaskDataList(tasks), nil
}

func (s *TaskService) GetTasksByPriority(ctx context.Context, priority string) ([]TaskData, error) {
	tasks, err := s.taskRepo.FindByPriority(ctx, priority)
	if err != nil {
		return nil, err
	}
	return toTaskDataList(tasks), nil
}

// ValidateTaskData checks the input against every rule and returns all
// violations, not just the first. A nil result means the input is valid.
func (s *TaskService) ValidateTaskData(in TaskInput) []string {
	var errs []string

	title := strings.TrimSpace(deref(in.Title))
	if title == "" {
		errs = append(errs, "Title is required")
	} else if len(title) > 255 {
		errs = append(errs, "Title must not exceed 255 characters")
	}

	if in.Status != nil && *in.Status != "" && !model.IsValidStatus(*in.Status) {
		errs = append(errs, "Invalid status. Must be one of: "+strings.Join(model.ValidStatuses, ", "))
	}

	if in.Priority != nil && *in.Priority != "" && !model.IsValidPriority(*in.Priority) {
		errs = append(errs, "Invalid priority. Must be one of: "+strings.Join(model.ValidPriorities, ", "))
	}

	if in.DueDate != nil && *in.DueDate != "" {
		if _, err := ParseDueDate(*in.DueDate); err != nil {
			errs = append(errs, "Due date must be in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format")
		}
	}

	return errs
}

// ParseDueDate accepts either accepted layout and insists the parsed
// value formats back to the exact input, which rejects overflowed dates
// like "2024-13-40" and padded or partial strings.
func ParseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, value); err == nil && t.Format(DateTimeLayout) == value {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil && t.Format(DateLayout) == value {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", value)
}

// fields maps the supplied input fields to their column names for a
// partial update.
func (in TaskInput) fields() (map[string]any, error) {
	fields := make(map[string]any)
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil && *in.Status != "" {
		fields["status"] = *in.Status
	}
	if in.Priority != nil && *in.Priority != "" {
		fields["priority"] = *in.Priority
	}
	if in.DueDate != nil && *in.DueDate != "" {
		due, err := ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		fields["due_date"] = due
	}
	if in.CreatedBy != nil {
		fields["created_by"] = *in.CreatedBy
	}
	return fields, nil
}

func toTaskData(task *model.Task) TaskData {
	data := TaskData{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt.Format(DateTimeLayout),
		UpdatedAt:   task.UpdatedAt.Format(DateTimeLayout),
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(DateTimeLayout)
		data.DueDate = &due
	}
	if task.CompletedAt != nil {
		completed := task.CompletedAt.Format(DateTimeLayout)
		data.CompletedAt = &completed
	}
	return data
}

func toTaskDataList(tasks []model.Task) []TaskData {
	out := make([]TaskData, len(tasks))
	for i := range tasks {
		out[i] = toTaskData(&tasks[i])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
