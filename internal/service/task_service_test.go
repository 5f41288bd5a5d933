package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Find(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) All(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByStatus(ctx context.Context, status string) ([]model.Task, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByPriority(ctx context.Context, priority string) ([]model.Task, error) {
	args := m.Called(ctx, priority)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Insert(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func existingTask(id uint) *model.Task {
	now := time.Now()
	return &model.Task{
		ID:        id,
		Title:     "Existing",
		Status:    model.StatusPending,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestValidateTaskData_EmptyInput(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	errs := svc.ValidateTaskData(service.TaskInput{})

	// Ровно одна ошибка - про отсутствующий title
	assert.Len(t, errs, 1)
	assert.Equal(t, "Title is required", errs[0])
}

func TestValidateTaskData_TitleTooLong(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	errs := svc.ValidateTaskData(service.TaskInput{
		Title: strPtr(strings.Repeat("x", 256)),
	})

	assert.Len(t, errs, 1)
	assert.Equal(t, "Title must not exceed 255 characters", errs[0])
}

func TestValidateTaskData_TitleAtLimit_Valid(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	errs := svc.ValidateTaskData(service.TaskInput{
		Title: strPtr(strings.Repeat("x", 255)),
	})

	assert.Empty(t, errs)
}

func TestValidateTaskData_InvalidStatus(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	errs := svc.ValidateTaskData(service.TaskInput{
		Title:  strPtr("ok"),
		Status: strPtr("bogus"),
	})

	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid status")
}

func TestValidateTaskData_InvalidPriority(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	errs := svc.ValidateTaskData(service.TaskInput{
		Title:    strPtr("ok"),
		Priority: strPtr("sometime"),
	})

	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid priority")
}

func TestValidateTaskData_CollectsEveryViolation(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	// Все нарушения возвращаются разом, не только первое
	errs := svc.ValidateTaskData(service.TaskInput{
		Status:   strPtr("bogus"),
		Priority: strPtr("sometime"),
		DueDate:  strPtr("not-a-date"),
	})

	assert.Len(t, errs, 4)
}

func TestValidateTaskData_DueDateFormats(t *testing.T) {
	svc := service.NewTaskService(new(MockTaskRepository))

	valid := []string{"2024-06-01", "2024-06-01 15:04:05"}
	for _, v := range valid {
		errs := svc.ValidateTaskData(service.TaskInput{Title: strPtr("ok"), DueDate: strPtr(v)})
		assert.Empty(t, errs, "expected %q to be valid", v)
	}

	// Проверка round-trip: переполненные даты и лишние символы отклоняются
	invalid := []string{"2024-13-40", "2024-06-01 ", " 2024-06-01", "2024-6-1", "01-06-2024", "2024-06-01T15:04:05"}
	for _, v := range invalid {
		errs := svc.ValidateTaskData(service.TaskInput{Title: strPtr("ok"), DueDate: strPtr(v)})
		assert.Len(t, errs, 1, "expected %q to be rejected", v)
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	var inserted *model.Task
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Task")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*model.Task)
			inserted.ID = 1
		}).
		Return(nil)

	// Act
	data, err := svc.CreateTask(context.Background(), service.TaskInput{
		Title: strPtr("Write spec"),
	}, uintPtr(5))

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, data.Status)
	assert.Equal(t, model.PriorityMedium, data.Priority)
	assert.Equal(t, uint(5), *data.CreatedBy)
	assert.Equal(t, uint(1), data.ID)
	assert.False(t, inserted.CreatedAt.IsZero())
	assert.False(t, inserted.UpdatedAt.Before(inserted.CreatedAt))
	mockRepo.AssertExpectations(t)
}

func TestCreateTask_SuppliedValuesKept(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	data, err := svc.CreateTask(context.Background(), service.TaskInput{
		Title:    strPtr("Deploy"),
		Status:   strPtr(model.StatusInProgress),
		Priority: strPtr(model.PriorityUrgent),
		DueDate:  strPtr("2024-06-01"),
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, data.Status)
	assert.Equal(t, model.PriorityUrgent, data.Priority)
	assert.Equal(t, "2024-06-01 00:00:00", *data.DueDate)
	assert.Nil(t, data.CreatedBy)
	mockRepo.AssertExpectations(t)
}

func TestCreateTask_InsertFails(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Task")).Return(assert.AnError)

	data, err := svc.CreateTask(context.Background(), service.TaskInput{Title: strPtr("x")}, nil)

	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestUpdateTask_NotFound_NoWrite(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(42)).Return(nil, repository.ErrTaskNotFound)

	// Act
	err := svc.UpdateTask(context.Background(), 42, service.TaskInput{Title: strPtr("x")})

	// Assert: обновление падает быстро, без записи в БД
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTask_AppliesOnlySuppliedFields(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(1)).Return(existingTask(1), nil)

	var fields map[string]any
	mockRepo.On("Update", mock.Anything, uint(1), mock.Anything).
		Run(func(args mock.Arguments) {
			fields = args.Get(2).(map[string]any)
		}).
		Return(nil)

	// Act
	err := svc.UpdateTask(context.Background(), 1, service.TaskInput{
		Title:  strPtr("Renamed"),
		Status: strPtr(model.StatusCancelled),
	})

	// Assert: только присланные поля плюс updated_at
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", fields["title"])
	assert.Equal(t, model.StatusCancelled, fields["status"])
	assert.Contains(t, fields, "updated_at")
	assert.NotContains(t, fields, "description")
	assert.NotContains(t, fields, "priority")
	assert.NotContains(t, fields, "completed_at")
	mockRepo.AssertExpectations(t)
}

func TestDeleteTask_NotFound_Idempotent(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(99)).Return(nil, repository.ErrTaskNotFound)

	// Act: повторные удаления несуществующего id ведут себя одинаково
	err1 := svc.DeleteTask(context.Background(), 99)
	err2 := svc.DeleteTask(context.Background(), 99)

	// Assert
	assert.ErrorIs(t, err1, repository.ErrTaskNotFound)
	assert.ErrorIs(t, err2, repository.ErrTaskNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteTask_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(7)).Return(existingTask(7), nil)
	mockRepo.On("Delete", mock.Anything, uint(7)).Return(nil)

	err := svc.DeleteTask(context.Background(), 7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCompleteTask_StampsCompletedAt(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(7)).Return(existingTask(7), nil)

	var fields map[string]any
	mockRepo.On("Update", mock.Anything, uint(7), mock.Anything).
		Run(func(args mock.Arguments) {
			fields = args.Get(2).(map[string]any)
		}).
		Return(nil)

	// Act
	err := svc.CompleteTask(context.Background(), 7)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, fields["status"])
	assert.IsType(t, time.Time{}, fields["completed_at"])
	assert.Contains(t, fields, "updated_at")
	mockRepo.AssertExpectations(t)
}

func TestCompleteTask_NotFound_NoSideEffects(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("Find", mock.Anything, uint(123)).Return(nil, repository.ErrTaskNotFound)

	err := svc.CompleteTask(context.Background(), 123)

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTaskByID_Projection(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	due := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	task := existingTask(7)
	task.DueDate = &due

	mockRepo.On("Find", mock.Anything, uint(7)).Return(task, nil)

	data, err := svc.GetTaskByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, uint(7), data.ID)
	assert.Equal(t, "2024-06-01 15:04:05", *data.DueDate)
	assert.Nil(t, data.CompletedAt)
}

func TestGetAllTasks_Projection(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo)

	mockRepo.On("All", mock.Anything).Return([]model.Task{*existingTask(2), *existingTask(1)}, nil)

	tasks, err := svc.GetAllTasks(context.Background())

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, uint(2), tasks[0].ID)
}
