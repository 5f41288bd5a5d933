package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskmanager/internal/middleware"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService service.TaskServiceInterface
}

func NewTaskHandler(taskService service.TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRequest представляет запрос на создание или обновление задачи.
// Указатели отличают "поле не прислано" от "прислано пустое".
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func (r TaskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
	}
}

// GetTasks возвращает одну задачу по ID или список задач.
// Приоритет фильтров: id > status > priority > все задачи.
// @Summary      List or get tasks
// @Tags         Tasks
// @Produce      json
// @Param        id       path   int    false  "Task ID"
// @Param        status   query  string false  "Filter by status"
// @Param        priority query  string false  "Filter by priority"
// @Success      200  {object}  handler.Envelope
// @Failure      404  {object}  handler.Envelope
// @Router       /tasks [get]
func (h *TaskHandler) GetTasks(c *gin.Context) {
	ctx := c.Request.Context()

	if idStr := c.Param("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			respond(c, http.StatusBadRequest, nil, "Invalid task ID")
			return
		}

		task, err := h.taskService.GetTaskByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				respond(c, http.StatusNotFound, nil, "Task not found")
			} else {
				respond(c, http.StatusInternalServerError, nil, "Failed to retrieve task")
			}
			return
		}

		respond(c, http.StatusOK, task, "Task retrieved successfully")
		return
	}

	if status := c.Query("status"); status != "" {
		tasks, err := h.taskService.GetTasksByStatus(ctx, status)
		if err != nil {
			respond(c, http.StatusInternalServerError, nil, "Failed to retrieve tasks")
			return
		}
		respond(c, http.StatusOK, tasks, "Tasks retrieved successfully")
		return
	}

	if priority := c.Query("priority"); priority != "" {
		tasks, err := h.taskService.GetTasksByPriority(ctx, priority)
		if err != nil {
			respond(c, http.StatusInternalServerError, nil, "Failed to retrieve tasks")
			return
		}
		respond(c, http.StatusOK, tasks, "Tasks retrieved successfully")
		return
	}

	tasks, err := h.taskService.GetAllTasks(ctx)
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "Failed to retrieve tasks")
		return
	}
	respond(c, http.StatusOK, tasks, "Tasks retrieved successfully")
}

// SaveTask создает новую задачу или обновляет существующую, если в пути
// указан ID. Валидация выполняется один раз, до любого обращения к БД.
// @Summary      Create or update a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int          false  "Task ID (update)"
// @Param        task  body  TaskRequest  true   "Task fields"
// @Security     BearerAuth
// @Success      200  {object}  handler.Envelope
// @Success      201  {object}  handler.Envelope
// @Failure      400  {object}  handler.Envelope
// @Failure      404  {object}  handler.Envelope
// @Router       /tasks [post]
func (h *TaskHandler) SaveTask(c *gin.Context) {
	ctx := c.Request.Context()

	// Парсим тело запроса
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "Invalid request body")
		return
	}
	in := req.toInput()

	// Валидируем все правила разом, клиент получает полный список ошибок
	if errs := h.taskService.ValidateTaskData(in); len(errs) > 0 {
		respond(c, http.StatusBadRequest, nil, strings.Join(errs, ", "))
		return
	}

	if idStr := c.Param("id"); idStr != "" {
		// Обновление существующей задачи
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			respond(c, http.StatusBadRequest, nil, "Invalid task ID")
			return
		}

		if err := h.taskService.UpdateTask(ctx, uint(id), in); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				respond(c, http.StatusNotFound, nil, "Task not found")
			} else {
				respond(c, http.StatusInternalServerError, nil, "Failed to update task")
			}
			return
		}

		updated, err := h.taskService.GetTaskByID(ctx, uint(id))
		if err != nil {
			respond(c, http.StatusInternalServerError, nil, "Failed to retrieve task")
			return
		}
		respond(c, http.StatusOK, updated, "Task updated successfully")
		return
	}

	// Создание новой задачи; created_by берем из токена
	task, err := h.taskService.CreateTask(ctx, in, actorID(c))
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "Failed to create task")
		return
	}

	respond(c, http.StatusCreated, task, "Task created successfully")
}

// DeleteTask удаляет задачу по ID. Удаление жесткое, без корзины.
// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Security     BearerAuth
// @Success      200  {object}  handler.Envelope
// @Failure      404  {object}  handler.Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, nil, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respond(c, http.StatusNotFound, nil, "Task not found")
		} else {
			respond(c, http.StatusInternalServerError, nil, "Failed to delete task")
		}
		return
	}

	respond(c, http.StatusOK, gin.H{"id": id}, "Task deleted successfully")
}

// CompleteTask переводит задачу в статус completed и проставляет
// completed_at. Это единственный путь, который трогает completed_at.
// @Summary      Mark a task completed
// @Tags         Tasks
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Security     BearerAuth
// @Success      200  {object}  handler.Envelope
// @Failure      404  {object}  handler.Envelope
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, nil, "Invalid task ID")
		return
	}

	if err := h.taskService.CompleteTask(ctx, uint(id)); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respond(c, http.StatusNotFound, nil, "Task not found")
		} else {
			respond(c, http.StatusInternalServerError, nil, "Failed to complete task")
		}
		return
	}

	task, err := h.taskService.GetTaskByID(ctx, uint(id))
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "Failed to retrieve task")
		return
	}
	respond(c, http.StatusOK, task, "Task completed successfully")
}

// actorID достает ID аутентифицированного пользователя из контекста,
// nil если маршрут не защищен middleware.
func actorID(c *gin.Context) *uint {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok {
		return nil
	}
	return &id
}
