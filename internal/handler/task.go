package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/task-manager/internal/middleware"
	"github.com/iliyamo/task-manager/internal/model"
	"github.com/iliyamo/task-manager/internal/repository"
	"github.com/iliyamo/task-manager/internal/service"
)

// TaskService is implemented by *service.TaskService.
type TaskService interface {
	Create(ctx context.Context, userID string, in service.CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, q repository.TaskQuery) (*service.TaskPage, error)
	Get(ctx context.Context, id, userID string) (*model.Task, error)
	Update(ctx context.Context, id, userID string, in service.UpdateTaskInput) (*model.Task, error)
	Toggle(ctx context.Context, id, userID string) (*model.Task, error)
	Delete(ctx context.Context, id, userID string) error
}

// TaskHandler serves /tasks.  Every route runs behind Authenticate.
type TaskHandler struct {
	Tasks TaskService
	Log   *zap.Logger
}

// NewTaskHandler returns a TaskHandler; a nil logger is replaced by a no-op.
func NewTaskHandler(tasks TaskService, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{Tasks: tasks, Log: log.Named("task-handler")}
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

type createTaskReq struct {
	Title  string `json:"title" validate:"required,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

type updateTaskReq struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=200"`
	Status *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

type listTasksReq struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Search string `query:"search" json:"search"`
	Page   string `query:"page" json:"page"`
	Limit  string `query:"limit" json:"limit"`
}

// List returns the caller's tasks, newest first.
func (h *TaskHandler) List(c echo.Context) error {
	uid, okID := h.user(c)
	if !okID {
		return unauthenticated(c)
	}
	var req listTasksReq
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return failPlain(c, h.Log, service.ValidationError(service.FieldError{Field: "query", Message: "Invalid query"}))
	}
	var fields []service.FieldError
	if err := c.Validate(&req); err != nil {
		fields = append(fields, fieldErrors(err)...)
	}
	page, pageOK := positive(req.Page, defaultPage)
	if !pageOK {
		fields = append(fields, service.FieldError{Field: "page", Message: "Page must be a positive number"})
	}
	limit, limitOK := positive(req.Limit, defaultLimit)
	if !limitOK {
		fields = append(fields, service.FieldError{Field: "limit", Message: "Limit must be a positive number"})
	}
	if len(fields) > 0 {
		return failPlain(c, h.Log, service.ValidationError(fields...))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Tasks.List(ctx, repository.TaskQuery{
		UserID: uid,
		Status: model.TaskStatus(req.Status),
		Search: req.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return failPlain(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Create adds a task for the caller and returns it with 201.
func (h *TaskHandler) Create(c echo.Context) error {
	uid, okID := h.user(c)
	if !okID {
		return unauthenticated(c)
	}
	var req createTaskReq
	if err := bindValid(c, &req); err != nil {
		return failPlain(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	t, err := h.Tasks.Create(ctx, uid, service.CreateTaskInput{Title: req.Title, Status: model.TaskStatus(req.Status)})
	if err != nil {
		return failPlain(c, h.Log, err)
	}
	taskOpsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, echo.Map{"message": "Task created successfully", "taskId": t.ID})
}

// Get returns one of the caller's tasks.
func (h *TaskHandler) Get(c echo.Context) error {
	uid, id, found, werr := h.target(c)
	if !found {
		return werr
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	t, err := h.Tasks.Get(ctx, id, uid)
	if err != nil {
		return failPlain(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Update applies a partial update to one of the caller's tasks.
func (h *TaskHandler) Update(c echo.Context) error {
	uid, id, found, werr := h.target(c)
	if !found {
		return werr
	}
	var req updateTaskReq
	if err := bindValid(c, &req); err != nil {
		return failPlain(c, h.Log, err)
	}
	in := service.UpdateTaskInput{Title: req.Title}
	if req.Status != nil {
		s := model.TaskStatus(*req.Status)
		in.Status = &s
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	t, err := h.Tasks.Update(ctx, id, uid, in)
	if err != nil {
		return failPlain(c, h.Log, err)
	}
	taskOpsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, echo.Map{"message": "Task updated successfully", "task": t})
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(c echo.Context) error {
	uid, id, found, werr := h.target(c)
	if !found {
		return werr
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Tasks.Delete(ctx, id, uid); err != nil {
		return failPlain(c, h.Log, err)
	}
	taskOpsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully"})
}

// Toggle flips a task between completed and pending.
func (h *TaskHandler) Toggle(c echo.Context) error {
	uid, id, found, werr := h.target(c)
	if !found {
		return werr
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	t, err := h.Tasks.Toggle(ctx, id, uid)
	if err != nil {
		return failPlain(c, h.Log, err)
	}
	taskOpsTotal.WithLabelValues("toggle").Inc()
	return c.JSON(http.StatusOK, echo.Map{"message": "Task status toggled successfully", "task": t})
}

func (h *TaskHandler) user(c echo.Context) (string, bool) {
	p, found := middleware.Identity(c)
	return p.UserID, found
}

// target resolves the caller and the :id path parameter.  When found is
// false the error response has already been written and werr is the result
// of writing it.
func (h *TaskHandler) target(c echo.Context) (uid, id string, found bool, werr error) {
	uid, found = h.user(c)
	if !found {
		return "", "", false, unauthenticated(c)
	}
	id = c.Param("id")
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return "", "", false, failPlain(c, h.Log, service.ValidationError(
			service.FieldError{Field: "id", Message: "Task ID must be a valid UUID"}))
	}
	return uid, id, true, nil
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
}

// positive parses an optional positive integer query value.
func positive(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
