package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/task-manager/internal/model"
	"github.com/iliyamo/task-manager/internal/repository"
)

// TaskStore is the task persistence the service depends on.  Lookups and
// writes are always scoped to an owner.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	List(ctx context.Context, q repository.TaskQuery) ([]model.Task, int64, error)
	GetByID(ctx context.Context, id, userID string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateTaskInput is a validated create request.  An empty Status means
// PENDING.
type CreateTaskInput struct {
	Title  string
	Status model.TaskStatus
}

// UpdateTaskInput holds a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title  *string
	Status *model.TaskStatus
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks      []model.Task `json:"tasks"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

// TaskService manages tasks on behalf of their owner.  A task that belongs
// to another user is reported as not found.
type TaskService struct {
	tasks TaskStore
	log   *zap.Logger
}

// NewTaskService returns a TaskService; a nil logger is replaced by a no-op.
func NewTaskService(tasks TaskStore, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{tasks: tasks, log: log.Named("tasks")}
}

// Create stores a new task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*model.Task, error) {
	t := &model.Task{UserID: userID, Title: in.Title, Status: in.Status}
	if t.Status == "" {
		t.Status = model.TaskPending
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, InternalError("create task", err)
	}
	return t, nil
}

// List returns one page of the owner's tasks.  TotalPages is zero when
// nothing matches.
func (s *TaskService) List(ctx context.Context, q repository.TaskQuery) (*TaskPage, error) {
	tasks, total, err := s.tasks.List(ctx, q)
	if err != nil {
		return nil, InternalError("list tasks", err)
	}
	// ceil(total / limit) without floats
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return &TaskPage{Tasks: tasks, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}, nil
}

// Get returns the task if userID owns it.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, taskErr("get task", err)
	}
	return t, nil
}

// Update applies the non-nil fields of in.
func (s *TaskService) Update(ctx context.Context, id, userID string, in UpdateTaskInput) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, taskErr("get task", err)
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, taskErr("update task", err)
	}
	return t, nil
}

// Toggle flips a completed task back to pending and anything else to
// completed.
func (s *TaskService) Toggle(ctx context.Context, id, userID string) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, taskErr("get task", err)
	}
	t.Status = t.Status.Toggled()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, taskErr("toggle task", err)
	}
	return t, nil
}

// Delete removes the task if userID owns it.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return taskErr("delete task", err)
	}
	return nil
}

// taskErr maps repository errors onto service errors.
func taskErr(op string, err error) *Error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return NotFoundError(MsgTaskNotFound)
	}
	return InternalError(op, err)
}
