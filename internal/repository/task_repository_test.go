package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-manager/internal/model"
)

var taskCols = []string{"id", "user_id", "title", "status", "created_at", "updated_at"}

func TestTaskRepo_CreateDefaultsToPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)

	mock.ExpectExec(`^INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "u-1", "write docs", "PENDING", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &model.Task{UserID: "u-1", Title: "write docs"}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, model.TaskPending, task.Status)
	assert.NotEmpty(t, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepo_ListFiltersAndPaginates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM tasks WHERE user_id = \? AND status = \? AND title LIKE \?$`).
		WithArgs("u-1", "COMPLETED", `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`(?s)ORDER BY created_at DESC\s+LIMIT \? OFFSET \?`).
		WithArgs("u-1", "COMPLETED", `%50\%%`, 5, 10).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-2", "u-1", "cut 50% of scope", "COMPLETED", ts, ts))

	tasks, total, err := repo.List(context.Background(), TaskQuery{
		UserID: "u-1", Status: model.TaskCompleted, Search: "50%", Page: 3, Limit: 5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskCompleted, tasks[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepo_ListEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM tasks WHERE user_id = \?$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).
		WithArgs("u-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(taskCols))

	tasks, total, err := repo.List(context.Background(), TaskQuery{UserID: "u-1", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepo_GetByIDScopedToOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)

	mock.ExpectQuery(`FROM tasks WHERE id=\? AND user_id=\?`).
		WithArgs("t-1", "intruder").
		WillReturnRows(sqlmock.NewRows(taskCols))

	_, err := repo.GetByID(context.Background(), "t-1", "intruder")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepo_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)

	mock.ExpectExec(`^UPDATE tasks SET title=\?, status=\?, updated_at=\? WHERE id=\? AND user_id=\?$`).
		WithArgs("t", "PENDING", sqlmock.AnyArg(), "t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Task{ID: "t-1", UserID: "u-1", Title: "t", Status: model.TaskPending})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)

	mock.ExpectExec(`^DELETE FROM tasks WHERE id=\? AND user_id=\?$`).
		WithArgs("t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM tasks`).
		WithArgs("t-1", "u-1").
		WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Delete(context.Background(), "t-1", "u-1"))
	err := repo.Delete(context.Background(), "t-1", "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
}
