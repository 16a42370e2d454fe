package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/task-manager/internal/model"
)

// TaskQuery filters and paginates a user's tasks.  Page and Limit are
// assumed positive; the handler enforces that.
type TaskQuery struct {
	UserID string
	Status model.TaskStatus
	Search string
	Page   int
	Limit  int
}

// TaskRepo stores tasks in MySQL.  Every read and write is scoped by
// user_id so one user can never touch another user's rows.
type TaskRepo struct{ db *sql.DB }

// NewTaskRepo wraps an open pool.
func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// Create inserts t, filling in its ID and timestamps.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.TaskPending
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (id, user_id, title, status, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		t.ID, t.UserID, t.Title, string(t.Status), t.CreatedAt, t.UpdatedAt)
	return err
}

// List returns one page of the user's tasks, newest first, and the total
// number of tasks matching the filter.
func (r *TaskRepo) List(ctx context.Context, q TaskQuery) ([]model.Task, int64, error) {
	// Ownership is always the first condition; filters are appended.
	where := []string{"user_id = ?"}
	args := []any{q.UserID}

	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Search != "" {
		where = append(where, "title LIKE ?")
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}
	cond := strings.Join(where, " AND ")

	// Count uses the same filter so total matches the pages served.
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT id, user_id, title, status, created_at, updated_at
		FROM tasks
		WHERE ` + cond + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
	// Copy args so the count query's slice is never aliased.
	argsData := append(append([]any{}, args...), q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Task, 0, q.Limit)
	for rows.Next() {
		var t model.Task
		var status string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		t.Status = model.TaskStatus(status)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID returns the task only if it belongs to userID.
func (r *TaskRepo) GetByID(ctx context.Context, id, userID string) (*model.Task, error) {
	var t model.Task
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, status, created_at, updated_at FROM tasks WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&t.ID, &t.UserID, &t.Title, &status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Status = model.TaskStatus(status)
	return &t, nil
}

// Update writes title and status back and bumps updated_at.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	t.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET title=?, status=?, updated_at=? WHERE id=? AND user_id=?",
		t.Title, string(t.Status), t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the task if it belongs to userID.
func (r *TaskRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// expectOne turns "no rows affected" into ErrTaskNotFound.  The DSN sets
// clientFoundRows so an update that changes nothing still counts as a match.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
