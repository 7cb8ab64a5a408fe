package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteTimeLayout is fixed width so created_at orders correctly as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MemoryDSN opens a private in-memory database. It only lives as long as
// its single connection, so OpenSQLite pins the pool to one connection.
const MemoryDSN = ":memory:"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens dsn, applies migrations and returns a repository.
func OpenSQLite(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenMemory is the session history store: nothing survives Close.
func OpenMemory() (*SQLiteRepository, error) {
	return OpenSQLite(MemoryDSN)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

func (r *SQLiteRepository) CreateRun(ctx context.Context, in Run) error {
	if in.ID == "" {
		return errors.New("storage: run id is required")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, strategy, total_tasks, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Strategy, in.TotalTasks, mustTime(in.CreatedAt),
	); err != nil {
		return err
	}
	for i, task := range in.Tasks {
		deps, err := encodeDependencies(task.Dependencies)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO analysis_run_tasks (run_id, position, task_id, title, due_date, estimated_hours, importance, dependencies, priority_score, explanation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, i, task.TaskID, task.Title, task.DueDate, task.EstimatedHours, task.Importance, deps, task.PriorityScore, task.Explanation,
		); err != nil {
			return fmt.Errorf("insert run task %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, strategy, total_tasks, created_at
		FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT position, task_id, title, due_date, estimated_hours, importance, dependencies, priority_score, explanation
		FROM analysis_run_tasks WHERE run_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()

	run.Tasks = make([]RunTask, 0)
	for rows.Next() {
		task, scanErr := scanRunTask(rows)
		if scanErr != nil {
			return Run{}, scanErr
		}
		run.Tasks = append(run.Tasks, task)
	}
	return run, rows.Err()
}

func (r *SQLiteRepository) ListRuns(ctx context.Context, filter RunListFilter) ([]Run, error) {
	query := `SELECT id, strategy, total_tasks, created_at FROM analysis_runs`
	args := make([]any, 0, 3)
	if filter.Strategy != "" {
		query += ` WHERE strategy = ?`
		args = append(args, filter.Strategy)
	}
	query += ` ORDER BY created_at ASC, rowid ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0)
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// PruneRuns deletes all but the newest keep runs and reports how many went.
func (r *SQLiteRepository) PruneRuns(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM analysis_runs WHERE id NOT IN (
			SELECT id FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func encodeDependencies(deps []string) (string, error) {
	if deps == nil {
		deps = []string{}
	}
	raw, err := json.Marshal(deps)
	if err != nil {
		return "", fmt.Errorf("encode dependencies: %w", err)
	}
	return string(raw), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var out Run
	var created string
	if err := s.Scan(&out.ID, &out.Strategy, &out.TotalTasks, &created); err != nil {
		return Run{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Run{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func scanRunTask(s scanner) (RunTask, error) {
	var out RunTask
	var deps string
	if err := s.Scan(&out.Position, &out.TaskID, &out.Title, &out.DueDate, &out.EstimatedHours, &out.Importance, &deps, &out.PriorityScore, &out.Explanation); err != nil {
		return RunTask{}, err
	}
	out.Dependencies = make([]string, 0)
	if err := json.Unmarshal([]byte(deps), &out.Dependencies); err != nil {
		return RunTask{}, fmt.Errorf("decode dependencies: %w", err)
	}
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
