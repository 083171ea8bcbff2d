// Package store persists tasks and profiles with sqlx over SQLite or
// PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/task"
)

// DB is a task and profile store.
type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

// Open connects to the database and ensures the schema exists.
// driver is "sqlite3" or "postgres".
func Open(log *slog.Logger, driver, address string) (*DB, error) {
	if driver == "sqlite3" {
		if dir := filepath.Dir(address); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	conn, err := sqlx.Connect(driver, address)
	if err != nil {
		log.Error("connection problem", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	db := &DB{log: log, conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Tasks

type taskRow struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	Title              string     `db:"title"`
	Type               string     `db:"type"`
	StartPage          *int       `db:"start_page"`
	EndPage            *int       `db:"end_page"`
	StartQuestion      *int       `db:"start_question"`
	EndQuestion        *int       `db:"end_question"`
	SubQuestions       *int       `db:"sub_questions"`
	VocabCount         *int       `db:"vocab_count"`
	CompletedPages     int        `db:"completed_pages"`
	CompletedVocab     int        `db:"completed_vocab"`
	CompletedQuestions string     `db:"completed_questions"`
	Progress           int        `db:"progress"`
	Status             string     `db:"status"`
	Priority           string     `db:"priority"`
	DueDate            time.Time  `db:"due_date"`
	Notify             bool       `db:"notify"`
	NotifyTime         *time.Time `db:"notify_time"`
	RemindedAt         *time.Time `db:"reminded_at"`
	Tags               string     `db:"tags"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

const taskColumns = `id, user_id, title, type, start_page, end_page, start_question, end_question,
	sub_questions, vocab_count, completed_pages, completed_vocab, completed_questions,
	progress, status, priority, due_date, notify, notify_time, reminded_at, tags,
	created_at, updated_at`

func toRow(t task.Task) (taskRow, error) {
	questions, err := json.Marshal(t.CompletedQuestions)
	if err != nil {
		return taskRow{}, fmt.Errorf("failed to encode completed questions: %w", err)
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tagData, err := json.Marshal(tags)
	if err != nil {
		return taskRow{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	return taskRow{
		ID:                 t.ID,
		UserID:             t.UserID,
		Title:              t.Title,
		Type:               string(t.Type),
		StartPage:          t.StartPage,
		EndPage:            t.EndPage,
		StartQuestion:      t.StartQuestion,
		EndQuestion:        t.EndQuestion,
		SubQuestions:       t.SubQuestions,
		VocabCount:         t.VocabCount,
		CompletedPages:     t.CompletedPages,
		CompletedVocab:     t.CompletedVocab,
		CompletedQuestions: string(questions),
		Progress:           t.Progress,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            t.DueDate.UTC(),
		Notify:             t.Notify,
		NotifyTime:         utcPtr(t.NotifyTime),
		RemindedAt:         utcPtr(t.RemindedAt),
		Tags:               string(tagData),
		CreatedAt:          t.CreatedAt.UTC(),
		UpdatedAt:          t.UpdatedAt.UTC(),
	}, nil
}

func (r taskRow) toTask() (task.Task, error) {
	var questions progress.QuestionSet
	if err := json.Unmarshal([]byte(r.CompletedQuestions), &questions); err != nil {
		return task.Task{}, fmt.Errorf("failed to decode completed questions of %s: %w", r.ID, err)
	}
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return task.Task{}, fmt.Errorf("failed to decode tags of %s: %w", r.ID, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return task.Task{
		ID:                 r.ID,
		UserID:             r.UserID,
		Title:              r.Title,
		Type:               task.Type(r.Type),
		StartPage:          r.StartPage,
		EndPage:            r.EndPage,
		StartQuestion:      r.StartQuestion,
		EndQuestion:        r.EndQuestion,
		SubQuestions:       r.SubQuestions,
		VocabCount:         r.VocabCount,
		CompletedPages:     r.CompletedPages,
		CompletedVocab:     r.CompletedVocab,
		CompletedQuestions: questions,
		Progress:           r.Progress,
		Status:             task.Status(r.Status),
		Priority:           task.Priority(r.Priority),
		DueDate:            r.DueDate.UTC(),
		Notify:             r.Notify,
		NotifyTime:         utcPtr(r.NotifyTime),
		RemindedAt:         utcPtr(r.RemindedAt),
		Tags:               tags,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}, nil
}

// CreateTask inserts a new task. The ID must already be set.
func (db *DB) CreateTask(ctx context.Context, t task.Task) error {
	row, err := toRow(t)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :user_id, :title, :type, :start_page, :end_page, :start_question, :end_question,
			:sub_questions, :vocab_count, :completed_pages, :completed_vocab, :completed_questions,
			:progress, :status, :priority, :due_date, :notify, :notify_time, :reminded_at, :tags,
			:created_at, :updated_at)`

	if _, err := db.conn.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return task.ErrTaskAlreadyExists
		}
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask returns a task owned by userID.
func (db *DB) GetTask(ctx context.Context, userID, id string) (task.Task, error) {
	q := db.conn.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`)

	var row taskRow
	if err := db.conn.GetContext(ctx, &row, q, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return row.toTask()
}

// ListTasks returns every task owned by userID ordered by due date.
func (db *DB) ListTasks(ctx context.Context, userID string) ([]task.Task, error) {
	q := db.conn.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY due_date ASC, title ASC`)

	var rows []taskRow
	if err := db.conn.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return toTasks(rows)
}

// UpdateTask overwrites the mutable columns of an existing task. reminded_at
// belongs to MarkReminded: it is kept unless the notify time changes, which
// clears it so the new time can fire.
func (db *DB) UpdateTask(ctx context.Context, t task.Task) error {
	row, err := toRow(t)
	if err != nil {
		return err
	}

	const q = `
		UPDATE tasks SET
			title = :title, type = :type,
			start_page = :start_page, end_page = :end_page,
			start_question = :start_question, end_question = :end_question,
			sub_questions = :sub_questions, vocab_count = :vocab_count,
			completed_pages = :completed_pages, completed_vocab = :completed_vocab,
			completed_questions = :completed_questions,
			progress = :progress, status = :status, priority = :priority,
			due_date = :due_date, notify = :notify, notify_time = :notify_time,
			reminded_at = CASE WHEN notify_time = :notify_time THEN reminded_at ELSE NULL END,
			tags = :tags, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`

	res, err := db.conn.NamedExecContext(ctx, q, row)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return expectOneRow(res, task.ErrTaskNotFound)
}

// DeleteTask removes a task owned by userID.
func (db *DB) DeleteTask(ctx context.Context, userID, id string) error {
	q := db.conn.Rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`)

	res, err := db.conn.ExecContext(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return expectOneRow(res, task.ErrTaskNotFound)
}

// DueReminders returns tasks of any user whose reminder time has passed and
// who have not been reminded yet. Finished tasks are skipped.
func (db *DB) DueReminders(ctx context.Context, now time.Time) ([]task.Task, error) {
	q := db.conn.Rebind(`SELECT ` + taskColumns + ` FROM tasks
		WHERE notify = ? AND notify_time IS NOT NULL AND notify_time <= ?
			AND reminded_at IS NULL AND status <> ?
		ORDER BY notify_time ASC`)

	var rows []taskRow
	if err := db.conn.SelectContext(ctx, &rows, q, true, now.UTC(), string(task.StatusDone)); err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return toTasks(rows)
}

// MarkReminded records that a task's reminder went out.
func (db *DB) MarkReminded(ctx context.Context, id string, at time.Time) error {
	q := db.conn.Rebind(`UPDATE tasks SET reminded_at = ? WHERE id = ?`)

	res, err := db.conn.ExecContext(ctx, q, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminded: %w", err)
	}
	return expectOneRow(res, task.ErrTaskNotFound)
}

// Profiles

// GetProfile returns the stored profile for userID.
func (db *DB) GetProfile(ctx context.Context, userID string) (task.Profile, error) {
	q := db.conn.Rebind(`SELECT user_id, display_name, bio, is_public, updated_at FROM profiles WHERE user_id = ?`)

	var p task.Profile
	if err := db.conn.GetContext(ctx, &p, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Profile{}, task.ErrProfileNotFound
		}
		return task.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// UpsertProfile creates or replaces a profile.
func (db *DB) UpsertProfile(ctx context.Context, p task.Profile) error {
	p.UpdatedAt = p.UpdatedAt.UTC()

	const q = `
		INSERT INTO profiles (user_id, display_name, bio, is_public, updated_at)
		VALUES (:user_id, :display_name, :bio, :is_public, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = excluded.display_name,
			bio = excluded.bio,
			is_public = excluded.is_public,
			updated_at = excluded.updated_at`

	if _, err := db.conn.NamedExecContext(ctx, q, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func toTasks(rows []taskRow) ([]task.Task, error) {
	out := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTask()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if aff == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
