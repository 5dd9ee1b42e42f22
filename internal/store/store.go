package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates no result with the requested id exists.
var ErrNotFound = errors.New("result not found")

// GradingResult is one persisted grading outcome. Hidden counts and the
// error note are operator-only fields; API handlers decide what a submitter
// may see.
type GradingResult struct {
	ID             string
	UserID         string
	File           string
	Score          float64
	VisibleMatched int
	VisibleTotal   int
	HiddenMatched  int
	HiddenTotal    int
	Feedback       string
	ErrorNote      string
	CreatedAt      int64
}

type ListOpts struct {
	UserID string // filter by submitter
	Limit  int
	Offset int
}

type Store interface {
	SaveResult(ctx context.Context, r GradingResult) (GradingResult, error)
	GetResult(ctx context.Context, id string) (GradingResult, error)
	ListResults(ctx context.Context, opts ListOpts) ([]GradingResult, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) SaveResult(ctx context.Context, r GradingResult) (GradingResult, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO results
  (id, user_id, file, score, visible_matched, visible_total, hidden_matched, hidden_total, feedback, error_note, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.UserID, r.File, r.Score,
		r.VisibleMatched, r.VisibleTotal, r.HiddenMatched, r.HiddenTotal,
		r.Feedback, r.ErrorNote, r.CreatedAt)
	if err != nil {
		return GradingResult{}, fmt.Errorf("save result: %w", err)
	}
	return r, nil
}

func (s *sqlStore) GetResult(ctx context.Context, id string) (GradingResult, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, file, score, visible_matched, visible_total, hidden_matched, hidden_total, feedback, error_note, created_at
FROM results WHERE id=$1`, id)
	var r GradingResult
	err := row.Scan(&r.ID, &r.UserID, &r.File, &r.Score,
		&r.VisibleMatched, &r.VisibleTotal, &r.HiddenMatched, &r.HiddenTotal,
		&r.Feedback, &r.ErrorNote, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GradingResult{}, ErrNotFound
	}
	if err != nil {
		return GradingResult{}, fmt.Errorf("get result: %w", err)
	}
	return r, nil
}

func (s *sqlStore) ListResults(ctx context.Context, opts ListOpts) ([]GradingResult, error) {
	if opts.Limit <= 0 || opts.Limit > 500 {
		opts.Limit = 100
	}
	q := `
SELECT id, user_id, file, score, visible_matched, visible_total, hidden_matched, hidden_total, feedback, error_note, created_at
FROM results`
	args := []interface{}{}
	if opts.UserID != "" {
		q += ` WHERE user_id=$1`
		args = append(args, opts.UserID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []GradingResult
	for rows.Next() {
		var r GradingResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.File, &r.Score,
			&r.VisibleMatched, &r.VisibleTotal, &r.HiddenMatched, &r.HiddenTotal,
			&r.Feedback, &r.ErrorNote, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
