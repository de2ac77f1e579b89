package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

type QuestRepo struct {
	db *sql.DB
}

func NewQuestRepo(db *sql.DB) *QuestRepo {
	return &QuestRepo{db: db}
}

func newQuestID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", fmt.Errorf("mint quest id: %w", err)
	}
	return id.String(), nil
}

func (r *QuestRepo) Insert(ctx context.Context, in QuestInsert) (*Quest, error) {
	id, err := newQuestID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quests (
			id, title, duration_minutes, due_date, created_at,
			is_completed, is_started, start_time, xp_reward,
			is_bounty, bounty_credit_reward, bounty_generation_date
		) VALUES (?, ?, ?, ?, ?, 0, 0, NULL, ?, ?, ?, ?)
	`, id, in.Title, in.DurationMinutes, in.DueDate, now,
		in.XPReward, boolToInt(in.IsBounty), in.BountyCreditReward, in.BountyGenerationDate)
	if err != nil {
		return nil, fmt.Errorf("quest insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *QuestRepo) Get(ctx context.Context, id string) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, duration_minutes, due_date, created_at,
			is_completed, is_started, start_time, xp_reward,
			is_bounty, bounty_credit_reward, bounty_generation_date
		FROM quests
		WHERE id = ?
	`, id)
	return scanQuestRow(row)
}

func (r *QuestRepo) ListAll(ctx context.Context) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, duration_minutes, due_date, created_at,
			is_completed, is_started, start_time, xp_reward,
			is_bounty, bounty_credit_reward, bounty_generation_date
		FROM quests
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest list rows: %w", err)
	}
	return out, nil
}

// MarkStarted flips a quest to Active and records when its timer began.
func (r *QuestRepo) MarkStarted(ctx context.Context, id string, start time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET is_started = 1, start_time = ? WHERE id = ?
	`, start.UTC(), id)
	if err != nil {
		return fmt.Errorf("quest mark started: %w", err)
	}
	return nil
}

// ClearStarted returns an Active quest to Pending.
func (r *QuestRepo) ClearStarted(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET is_started = 0, start_time = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("quest clear started: %w", err)
	}
	return nil
}

// MarkCompleted sets or clears the completed flag. A completed quest is
// never simultaneously started.
func (r *QuestRepo) MarkCompleted(ctx context.Context, id string, done bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET is_completed = ?, is_started = 0, start_time = NULL WHERE id = ?
	`, boolToInt(done), id)
	if err != nil {
		return fmt.Errorf("quest mark completed: %w", err)
	}
	return nil
}

// UpdateContent rewrites the editable fields of a pending quest.
func (r *QuestRepo) UpdateContent(ctx context.Context, id string, title string, minutes int, due string, xp int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET title = ?, duration_minutes = ?, due_date = ?, xp_reward = ? WHERE id = ?
	`, title, minutes, due, xp, id)
	if err != nil {
		return fmt.Errorf("quest update content: %w", err)
	}
	return nil
}

func (r *QuestRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("quest delete: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestRow(row scanner) (*Quest, error) {
	var (
		q           Quest
		isCompleted int
		isStarted   int
		isBounty    int
		startTime   sql.NullTime
	)

	if err := row.Scan(
		&q.ID, &q.Title, &q.DurationMinutes, &q.DueDate, &q.CreatedAt,
		&isCompleted, &isStarted, &startTime, &q.XPReward,
		&isBounty, &q.BountyCreditReward, &q.BountyGenerationDate,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}

	q.IsCompleted = isCompleted != 0
	q.IsStarted = isStarted != 0
	q.IsBounty = isBounty != 0
	if startTime.Valid {
		v := startTime.Time
		q.StartTime = &v
	}
	return &q, nil
}
