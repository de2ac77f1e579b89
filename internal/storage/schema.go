package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			key TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT 'Hero',
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			credits INTEGER NOT NULL DEFAULT 5,

			sarcasm INTEGER NOT NULL DEFAULT 50,
			helpfulness INTEGER NOT NULL DEFAULT 75,
			chattiness INTEGER NOT NULL DEFAULT 60,

			pal_color TEXT NOT NULL DEFAULT 'default',
			equipped_hat TEXT NOT NULL DEFAULT 'none',
			equipped_accessory TEXT NOT NULL DEFAULT 'none',
			unlocked_cosmetics TEXT,

			last_bounties_date TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			due_date TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,

			is_completed INTEGER NOT NULL DEFAULT 0,
			is_started INTEGER NOT NULL DEFAULT 0,
			start_time DATETIME,
			xp_reward INTEGER NOT NULL,

			is_bounty INTEGER NOT NULL DEFAULT 0,
			bounty_credit_reward INTEGER NOT NULL DEFAULT 0,
			bounty_generation_date TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_due_date ON quests(due_date);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_bounty_date ON quests(is_bounty, bounty_generation_date);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
