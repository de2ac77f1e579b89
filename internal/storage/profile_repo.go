package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, key string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, display_name, xp, level, credits,
			sarcasm, helpfulness, chattiness,
			pal_color, equipped_hat, equipped_accessory, unlocked_cosmetics,
			last_bounties_date
		FROM profiles
		WHERE key = ?
	`, key)

	var (
		p            Profile
		cosmeticsRaw sql.NullString
	)
	if err := row.Scan(
		&p.Key, &p.DisplayName, &p.XP, &p.Level, &p.Credits,
		&p.Sarcasm, &p.Helpfulness, &p.Chattiness,
		&p.PalColorID, &p.EquippedHat, &p.EquippedAccessory, &cosmeticsRaw,
		&p.LastBountiesGeneratedDate,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}

	if cosmeticsRaw.Valid && cosmeticsRaw.String != "" {
		if err := json.Unmarshal([]byte(cosmeticsRaw.String), &p.UnlockedCosmetics); err != nil {
			return nil, fmt.Errorf("unmarshal unlocked cosmetics: %w", err)
		}
	}
	return &p, nil
}

// GetOrCreateMain returns the hero profile, creating it with schema defaults
// on first use.
func (r *ProfileRepo) GetOrCreateMain(ctx context.Context) (*Profile, error) {
	p, err := r.Get(ctx, MainProfileKey)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO profiles (key) VALUES (?)`, MainProfileKey); err != nil {
		return nil, fmt.Errorf("profile insert: %w", err)
	}
	return r.Get(ctx, MainProfileKey)
}

// Save upserts the whole profile document. The store contract is
// single-document last-write-wins; there is no field-level merge.
func (r *ProfileRepo) Save(ctx context.Context, p *Profile) error {
	var cosmeticsJSON *string
	if len(p.UnlockedCosmetics) > 0 {
		data, err := json.Marshal(p.UnlockedCosmetics)
		if err != nil {
			return fmt.Errorf("marshal unlocked cosmetics: %w", err)
		}
		s := string(data)
		cosmeticsJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			key, display_name, xp, level, credits,
			sarcasm, helpfulness, chattiness,
			pal_color, equipped_hat, equipped_accessory, unlocked_cosmetics,
			last_bounties_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			display_name = excluded.display_name,
			xp = excluded.xp,
			level = excluded.level,
			credits = excluded.credits,
			sarcasm = excluded.sarcasm,
			helpfulness = excluded.helpfulness,
			chattiness = excluded.chattiness,
			pal_color = excluded.pal_color,
			equipped_hat = excluded.equipped_hat,
			equipped_accessory = excluded.equipped_accessory,
			unlocked_cosmetics = excluded.unlocked_cosmetics,
			last_bounties_date = excluded.last_bounties_date
	`, p.Key, p.DisplayName, p.XP, p.Level, p.Credits,
		p.Sarcasm, p.Helpfulness, p.Chattiness,
		p.PalColorID, p.EquippedHat, p.EquippedAccessory, cosmeticsJSON,
		p.LastBountiesGeneratedDate)
	if err != nil {
		return fmt.Errorf("profile save: %w", err)
	}
	return nil
}
