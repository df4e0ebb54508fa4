package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// GetProfile returns the stored profile for a user, or nil if the user has
// never saved one. An empty profile and an absent profile are distinct.
func (db *DB) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT profile FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile merges the supplied fields into the stored profile. Only
// top-level fields present in the patch overwrite stored values; unspecified
// fields are never deleted.
func (db *DB) UpsertProfile(ctx context.Context, userID string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode profile patch: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, profile) VALUES ($1, $2::jsonb)
		 ON CONFLICT (user_id)
		 DO UPDATE SET profile = profiles.profile || EXCLUDED.profile, updated_at = NOW()`,
		userID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
