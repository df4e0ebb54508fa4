package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// SaveRecommendation persists a recommendation under the given session id.
// Recommendations are written once and never updated in place.
func (db *DB) SaveRecommendation(ctx context.Context, userID, sessionID string, rec *types.RecommendationOutput) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recommendation: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO recommendations (session_id, user_id, content) VALUES ($1, $2, $3)`,
		sessionID, userID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}

// GetRecommendation returns a stored recommendation, or nil if absent.
func (db *DB) GetRecommendation(ctx context.Context, userID, sessionID string) (*types.RecommendationOutput, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM recommendations WHERE session_id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	var rec types.RecommendationOutput
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	return &rec, nil
}
