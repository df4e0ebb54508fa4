package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// CreateSession creates a new chat session for the user and returns its id.
func (db *DB) CreateSession(ctx context.Context, userID string) (string, error) {
	var id string
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id) VALUES ($1) RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// AppendMessage persists one message to a session and refreshes the
// session's last_updated_at. Messages are append-only.
func (db *DB) AppendMessage(ctx context.Context, userID, sessionID string, msg types.ChatMessage) (string, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx,
		`INSERT INTO messages (session_id, user_id, role, content) VALUES ($1, $2, $3, $4) RETURNING id`,
		sessionID, userID, msg.Role, msg.Content,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to append message: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE sessions SET last_updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", pgx.ErrNoRows
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit message: %w", err)
	}
	return id, nil
}

// ListMessages returns all messages for a session ordered by creation time
// ascending.
func (db *DB) ListMessages(ctx context.Context, userID, sessionID string) ([]types.ChatMessage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT role, content, created_at FROM messages
		 WHERE session_id = $1 AND user_id = $2
		 ORDER BY created_at ASC`,
		sessionID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var m types.ChatMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

// ListSessions returns the user's sessions sorted most recently updated
// first.
func (db *DB) ListSessions(ctx context.Context, userID string) ([]types.Session, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, created_at, last_updated_at FROM sessions
		 WHERE user_id = $1
		 ORDER BY last_updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var s types.Session
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// SessionExists reports whether the session belongs to the user.
func (db *DB) SessionExists(ctx context.Context, userID, sessionID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND user_id = $2)`,
		sessionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return exists, nil
}

// IsNotFound reports whether an error from a store operation means the
// referenced row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
