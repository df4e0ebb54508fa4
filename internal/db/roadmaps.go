package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// CreateRoadmap stores a new roadmap with an empty completed-task set and
// returns its id.
func (db *DB) CreateRoadmap(ctx context.Context, userID string, job types.JobDetails, phases []types.RoadmapPhase) (string, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode job details: %w", err)
	}
	planJSON, err := json.Marshal(phases)
	if err != nil {
		return "", fmt.Errorf("failed to encode roadmap: %w", err)
	}

	var id string
	err = db.pool.QueryRow(ctx,
		`INSERT INTO roadmaps (user_id, job_details, roadmap) VALUES ($1, $2, $3) RETURNING id`,
		userID, jobJSON, planJSON,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create roadmap: %w", err)
	}
	return id, nil
}

// AddCompletedTask adds a task title to the roadmap's completed set.
// Adding an already-present title is a no-op.
func (db *DB) AddCompletedTask(ctx context.Context, userID, roadmapID, task string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE roadmaps
		 SET completed_tasks = CASE
		     WHEN $3 = ANY(completed_tasks) THEN completed_tasks
		     ELSE array_append(completed_tasks, $3)
		 END
		 WHERE id = $1 AND user_id = $2`,
		roadmapID, userID, task,
	)
	if err != nil {
		return fmt.Errorf("failed to add completed task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RemoveCompletedTask removes a task title from the roadmap's completed
// set. Removing an absent title is a no-op.
func (db *DB) RemoveCompletedTask(ctx context.Context, userID, roadmapID, task string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE roadmaps SET completed_tasks = array_remove(completed_tasks, $3)
		 WHERE id = $1 AND user_id = $2`,
		roadmapID, userID, task,
	)
	if err != nil {
		return fmt.Errorf("failed to remove completed task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetPrimaryRoadmap returns the user's oldest-created roadmap, or nil if
// they have none.
func (db *DB) GetPrimaryRoadmap(ctx context.Context, userID string) (*types.Roadmap, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, job_details, roadmap, completed_tasks, created_at FROM roadmaps
		 WHERE user_id = $1
		 ORDER BY created_at ASC
		 LIMIT 1`,
		userID,
	)

	rm, err := scanRoadmap(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get primary roadmap: %w", err)
	}
	return rm, nil
}

// GetRoadmap returns one roadmap by id. An unknown id surfaces as
// pgx.ErrNoRows so callers can map it to not-found.
func (db *DB) GetRoadmap(ctx context.Context, userID, roadmapID string) (*types.Roadmap, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, job_details, roadmap, completed_tasks, created_at FROM roadmaps
		 WHERE id = $1 AND user_id = $2`,
		roadmapID, userID,
	)

	rm, err := scanRoadmap(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}
	return rm, nil
}

func scanRoadmap(row pgx.Row) (*types.Roadmap, error) {
	var rm types.Roadmap
	var jobJSON, planJSON []byte
	if err := row.Scan(&rm.ID, &jobJSON, &planJSON, &rm.CompletedTasks, &rm.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jobJSON, &rm.JobDetails); err != nil {
		return nil, fmt.Errorf("failed to decode job details: %w", err)
	}
	if err := json.Unmarshal(planJSON, &rm.Roadmap); err != nil {
		return nil, fmt.Errorf("failed to decode roadmap phases: %w", err)
	}
	if rm.CompletedTasks == nil {
		rm.CompletedTasks = []string{}
	}
	return &rm, nil
}
