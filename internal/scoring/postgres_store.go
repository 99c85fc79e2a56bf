package scoring

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/returnguard/returnguard/internal/pagination"
)

// PostgresStore persists score events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed score event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the score_events table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS score_events (
			id            VARCHAR(36) PRIMARY KEY,
			user_id       VARCHAR(128) NOT NULL,
			order_id      VARCHAR(128) NOT NULL,
			risk_score    NUMERIC(6,5) NOT NULL CHECK (risk_score >= 0 AND risk_score <= 1),
			is_flagged    BOOLEAN NOT NULL,
			confidence    NUMERIC(6,5) NOT NULL CHECK (confidence >= 0 AND confidence <= 1),
			model_version VARCHAR(64) NOT NULL DEFAULT 'unknown',
			scored_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_score_events_user_id
			ON score_events (user_id, scored_at DESC);

		CREATE INDEX IF NOT EXISTS idx_score_events_flagged
			ON score_events (scored_at DESC) WHERE is_flagged;
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, event *ScoreEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_events (id, user_id, order_id, risk_score, is_flagged, confidence, model_version, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.ID,
		event.UserID,
		event.OrderID,
		event.RiskScore,
		event.IsFlagged,
		event.Confidence,
		event.ModelVersion,
		event.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record score event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, before *pagination.Cursor, limit int) ([]*ScoreEvent, error) {
	query := `
		SELECT id, user_id, order_id, risk_score, is_flagged, confidence, model_version, scored_at
		FROM score_events
		WHERE user_id = $1
		ORDER BY scored_at DESC, id DESC
		LIMIT $2
	`
	args := []any{userID, limit}
	if before != nil {
		query = `
			SELECT id, user_id, order_id, risk_score, is_flagged, confidence, model_version, scored_at
			FROM score_events
			WHERE user_id = $1 AND (scored_at, id) < ($3, $4)
			ORDER BY scored_at DESC, id DESC
			LIMIT $2
		`
		args = append(args, before.Timestamp, before.ID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list score events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*ScoreEvent
	for rows.Next() {
		var e ScoreEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderID, &e.RiskScore, &e.IsFlagged, &e.Confidence, &e.ModelVersion, &e.ScoredAt); err != nil {
			continue
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
