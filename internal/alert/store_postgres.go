package alert

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"enrolld/pkg/domain"
)

// PostgresStore persists alert history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed alert store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append records the event.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO alerts (id, kind, severity, subject_id, display_name, registered_at, emitted_at, request_id, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID),
		string(event.Kind),
		string(event.Severity),
		string(event.SubjectID),
		event.DisplayName,
		event.RegisteredAt,
		event.Timestamp,
		event.RequestID,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

// ListBySubject returns all events for one subject in emission order.
func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID domain.SubjectID) ([]Event, error) {
	query := `
		SELECT id, kind, severity, subject_id, display_name, registered_at, emitted_at, request_id, device
		FROM alerts
		WHERE subject_id = $1
		ORDER BY emitted_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, string(subjectID))
	if err != nil {
		return nil, fmt.Errorf("list alerts by subject: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListRecent returns the newest events, most recent first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, kind, severity, subject_id, display_name, registered_at, emitted_at, request_id, device
		FROM alerts
		ORDER BY emitted_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent alerts: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var event Event
		var alertID uuid.UUID
		var kind, severity, subjectID string
		var registeredAt sql.NullTime
		err := rows.Scan(
			&alertID,
			&kind,
			&severity,
			&subjectID,
			&event.DisplayName,
			&registeredAt,
			&event.Timestamp,
			&event.RequestID,
			&event.Device,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		event.ID = domain.AlertID(alertID)
		event.Kind = Kind(kind)
		event.Severity = Severity(severity)
		event.SubjectID = domain.SubjectID(subjectID)
		if registeredAt.Valid {
			at := registeredAt.Time
			event.RegisteredAt = &at
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("alert rows: %w", err)
	}
	return out, nil
}
