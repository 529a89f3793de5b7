package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"enrolld/internal/registry/models"
	"enrolld/pkg/domain"
)

// Postgres persists subject records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subject store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create inserts the subject, relying on the primary key to reject
// duplicate identifiers atomically.
func (s *Postgres) Create(ctx context.Context, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject is required")
	}
	query := `
		INSERT INTO subjects (id, display_name, contact_info, national_id, photo_ref, credential, verified, registered_at, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(subject.ID),
		subject.DisplayName,
		subject.ContactInfo,
		subject.NationalID,
		subject.PhotoRef,
		string(subject.Credential),
		subject.Verified,
		subject.RegisteredAt,
		subject.VerifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subject id %q already registered: %w", subject.ID, ErrDuplicate)
		}
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// FindByID retrieves a subject by its identifier.
func (s *Postgres) FindByID(ctx context.Context, id domain.SubjectID) (*models.Subject, error) {
	query := `
		SELECT id, display_name, contact_info, national_id, photo_ref, credential, verified, registered_at, verified_at
		FROM subjects
		WHERE id = $1
	`
	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find subject by id: %w", err)
	}
	return subject, nil
}

// MarkVerified flips the verified flag with a conditional UPDATE so the
// transition happens at most once even under concurrent attempts. When
// zero rows are affected a follow-up read distinguishes a missing
// record from one that was already verified.
func (s *Postgres) MarkVerified(ctx context.Context, id domain.SubjectID, at time.Time) error {
	query := `
		UPDATE subjects
		SET verified = TRUE, verified_at = $2
		WHERE id = $1 AND verified = FALSE
	`
	res, err := s.db.ExecContext(ctx, query, string(id), at.UTC())
	if err != nil {
		return fmt.Errorf("mark subject verified: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark subject verified rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var verified bool
	err = s.db.QueryRowContext(ctx, `SELECT verified FROM subjects WHERE id = $1`, string(id)).Scan(&verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("mark subject verified recheck: %w", err)
	}
	if verified {
		return ErrAlreadyVerified
	}
	return fmt.Errorf("mark subject verified: update affected no rows")
}

// List returns all subjects ordered by registration time.
func (s *Postgres) List(ctx context.Context) ([]*models.Subject, error) {
	query := `
		SELECT id, display_name, contact_info, national_id, photo_ref, credential, verified, registered_at, verified_at
		FROM subjects
		ORDER BY registered_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var out []*models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("list subjects scan: %w", err)
		}
		out = append(out, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subjects rows: %w", err)
	}
	return out, nil
}

// Count returns the total number of subjects.
func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return count, nil
}

type subjectRow interface {
	Scan(dest ...any) error
}

func scanSubject(row subjectRow) (*models.Subject, error) {
	var subject models.Subject
	var subjectID, credential string
	var verifiedAt sql.NullTime
	err := row.Scan(
		&subjectID,
		&subject.DisplayName,
		&subject.ContactInfo,
		&subject.NationalID,
		&subject.PhotoRef,
		&credential,
		&subject.Verified,
		&subject.RegisteredAt,
		&verifiedAt,
	)
	if err != nil {
		return nil, err
	}
	subject.ID = domain.SubjectID(subjectID)
	subject.Credential = domain.CredentialToken(credential)
	if verifiedAt.Valid {
		at := verifiedAt.Time
		subject.VerifiedAt = &at
	}
	return &subject, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
