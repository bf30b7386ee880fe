// internal/assessment/postgres.go
package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cyberops/isora/internal/tenant"
)

// PostgresStore persists assessments as JSONB documents keyed by ID. The
// SoA entry map changes shape as controls evolve, so the document is the
// source of truth and only the scoping columns are relational.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the assessment by ID
func (s *PostgresStore) Get(ctx context.Context, id string) (*Assessment, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM assessments WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	a := &Assessment{}
	if err := json.Unmarshal(doc, a); err != nil {
		return nil, fmt.Errorf("decode assessment %s: %w", id, err)
	}
	return a, nil
}

// Put stores or replaces the assessment
func (s *PostgresStore) Put(ctx context.Context, a *Assessment) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment %s: %w", a.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessments (id, tenant_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET doc = $3, updated_at = $5`,
		a.ID, a.TenantID, doc, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put assessment %s: %w", a.ID, err)
	}
	return nil
}

// List returns assessments visible to the scope, newest first
func (s *PostgresStore) List(ctx context.Context, scope tenant.Scope) ([]*Assessment, error) {
	query := `SELECT doc FROM assessments`
	var args []interface{}
	if !scope.CrossTenant {
		query += ` WHERE tenant_id = $1`
		args = append(args, scope.TenantID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a := &Assessment{}
		if err := json.Unmarshal(doc, a); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
