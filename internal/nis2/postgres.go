// internal/nis2/postgres.go
package nis2

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore persists notifications as JSONB documents keyed by the
// incident ID. Submissions nest inside the document, so the whole
// workflow state moves in one row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get looks up a notification by incident ID
func (s *PostgresStore) Get(ctx context.Context, incidentID string) (*Notification, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM nis2_notifications WHERE incident_id = $1`, incidentID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n := &Notification{}
	if err := json.Unmarshal(doc, n); err != nil {
		return nil, fmt.Errorf("decode notification %s: %w", incidentID, err)
	}
	return n, nil
}

// Put stores or replaces a notification
func (s *PostgresStore) Put(ctx context.Context, n *Notification) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.IncidentID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nis2_notifications (incident_id, tenant_id, doc, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (incident_id) DO UPDATE SET doc = $3`,
		n.IncidentID, n.TenantID, doc, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("put notification %s: %w", n.IncidentID, err)
	}
	return nil
}
