// internal/database/postgres.go
// Connection pool setup and schema migration for the durable store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL with the pool settings the platform runs with
func Open(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database: url is required")
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		plan VARCHAR(32) NOT NULL DEFAULT 'free',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS iocs (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(255) NOT NULL,
		value TEXT NOT NULL,
		type VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		threat_level VARCHAR(32) NOT NULL DEFAULT 'unknown',
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		tags TEXT[] NOT NULL DEFAULT '{}',
		categories TEXT[] NOT NULL DEFAULT '{}',
		source TEXT NOT NULL DEFAULT '',
		source_ref TEXT NOT NULL DEFAULT '',
		first_seen TIMESTAMPTZ NOT NULL,
		last_seen TIMESTAMPTZ NOT NULL,
		country VARCHAR(8) NOT NULL DEFAULT '',
		asn VARCHAR(32) NOT NULL DEFAULT '',
		mitre_techniques TEXT[] NOT NULL DEFAULT '{}',
		related_actors TEXT[] NOT NULL DEFAULT '{}',
		related_campaigns TEXT[] NOT NULL DEFAULT '{}',
		enrichment_data JSONB NOT NULL DEFAULT '{}',
		UNIQUE (tenant_id, value, type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_iocs_tenant_last_seen
		ON iocs (tenant_id, last_seen DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_iocs_tenant_type
		ON iocs (tenant_id, type)`,
	`CREATE TABLE IF NOT EXISTS feeds (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		provider VARCHAR(64) NOT NULL,
		config JSONB NOT NULL DEFAULT '{}',
		enabled BOOLEAN NOT NULL DEFAULT FALSE,
		min_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		ioc_types TEXT[] NOT NULL DEFAULT '{}',
		last_sync TIMESTAMPTZ,
		last_sync_status VARCHAR(32),
		last_sync_count INTEGER NOT NULL DEFAULT 0,
		consecutive_failures INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feeds_enabled
		ON feeds (enabled) WHERE enabled`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(255) NOT NULL,
		doc JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_tenant
		ON assessments (tenant_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS nis2_notifications (
		incident_id VARCHAR(255) PRIMARY KEY,
		tenant_id VARCHAR(255) NOT NULL,
		doc JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate applies the schema
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
