// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/tenant"
)

// PostgresIOCRepository stores indicators in the iocs table
type PostgresIOCRepository struct {
	db *sql.DB
}

// NewPostgresIOCRepository creates a repository over an existing pool
func NewPostgresIOCRepository(db *sql.DB) *PostgresIOCRepository {
	return &PostgresIOCRepository{db: db}
}

const iocColumns = `id, tenant_id, value, type, status, threat_level, confidence,
	risk_score, tags, categories, source, source_ref, first_seen, last_seen,
	country, asn, mitre_techniques, related_actors, related_campaigns, enrichment_data`

// GetByKey resolves an indicator by its dedup identity within the scope
func (r *PostgresIOCRepository) GetByKey(ctx context.Context, scope tenant.Scope, value string, typ ioc.Type) (*ioc.IOC, error) {
	normalized := ioc.Normalize(value, typ)

	query := `SELECT ` + iocColumns + ` FROM iocs WHERE value = $1 AND type = $2`
	args := []interface{}{normalized, string(typ)}
	if !scope.CrossTenant {
		query += ` AND tenant_id = $3`
		args = append(args, scope.TenantID)
	}

	record, err := scanIOC(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s:%s", ErrNotFound, typ, normalized)
	}
	if err != nil {
		return nil, fmt.Errorf("query ioc: %w", err)
	}
	return record, nil
}

// Create inserts a new indicator, stamping the tenant from the scope
func (r *PostgresIOCRepository) Create(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.TenantID = scope.Stamp(record.TenantID)
	record.Value = ioc.Normalize(record.Value, record.Type)

	enrichment, err := json.Marshal(record.EnrichmentData)
	if err != nil {
		return fmt.Errorf("encode enrichment data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO iocs (`+iocColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		record.ID, record.TenantID, record.Value, string(record.Type),
		string(record.Status), string(record.ThreatLevel), record.Confidence,
		record.RiskScore, pq.Array(record.Tags), pq.Array(record.Categories),
		record.Source, record.SourceRef, record.FirstSeen, record.LastSeen,
		record.Country, record.ASN, pq.Array(record.MitreTechniques),
		pq.Array(record.RelatedActors), pq.Array(record.RelatedCampaigns),
		enrichment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s", ErrConflict, record.Key())
		}
		return fmt.Errorf("insert ioc: %w", err)
	}
	return nil
}

// Update rewrites an existing indicator row
func (r *PostgresIOCRepository) Update(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error {
	if !scope.Filter(record.TenantID) {
		return fmt.Errorf("%w: %s", ErrNotFound, record.Key())
	}

	enrichment, err := json.Marshal(record.EnrichmentData)
	if err != nil {
		return fmt.Errorf("encode enrichment data: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE iocs SET status=$2, threat_level=$3, confidence=$4, risk_score=$5,
			tags=$6, categories=$7, source=$8, source_ref=$9, first_seen=$10,
			last_seen=$11, country=$12, asn=$13, mitre_techniques=$14,
			related_actors=$15, related_campaigns=$16, enrichment_data=$17
		WHERE id = $1`,
		record.ID, string(record.Status), string(record.ThreatLevel),
		record.Confidence, record.RiskScore, pq.Array(record.Tags),
		pq.Array(record.Categories), record.Source, record.SourceRef,
		record.FirstSeen, record.LastSeen, record.Country, record.ASN,
		pq.Array(record.MitreTechniques), pq.Array(record.RelatedActors),
		pq.Array(record.RelatedCampaigns), enrichment)
	if err != nil {
		return fmt.Errorf("update ioc: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, record.Key())
	}
	return nil
}

// List returns matching indicators and the unpaged total
func (r *PostgresIOCRepository) List(ctx context.Context, scope tenant.Scope, filter IOCFilter) ([]*ioc.IOC, int, error) {
	where := `WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !scope.CrossTenant {
		where += ` AND tenant_id = ` + arg(scope.TenantID)
	}
	if filter.Type != "" {
		where += ` AND type = ` + arg(string(filter.Type))
	}
	if filter.ThreatLevel != "" {
		where += ` AND threat_level = ` + arg(string(filter.ThreatLevel))
	}
	if filter.Status != "" {
		where += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Search != "" {
		where += ` AND value LIKE ` + arg("%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM iocs `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count iocs: %w", err)
	}

	query := `SELECT ` + iocColumns + ` FROM iocs ` + where + ` ORDER BY last_seen DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list iocs: %w", err)
	}
	defer rows.Close()

	var out []*ioc.IOC
	for rows.Next() {
		record, err := scanIOC(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ioc: %w", err)
		}
		out = append(out, record)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIOC(row rowScanner) (*ioc.IOC, error) {
	var record ioc.IOC
	var typ, status, level string
	var tags, categories, techniques, actors, campaigns pq.StringArray
	var enrichment []byte

	err := row.Scan(&record.ID, &record.TenantID, &record.Value, &typ, &status,
		&level, &record.Confidence, &record.RiskScore, &tags, &categories,
		&record.Source, &record.SourceRef, &record.FirstSeen, &record.LastSeen,
		&record.Country, &record.ASN, &techniques, &actors, &campaigns,
		&enrichment)
	if err != nil {
		return nil, err
	}

	record.Type = ioc.Type(typ)
	record.Status = ioc.Status(status)
	record.ThreatLevel = ioc.ThreatLevel(level)
	record.Tags = tags
	record.Categories = categories
	record.MitreTechniques = techniques
	record.RelatedActors = actors
	record.RelatedCampaigns = campaigns
	if len(enrichment) > 0 {
		if err := json.Unmarshal(enrichment, &record.EnrichmentData); err != nil {
			return nil, fmt.Errorf("decode enrichment data: %w", err)
		}
	}
	return &record, nil
}

// PostgresFeedRepository stores feed configurations in the feeds table
type PostgresFeedRepository struct {
	db *sql.DB
}

// NewPostgresFeedRepository creates a repository over an existing pool
func NewPostgresFeedRepository(db *sql.DB) *PostgresFeedRepository {
	return &PostgresFeedRepository{db: db}
}

const feedColumns = `id, tenant_id, name, provider, config, enabled,
	min_confidence, ioc_types, last_sync, last_sync_status, last_sync_count,
	consecutive_failures, created_at, updated_at`

// Get returns one feed within the scope
func (r *PostgresFeedRepository) Get(ctx context.Context, scope tenant.Scope, id string) (*Feed, error) {
	query := `SELECT ` + feedColumns + ` FROM feeds WHERE id = $1`
	args := []interface{}{id}
	if !scope.CrossTenant {
		query += ` AND tenant_id = $2`
		args = append(args, scope.TenantID)
	}

	feed, err := scanFeed(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: feed %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	return feed, nil
}

// List returns the scope's feeds
func (r *PostgresFeedRepository) List(ctx context.Context, scope tenant.Scope) ([]*Feed, error) {
	query := `SELECT ` + feedColumns + ` FROM feeds`
	var args []interface{}
	if !scope.CrossTenant {
		query += ` WHERE tenant_id = $1`
		args = append(args, scope.TenantID)
	}
	query += ` ORDER BY name`
	return r.queryFeeds(ctx, query, args...)
}

// ListEnabled returns every enabled feed across tenants
func (r *PostgresFeedRepository) ListEnabled(ctx context.Context) ([]*Feed, error) {
	return r.queryFeeds(ctx, `SELECT `+feedColumns+` FROM feeds WHERE enabled ORDER BY name`)
}

func (r *PostgresFeedRepository) queryFeeds(ctx context.Context, query string, args ...interface{}) ([]*Feed, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var out []*Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}
		out = append(out, feed)
	}
	return out, rows.Err()
}

// Create inserts a new feed
func (r *PostgresFeedRepository) Create(ctx context.Context, scope tenant.Scope, feed *Feed) error {
	if feed.ID == "" {
		feed.ID = uuid.New().String()
	}
	feed.TenantID = scope.Stamp(feed.TenantID)
	now := time.Now().UTC()
	feed.CreatedAt = now
	feed.UpdatedAt = now

	config, err := json.Marshal(feed.Config)
	if err != nil {
		return fmt.Errorf("encode feed config: %w", err)
	}

	types := make([]string, len(feed.IOCTypes))
	for i, t := range feed.IOCTypes {
		types[i] = string(t)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feeds (`+feedColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		feed.ID, feed.TenantID, feed.Name, feed.Provider, config, feed.Enabled,
		feed.MinConfidence, pq.Array(types), feed.LastSync,
		nullableStatus(feed.LastSyncStatus), feed.LastSyncCount,
		feed.ConsecutiveFailures, feed.CreatedAt, feed.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	return nil
}

// Update rewrites a feed row
func (r *PostgresFeedRepository) Update(ctx context.Context, feed *Feed) error {
	feed.UpdatedAt = time.Now().UTC()

	config, err := json.Marshal(feed.Config)
	if err != nil {
		return fmt.Errorf("encode feed config: %w", err)
	}
	types := make([]string, len(feed.IOCTypes))
	for i, t := range feed.IOCTypes {
		types[i] = string(t)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE feeds SET name=$2, provider=$3, config=$4, enabled=$5,
			min_confidence=$6, ioc_types=$7, last_sync=$8, last_sync_status=$9,
			last_sync_count=$10, consecutive_failures=$11, updated_at=$12
		WHERE id = $1`,
		feed.ID, feed.Name, feed.Provider, config, feed.Enabled,
		feed.MinConfidence, pq.Array(types), feed.LastSync,
		nullableStatus(feed.LastSyncStatus), feed.LastSyncCount,
		feed.ConsecutiveFailures, feed.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update feed: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: feed %s", ErrNotFound, feed.ID)
	}
	return nil
}

func nullableStatus(s SyncStatus) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != ""}
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var config []byte
	var types pq.StringArray
	var lastSync sql.NullTime
	var status sql.NullString

	err := row.Scan(&feed.ID, &feed.TenantID, &feed.Name, &feed.Provider,
		&config, &feed.Enabled, &feed.MinConfidence, &types, &lastSync,
		&status, &feed.LastSyncCount, &feed.ConsecutiveFailures,
		&feed.CreatedAt, &feed.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(config) > 0 {
		if err := json.Unmarshal(config, &feed.Config); err != nil {
			return nil, fmt.Errorf("decode feed config: %w", err)
		}
	}
	for _, t := range types {
		feed.IOCTypes = append(feed.IOCTypes, ioc.Type(t))
	}
	if lastSync.Valid {
		feed.LastSync = &lastSync.Time
	}
	feed.LastSyncStatus = SyncStatus(status.String)
	return &feed, nil
}
