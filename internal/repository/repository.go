// internal/repository/repository.go
// Persistence interfaces for the threat-intel plane. All queries are
// tenant-scoped: callers pass the scope derived from the request
// context and implementations apply the tenant filter unconditionally.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cyberops/isora/internal/feeds"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/tenant"
)

// Errors
var (
	ErrNotFound = errors.New("repository: not found")
	ErrConflict = errors.New("repository: already exists")
)

// SyncStatus is the closed set of feed sync outcomes
type SyncStatus string

const (
	SyncSuccess     SyncStatus = "success"
	SyncError       SyncStatus = "error"
	SyncRateLimited SyncStatus = "rate_limited"
)

// Feed is one configured threat-intel feed
type Feed struct {
	ID                  string       `json:"id"`
	TenantID            string       `json:"tenant_id,omitempty"`
	Name                string       `json:"name"`
	Provider            string       `json:"provider"`
	Config              feeds.Config `json:"config"`
	Enabled             bool         `json:"enabled"`
	MinConfidence       float64      `json:"min_confidence"`
	IOCTypes            []ioc.Type   `json:"ioc_types,omitempty"` // empty = all
	LastSync            *time.Time   `json:"last_sync,omitempty"`
	LastSyncStatus      SyncStatus   `json:"last_sync_status,omitempty"`
	LastSyncCount       int          `json:"last_sync_count"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// IOCFilter narrows IOC listings
type IOCFilter struct {
	Type        ioc.Type
	ThreatLevel ioc.ThreatLevel
	Status      ioc.Status
	Search      string
	Limit       int
	Offset      int
}

// IOCRepository persists indicators keyed by (normalized value, type)
// per tenant.
type IOCRepository interface {
	GetByKey(ctx context.Context, scope tenant.Scope, value string, typ ioc.Type) (*ioc.IOC, error)
	Create(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error
	Update(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error
	List(ctx context.Context, scope tenant.Scope, filter IOCFilter) ([]*ioc.IOC, int, error)
}

// FeedRepository persists feed configurations and sync bookkeeping
type FeedRepository interface {
	Get(ctx context.Context, scope tenant.Scope, id string) (*Feed, error)
	List(ctx context.Context, scope tenant.Scope) ([]*Feed, error)
	// ListEnabled crosses tenants: the background scheduler syncs every
	// tenant's feeds.
	ListEnabled(ctx context.Context) ([]*Feed, error)
	Create(ctx context.Context, scope tenant.Scope, feed *Feed) error
	Update(ctx context.Context, feed *Feed) error
}
