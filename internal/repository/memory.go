// internal/repository/memory.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/tenant"
)

// MemoryIOCRepository is the in-memory IOC store used by tests and
// single-node deployments.
type MemoryIOCRepository struct {
	mu      sync.RWMutex
	records map[string]*ioc.IOC // tenantID + "/" + dedup key
}

// NewMemoryIOCRepository creates an empty repository
func NewMemoryIOCRepository() *MemoryIOCRepository {
	return &MemoryIOCRepository{records: make(map[string]*ioc.IOC)}
}

func iocMapKey(tenantID string, record *ioc.IOC) string {
	return tenantID + "/" + record.Key()
}

// GetByKey resolves an indicator by its dedup identity within the scope
func (r *MemoryIOCRepository) GetByKey(ctx context.Context, scope tenant.Scope, value string, typ ioc.Type) (*ioc.IOC, error) {
	probe := &ioc.IOC{Value: value, Type: typ}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if scope.CrossTenant {
		for _, record := range r.records {
			if record.Key() == probe.Key() {
				return record, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, probe.Key())
	}

	record, ok := r.records[iocMapKey(scope.TenantID, probe)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, probe.Key())
	}
	return record, nil
}

// Create stores a new indicator, stamping the tenant from the scope
func (r *MemoryIOCRepository) Create(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.TenantID = scope.Stamp(record.TenantID)
	record.Value = ioc.Normalize(record.Value, record.Type)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := iocMapKey(record.TenantID, record)
	if _, exists := r.records[key]; exists {
		return fmt.Errorf("%w: %s", ErrConflict, record.Key())
	}
	r.records[key] = record
	return nil
}

// Update replaces an existing indicator
func (r *MemoryIOCRepository) Update(ctx context.Context, scope tenant.Scope, record *ioc.IOC) error {
	if !scope.Filter(record.TenantID) {
		return fmt.Errorf("%w: %s", ErrNotFound, record.Key())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := iocMapKey(record.TenantID, record)
	if _, exists := r.records[key]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, record.Key())
	}
	r.records[key] = record
	return nil
}

// List returns matching indicators and the unpaged total
func (r *MemoryIOCRepository) List(ctx context.Context, scope tenant.Scope, filter IOCFilter) ([]*ioc.IOC, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*ioc.IOC
	for _, record := range r.records {
		if !scope.Filter(record.TenantID) {
			continue
		}
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		if filter.ThreatLevel != "" && record.ThreatLevel != filter.ThreatLevel {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(record.Value, strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, record)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].LastSeen.After(matched[j].LastSeen) })

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// MemoryFeedRepository is the in-memory feed store
type MemoryFeedRepository struct {
	mu    sync.RWMutex
	feeds map[string]*Feed
}

// NewMemoryFeedRepository creates an empty repository
func NewMemoryFeedRepository() *MemoryFeedRepository {
	return &MemoryFeedRepository{feeds: make(map[string]*Feed)}
}

// Get returns one feed within the scope
func (r *MemoryFeedRepository) Get(ctx context.Context, scope tenant.Scope, id string) (*Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feed, ok := r.feeds[id]
	if !ok || !scope.Filter(feed.TenantID) {
		return nil, fmt.Errorf("%w: feed %s", ErrNotFound, id)
	}
	return feed, nil
}

// List returns the scope's feeds, stable by name
func (r *MemoryFeedRepository) List(ctx context.Context, scope tenant.Scope) ([]*Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Feed
	for _, feed := range r.feeds {
		if scope.Filter(feed.TenantID) {
			out = append(out, feed)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListEnabled returns every enabled feed across tenants
func (r *MemoryFeedRepository) ListEnabled(ctx context.Context) ([]*Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Feed
	for _, feed := range r.feeds {
		if feed.Enabled {
			out = append(out, feed)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create stores a new feed
func (r *MemoryFeedRepository) Create(ctx context.Context, scope tenant.Scope, feed *Feed) error {
	if feed.ID == "" {
		feed.ID = uuid.New().String()
	}
	feed.TenantID = scope.Stamp(feed.TenantID)
	now := time.Now().UTC()
	feed.CreatedAt = now
	feed.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.feeds[feed.ID]; exists {
		return fmt.Errorf("%w: feed %s", ErrConflict, feed.ID)
	}
	r.feeds[feed.ID] = feed
	return nil
}

// Update replaces a feed record (sync bookkeeping writes come through
// here from the scheduler, unscoped).
func (r *MemoryFeedRepository) Update(ctx context.Context, feed *Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.feeds[feed.ID]; !exists {
		return fmt.Errorf("%w: feed %s", ErrNotFound, feed.ID)
	}
	feed.UpdatedAt = time.Now().UTC()
	r.feeds[feed.ID] = feed
	return nil
}
