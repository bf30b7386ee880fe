// internal/tenant/store.go
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// Plan is the subscription plan a tenant is on
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// ErrTenantNotFound is returned when a tenant has no stored record
var ErrTenantNotFound = errors.New("tenant: not found")

// Store resolves tenant plan assignments
type Store interface {
	GetPlan(ctx context.Context, tenantID string) (Plan, error)
}

// MemoryStore is an in-memory plan store for tests and single-node setups
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]Plan)}
}

// SetPlan assigns a plan to a tenant
func (s *MemoryStore) SetPlan(tenantID string, plan Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[tenantID] = plan
}

// GetPlan looks up the tenant's plan
func (s *MemoryStore) GetPlan(ctx context.Context, tenantID string) (Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[tenantID]
	if !ok {
		return "", ErrTenantNotFound
	}
	return plan, nil
}

// PostgresStore resolves plans from the tenants table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an existing connection pool
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetPlan looks up the tenant's plan
func (s *PostgresStore) GetPlan(ctx context.Context, tenantID string) (Plan, error) {
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT plan FROM tenants WHERE id = $1`, tenantID).Scan(&plan)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTenantNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query tenant plan: %w", err)
	}
	return Plan(plan), nil
}
