// internal/tenant/scope.go
package tenant

import (
	"context"
)

// Scope is the repository-level filter derived from the bound context.
// Repositories apply the tenant equality filter to every query against an
// entity that carries a tenant_id column, unless the scope is cross-tenant.
type Scope struct {
	TenantID    string
	CrossTenant bool
}

// ScopeFromContext derives the query scope from the bound tenant context.
// Super admins get cross-tenant scope only when they explicitly opt in;
// a missing context yields an error so unscoped queries cannot slip through.
func ScopeFromContext(ctx context.Context, allowCrossTenant bool) (Scope, error) {
	tc, err := FromContext(ctx)
	if err != nil {
		return Scope{}, err
	}
	if tc.IsSuperAdmin && allowCrossTenant {
		return Scope{CrossTenant: true}, nil
	}
	return Scope{TenantID: tc.TenantID}, nil
}

// Filter reports whether a row with the given tenant ID is visible.
// Rows without a tenant column (empty owner) are always visible.
func (s Scope) Filter(rowTenantID string) bool {
	if s.CrossTenant {
		return true
	}
	if rowTenantID == "" {
		return true
	}
	return rowTenantID == s.TenantID
}

// Stamp returns the tenant ID a created row should carry. An existing
// owner is never overwritten.
func (s Scope) Stamp(existing string) string {
	if existing != "" || s.CrossTenant {
		return existing
	}
	return s.TenantID
}
