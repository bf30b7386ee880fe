// internal/tenant/tenant.go
// Per-request tenant identity and role, carried through context values.
// The context is bound by the request pipeline after token decoding and
// torn down with the request; it must never outlive it.
package tenant

import (
	"context"
	"errors"
)

// contextKey is a custom type to prevent context key collisions
type contextKey string

const contextKeyTenant contextKey = "tenant_context"

// OrgRole is the closed set of organization roles
type OrgRole string

const (
	RoleOwner   OrgRole = "owner"
	RoleAdmin   OrgRole = "admin"
	RoleManager OrgRole = "manager"
	RoleLead    OrgRole = "lead"
	RoleMember  OrgRole = "member"
)

// roleRank orders roles for permission checks (higher may act as lower)
var roleRank = map[OrgRole]int{
	RoleOwner:   5,
	RoleAdmin:   4,
	RoleManager: 3,
	RoleLead:    2,
	RoleMember:  1,
}

// ValidRole reports membership in the closed role enum
func ValidRole(r OrgRole) bool {
	_, ok := roleRank[r]
	return ok
}

// Errors
var (
	ErrNoContext = errors.New("tenant: no tenant context")
	ErrForbidden = errors.New("tenant: tenant access forbidden")
)

// Context is the per-request tenant identity
type Context struct {
	TenantID         string
	UserID           string
	OrgRole          OrgRole
	IsSuperAdmin     bool
	AvailableTenants []string
}

// HasRole reports whether the context satisfies the required role.
// Super admins satisfy any role requirement.
func (c *Context) HasRole(required OrgRole) bool {
	if c.IsSuperAdmin {
		return true
	}
	return roleRank[c.OrgRole] >= roleRank[required]
}

// CanAccessTenant reports whether the context may switch to the given tenant
func (c *Context) CanAccessTenant(tenantID string) bool {
	if c.IsSuperAdmin {
		return true
	}
	if tenantID == c.TenantID {
		return true
	}
	for _, id := range c.AvailableTenants {
		if id == tenantID {
			return true
		}
	}
	return false
}

// WithOverride returns a copy of the context switched to the given tenant.
// Super admins may switch to any tenant; everyone else only to a member
// tenant listed in AvailableTenants.
func (c *Context) WithOverride(tenantID string) (*Context, error) {
	if tenantID == "" || tenantID == c.TenantID {
		return c, nil
	}
	if !c.CanAccessTenant(tenantID) {
		return nil, ErrForbidden
	}
	clone := *c
	clone.TenantID = tenantID
	return &clone, nil
}

// WithContext binds the tenant context to a request context
func WithContext(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, contextKeyTenant, tc)
}

// FromContext extracts the tenant context, if bound
func FromContext(ctx context.Context) (*Context, error) {
	tc, ok := ctx.Value(contextKeyTenant).(*Context)
	if !ok || tc == nil {
		return nil, ErrNoContext
	}
	return tc, nil
}

// MustFromContext extracts the tenant context or panics (use in handlers
// that only run behind the tenant middleware)
func MustFromContext(ctx context.Context) *Context {
	tc, err := FromContext(ctx)
	if err != nil {
		panic("tenant middleware not applied: " + err.Error())
	}
	return tc
}
