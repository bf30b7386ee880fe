// internal/tenant/tenant_test.go
package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextPropagation(t *testing.T) {
	tc := &Context{
		TenantID: "acme",
		UserID:   "u-1",
		OrgRole:  RoleAdmin,
	}

	ctx := WithContext(context.Background(), tc)
	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.TenantID)

	_, err = FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestHasRole(t *testing.T) {
	member := &Context{OrgRole: RoleMember}
	admin := &Context{OrgRole: RoleAdmin}
	super := &Context{IsSuperAdmin: true}

	assert.True(t, admin.HasRole(RoleMember))
	assert.True(t, admin.HasRole(RoleAdmin))
	assert.False(t, admin.HasRole(RoleOwner))
	assert.False(t, member.HasRole(RoleLead))
	assert.True(t, super.HasRole(RoleOwner))
}

func TestWithOverride(t *testing.T) {
	t.Run("super admin may switch to any tenant", func(t *testing.T) {
		super := &Context{TenantID: "a", IsSuperAdmin: true}
		switched, err := super.WithOverride("b")
		require.NoError(t, err)
		assert.Equal(t, "b", switched.TenantID)
	})

	t.Run("member may switch only to an available tenant", func(t *testing.T) {
		member := &Context{TenantID: "a", OrgRole: RoleMember, AvailableTenants: []string{"b"}}

		switched, err := member.WithOverride("b")
		require.NoError(t, err)
		assert.Equal(t, "b", switched.TenantID)

		_, err = member.WithOverride("c")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty override is a no-op", func(t *testing.T) {
		tc := &Context{TenantID: "a"}
		same, err := tc.WithOverride("")
		require.NoError(t, err)
		assert.Same(t, tc, same)
	})

	t.Run("override does not mutate the original", func(t *testing.T) {
		super := &Context{TenantID: "a", IsSuperAdmin: true}
		_, err := super.WithOverride("b")
		require.NoError(t, err)
		assert.Equal(t, "a", super.TenantID)
	})
}

func TestScope(t *testing.T) {
	ctx := WithContext(context.Background(), &Context{TenantID: "acme", OrgRole: RoleMember})

	scope, err := ScopeFromContext(ctx, false)
	require.NoError(t, err)
	assert.True(t, scope.Filter("acme"))
	assert.False(t, scope.Filter("other"))
	assert.True(t, scope.Filter(""), "rows without tenant column stay visible")
	assert.Equal(t, "acme", scope.Stamp(""))
	assert.Equal(t, "pre", scope.Stamp("pre"), "existing owner is preserved")

	t.Run("missing context fails closed", func(t *testing.T) {
		_, err := ScopeFromContext(context.Background(), false)
		assert.ErrorIs(t, err, ErrNoContext)
	})

	t.Run("super admin cross-tenant needs explicit opt-in", func(t *testing.T) {
		superCtx := WithContext(context.Background(), &Context{TenantID: "hq", IsSuperAdmin: true})

		scoped, err := ScopeFromContext(superCtx, false)
		require.NoError(t, err)
		assert.False(t, scoped.CrossTenant)
		assert.False(t, scoped.Filter("other"))

		wide, err := ScopeFromContext(superCtx, true)
		require.NoError(t, err)
		assert.True(t, wide.CrossTenant)
		assert.True(t, wide.Filter("other"))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	store.SetPlan("acme", PlanPro)

	plan, err := store.GetPlan(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, PlanPro, plan)

	_, err = store.GetPlan(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
