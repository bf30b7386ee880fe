// internal/repository/repository_test.go
package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/tenant"
)

func acmeScope() tenant.Scope {
	return tenant.Scope{TenantID: "acme"}
}

func TestMemoryIOCRepository_CreateAndGet(t *testing.T) {
	r := NewMemoryIOCRepository()
	ctx := context.Background()

	record := &ioc.IOC{
		Value:       "EVIL.com.",
		Type:        ioc.TypeDomain,
		Status:      ioc.StatusActive,
		ThreatLevel: ioc.ThreatHigh,
	}
	require.NoError(t, r.Create(ctx, acmeScope(), record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "acme", record.TenantID)
	assert.Equal(t, "evil.com", record.Value, "value is normalized on create")

	got, err := r.GetByKey(ctx, acmeScope(), "evil.com", ioc.TypeDomain)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	t.Run("lookup normalizes the probe too", func(t *testing.T) {
		got, err := r.GetByKey(ctx, acmeScope(), "EVIL.COM", ioc.TypeDomain)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		dup := &ioc.IOC{Value: "evil.com", Type: ioc.TypeDomain}
		err := r.Create(ctx, acmeScope(), dup)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestMemoryIOCRepository_TenantIsolation(t *testing.T) {
	r := NewMemoryIOCRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, acmeScope(), &ioc.IOC{Value: "1.2.3.4", Type: ioc.TypeIP}))

	_, err := r.GetByKey(ctx, tenant.Scope{TenantID: "other"}, "1.2.3.4", ioc.TypeIP)
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("same value per tenant is not a conflict", func(t *testing.T) {
		err := r.Create(ctx, tenant.Scope{TenantID: "other"}, &ioc.IOC{Value: "1.2.3.4", Type: ioc.TypeIP})
		assert.NoError(t, err)
	})

	t.Run("cross-tenant scope sees everything", func(t *testing.T) {
		got, err := r.GetByKey(ctx, tenant.Scope{CrossTenant: true}, "1.2.3.4", ioc.TypeIP)
		require.NoError(t, err)
		assert.NotEmpty(t, got.TenantID)
	})
}

func TestMemoryIOCRepository_Update(t *testing.T) {
	r := NewMemoryIOCRepository()
	ctx := context.Background()

	record := &ioc.IOC{Value: "bad.example", Type: ioc.TypeDomain, ThreatLevel: ioc.ThreatLow}
	require.NoError(t, r.Create(ctx, acmeScope(), record))

	record.ThreatLevel = ioc.ThreatCritical
	require.NoError(t, r.Update(ctx, acmeScope(), record))

	got, err := r.GetByKey(ctx, acmeScope(), "bad.example", ioc.TypeDomain)
	require.NoError(t, err)
	assert.Equal(t, ioc.ThreatCritical, got.ThreatLevel)

	t.Run("foreign scope cannot update", func(t *testing.T) {
		err := r.Update(ctx, tenant.Scope{TenantID: "other"}, record)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryIOCRepository_List(t *testing.T) {
	r := NewMemoryIOCRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i += 1 {
		record := &ioc.IOC{
			Value:       fmt.Sprintf("10.0.0.%d", i),
			Type:        ioc.TypeIP,
			Status:      ioc.StatusActive,
			ThreatLevel: ioc.ThreatMedium,
			LastSeen:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, r.Create(ctx, acmeScope(), record))
	}
	require.NoError(t, r.Create(ctx, acmeScope(), &ioc.IOC{
		Value: "phish.example", Type: ioc.TypeDomain,
		Status: ioc.StatusActive, ThreatLevel: ioc.ThreatHigh,
		LastSeen: base.Add(48 * time.Hour),
	}))

	t.Run("newest first with unpaged total", func(t *testing.T) {
		got, total, err := r.List(ctx, acmeScope(), IOCFilter{Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 6, total)
		require.Len(t, got, 3)
		assert.Equal(t, "phish.example", got[0].Value)
	})

	t.Run("type and level filters", func(t *testing.T) {
		got, total, err := r.List(ctx, acmeScope(), IOCFilter{Type: ioc.TypeIP})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, got, 5)

		got, total, err = r.List(ctx, acmeScope(), IOCFilter{ThreatLevel: ioc.ThreatHigh})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "phish.example", got[0].Value)
	})

	t.Run("search", func(t *testing.T) {
		_, total, err := r.List(ctx, acmeScope(), IOCFilter{Search: "PHISH"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("offset past the end", func(t *testing.T) {
		got, total, err := r.List(ctx, acmeScope(), IOCFilter{Offset: 100})
		require.NoError(t, err)
		assert.Equal(t, 6, total)
		assert.Empty(t, got)
	})

	t.Run("foreign scope sees nothing", func(t *testing.T) {
		got, total, err := r.List(ctx, tenant.Scope{TenantID: "other"}, IOCFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, got)
	})
}

func TestMemoryFeedRepository(t *testing.T) {
	r := NewMemoryFeedRepository()
	ctx := context.Background()

	feedA := &Feed{Name: "corp misp", Provider: "misp", Enabled: true}
	feedB := &Feed{Name: "alienvault", Provider: "otx", Enabled: false}
	require.NoError(t, r.Create(ctx, acmeScope(), feedA))
	require.NoError(t, r.Create(ctx, acmeScope(), feedB))
	feedC := &Feed{Name: "vt watch", Provider: "virustotal", Enabled: true}
	require.NoError(t, r.Create(ctx, tenant.Scope{TenantID: "other"}, feedC))

	t.Run("get is scoped", func(t *testing.T) {
		got, err := r.Get(ctx, acmeScope(), feedA.ID)
		require.NoError(t, err)
		assert.Equal(t, "corp misp", got.Name)

		_, err = r.Get(ctx, acmeScope(), feedC.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list is scoped and sorted by name", func(t *testing.T) {
		got, err := r.List(ctx, acmeScope())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alienvault", got[0].Name)
		assert.Equal(t, "corp misp", got[1].Name)
	})

	t.Run("list enabled crosses tenants", func(t *testing.T) {
		got, err := r.ListEnabled(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "corp misp", got[0].Name)
		assert.Equal(t, "vt watch", got[1].Name)
	})

	t.Run("update writes sync bookkeeping", func(t *testing.T) {
		now := time.Now().UTC()
		feedA.LastSync = &now
		feedA.LastSyncStatus = SyncSuccess
		feedA.LastSyncCount = 42
		require.NoError(t, r.Update(ctx, feedA))

		got, err := r.Get(ctx, acmeScope(), feedA.ID)
		require.NoError(t, err)
		assert.Equal(t, SyncSuccess, got.LastSyncStatus)
		assert.Equal(t, 42, got.LastSyncCount)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("update of unknown feed fails", func(t *testing.T) {
		err := r.Update(ctx, &Feed{ID: "ghost"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
