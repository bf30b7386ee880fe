// internal/ratelimit/limiter.go
// Plan-aware admission control. The limiter consults the sliding-window
// store per request and fails OPEN when the store is unreachable: customer
// traffic proceeds and the incident is logged. Tests pin this choice.
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/tenant"
)

// planCacheTTL bounds how stale a cached tenant plan may get
const planCacheTTL = 5 * time.Minute

// Request carries the per-request inputs of the admission decision
type Request struct {
	Path         string
	IP           string
	TenantID     string
	IsSuperAdmin bool
}

// Decision is what the pipeline turns into headers and, on rejection,
// a 429 response.
type Decision struct {
	Allowed    bool
	Bypassed   bool
	FailedOpen bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Option configures a Limiter
type Option func(*Limiter)

// WithSuperAdminBypass lets super admins skip the window entirely
func WithSuperAdminBypass(enabled bool) Option {
	return func(l *Limiter) { l.bypassSuperAdmin = enabled }
}

// WithExcludedPrefixes replaces the default bypass prefixes
func WithExcludedPrefixes(prefixes ...string) Option {
	return func(l *Limiter) { l.excludedPrefixes = prefixes }
}

// WithEndpointLimit installs a per-(path, ip) limit that takes
// precedence over the tenant and IP windows.
func WithEndpointLimit(path string, limit Limit) Option {
	return func(l *Limiter) { l.endpointLimits[path] = limit }
}

type cachedPlan struct {
	plan      tenant.Plan
	fetchedAt time.Time
}

// Limiter evaluates the sliding windows for one request
type Limiter struct {
	store  Store
	plans  tenant.Store
	logger *zap.Logger

	bypassSuperAdmin bool
	excludedPrefixes []string
	endpointLimits   map[string]Limit

	mu        sync.RWMutex
	planCache map[string]cachedPlan

	now func() time.Time
}

// NewLimiter creates a limiter over the given window store and plan store
func NewLimiter(store Store, plans tenant.Store, logger *zap.Logger, opts ...Option) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Limiter{
		store:            store,
		plans:            plans,
		logger:           logger,
		excludedPrefixes: []string{"/health", "/docs", "/api/v1/auth/login"},
		endpointLimits:   make(map[string]Limit),
		planCache:        make(map[string]cachedPlan),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check runs the admission order: excluded path, super-admin bypass,
// endpoint-specific limit, tenant minute+hour windows, anonymous IP window.
func (l *Limiter) Check(ctx context.Context, req Request) Decision {
	for _, prefix := range l.excludedPrefixes {
		if strings.HasPrefix(req.Path, prefix) {
			return Decision{Allowed: true, Bypassed: true}
		}
	}

	if req.IsSuperAdmin && l.bypassSuperAdmin {
		return Decision{Allowed: true, Bypassed: true}
	}

	now := l.now()

	if limit, ok := l.endpointLimits[req.Path]; ok {
		return l.take(ctx, endpointKey(req.Path, req.IP), limit, now)
	}

	if req.TenantID != "" {
		limits := LimitsForPlan(l.tenantPlan(ctx, req.TenantID))

		minute := l.take(ctx, tenantMinuteKey(req.TenantID), limits.PerMinute, now)
		if !minute.Allowed {
			return minute
		}
		hour := l.take(ctx, tenantHourKey(req.TenantID), limits.PerHour, now)
		if !hour.Allowed {
			return hour
		}
		// Report the window closer to exhaustion.
		if hour.Remaining < minute.Remaining {
			return hour
		}
		return minute
	}

	return l.take(ctx, ipMinuteKey(req.IP), anonymousLimit, now)
}

// take consults one window and converts store failures into a fail-open
// allow.
func (l *Limiter) take(ctx context.Context, key string, limit Limit, now time.Time) Decision {
	result, err := l.store.Take(ctx, key, limit, now)
	if err != nil {
		l.logger.Error("rate limit store unavailable, failing open",
			zap.String("key", key),
			zap.Error(err))
		return Decision{
			Allowed:    true,
			FailedOpen: true,
			Limit:      limit.Cap,
			Remaining:  limit.Cap,
			ResetAt:    now.Add(limit.Window).UTC(),
		}
	}
	return Decision{
		Allowed:    result.Allowed,
		Limit:      limit.Cap,
		Remaining:  result.Remaining,
		ResetAt:    result.ResetAt,
		RetryAfter: result.RetryAfter,
	}
}

// tenantPlan resolves the tenant's plan through the short-lived cache.
// Unknown tenants and lookup failures fall back to the free tier.
func (l *Limiter) tenantPlan(ctx context.Context, tenantID string) tenant.Plan {
	l.mu.RLock()
	cached, ok := l.planCache[tenantID]
	l.mu.RUnlock()
	if ok && l.now().Sub(cached.fetchedAt) < planCacheTTL {
		return cached.plan
	}

	plan, err := l.plans.GetPlan(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, tenant.ErrTenantNotFound) {
			l.logger.Warn("tenant plan lookup failed, assuming free tier",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
		}
		plan = tenant.PlanFree
	}

	l.mu.Lock()
	l.planCache[tenantID] = cachedPlan{plan: plan, fetchedAt: l.now()}
	l.mu.Unlock()
	return plan
}
