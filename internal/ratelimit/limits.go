// internal/ratelimit/limits.go
package ratelimit

import (
	"fmt"
	"time"

	"github.com/cyberops/isora/internal/tenant"
)

// Limit is one sliding-window cap: at most Cap requests per Window.
type Limit struct {
	Cap    int
	Window time.Duration
}

// PlanLimits holds the per-plan caps for authenticated traffic
type PlanLimits struct {
	PerMinute Limit
	PerHour   Limit
}

// planLimits is the closed plan configuration. Unknown plans fall back
// to the free tier.
var planLimits = map[tenant.Plan]PlanLimits{
	tenant.PlanFree: {
		PerMinute: Limit{Cap: 60, Window: time.Minute},
		PerHour:   Limit{Cap: 1000, Window: time.Hour},
	},
	tenant.PlanPro: {
		PerMinute: Limit{Cap: 300, Window: time.Minute},
		PerHour:   Limit{Cap: 10000, Window: time.Hour},
	},
	tenant.PlanEnterprise: {
		PerMinute: Limit{Cap: 1000, Window: time.Minute},
		PerHour:   Limit{Cap: 50000, Window: time.Hour},
	},
}

// anonymousLimit applies to unauthenticated traffic, keyed by client IP
var anonymousLimit = Limit{Cap: 30, Window: time.Minute}

// LimitsForPlan resolves the closed plan table
func LimitsForPlan(plan tenant.Plan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[tenant.PlanFree]
}

// Key families. Every limit key maps to one sorted set in the store.

func tenantMinuteKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:minute", tenantID)
}

func tenantHourKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:hour", tenantID)
}

func ipMinuteKey(ip string) string {
	return fmt.Sprintf("ip:%s:minute", ip)
}

func endpointKey(path, ip string) string {
	return fmt.Sprintf("endpoint:%s:ip:%s", path, ip)
}
