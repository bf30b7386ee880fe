// internal/feeds/feeds.go
// Pluggable adapters over external threat-intel providers. Each adapter
// normalizes provider records into the shared IOC model; provider
// failures are mapped onto the closed error set in errors.go.
package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/ioc"
)

// Adapter is the capability set every feed driver exposes
type Adapter interface {
	// Provider returns the stable provider ID used in IOC sources
	Provider() string

	// TestConnection verifies reachability and credentials
	TestConnection(ctx context.Context) error

	// FetchSince returns up to limit normalized IOCs modified on or
	// after since. A nil since performs a bounded backfill.
	FetchSince(ctx context.Context, since *time.Time, limit int) ([]ioc.IOC, error)

	// LookupOne resolves a single indicator. Type is auto-detected
	// when unknown.
	LookupOne(ctx context.Context, value string, typ ioc.Type) (*ioc.IOC, error)

	// Close releases any held resources
	Close() error
}

// Config is the per-feed connection configuration
type Config struct {
	Provider       string          `json:"provider" validate:"required"`
	BaseURL        string          `json:"base_url" validate:"required,url"`
	APIKey         string          `json:"api_key"`
	TagFilters     []string        `json:"tag_filters,omitempty"`
	MinThreatLevel ioc.ThreatLevel `json:"min_threat_level,omitempty"`
	Timeout        time.Duration   `json:"timeout,omitempty"`
}

const defaultTimeout = 60 * time.Second

// New instantiates the adapter for the configured provider
func New(cfg Config, logger *zap.Logger) (Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch strings.ToLower(cfg.Provider) {
	case "misp":
		return NewMISP(cfg, logger)
	case "otx":
		return NewOTX(cfg, logger)
	case "virustotal", "vt":
		return NewVirusTotal(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfig, cfg.Provider)
	}
}

// newHTTPClient builds the shared client configuration
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// connectionError wraps transport-level failures
func connectionError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConnection, provider, err)
}

// parseError wraps malformed provider payloads
func parseError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrParse, provider, err)
}
