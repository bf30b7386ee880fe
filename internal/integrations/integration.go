// internal/integrations/integration.go
// Inbound webhook integrations. Each integration row carries an opaque
// URL token that identifies it and, optionally, a shared secret for
// HMAC-SHA256 payload signatures.
package integrations

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors
var (
	ErrUnknownToken = errors.New("integrations: unknown webhook token")
	ErrDisabled     = errors.New("integrations: integration disabled")
	ErrBadSignature = errors.New("integrations: signature mismatch")
)

// Integration is one configured inbound webhook
type Integration struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	Secret    string    `json:"-"` // empty disables signature checks
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Store resolves integrations by their webhook token
type Store interface {
	GetByToken(ctx context.Context, token string) (*Integration, error)
	Create(ctx context.Context, integ *Integration) error
}

// MemoryStore is the in-memory integration registry
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Integration
}

// NewMemoryStore creates an empty registry
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byToken: make(map[string]*Integration)}
}

// GetByToken resolves the integration a webhook token identifies
func (s *MemoryStore) GetByToken(ctx context.Context, token string) (*Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	integ, ok := s.byToken[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return integ, nil
}

// Create registers an integration, minting ID and token when unset
func (s *MemoryStore) Create(ctx context.Context, integ *Integration) error {
	if integ.ID == "" {
		integ.ID = uuid.New().String()
	}
	if integ.Token == "" {
		integ.Token = NewToken()
	}
	integ.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byToken[integ.Token]; exists {
		return fmt.Errorf("integrations: token collision for %s", integ.Name)
	}
	s.byToken[integ.Token] = integ
	return nil
}

// NewToken mints an opaque webhook token
func NewToken() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Sign computes the payload signature an integration's sender should send
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// Verify checks an inbound payload against the integration's secret.
// Integrations without a secret accept any payload.
func (i *Integration) Verify(payload []byte, signature string) error {
	if !i.Enabled {
		return ErrDisabled
	}
	if i.Secret == "" {
		return nil
	}
	expected := Sign(payload, i.Secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
