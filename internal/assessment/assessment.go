// internal/assessment/assessment.go
package assessment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/tenant"
)

// Errors
var (
	ErrAssessmentNotFound = errors.New("assessment: not found")
	ErrUnknownControl     = errors.New("assessment: unknown control code")
	ErrInvalidStatus      = errors.New("assessment: invalid entry status")
)

// EntryStatus is the per-control applicability verdict
type EntryStatus string

const (
	StatusCompliant    EntryStatus = "compliant"
	StatusPartial      EntryStatus = "partial"
	StatusGap          EntryStatus = "gap"
	StatusNotEvaluated EntryStatus = "not_evaluated"
)

// ValidEntryStatus reports membership in the closed status enum
func ValidEntryStatus(s EntryStatus) bool {
	switch s {
	case StatusCompliant, StatusPartial, StatusGap, StatusNotEvaluated:
		return true
	}
	return false
}

// SoAEntry is one Statement-of-Applicability record
type SoAEntry struct {
	ControlCode    string      `json:"control_code"`
	ControlName    string      `json:"control_name"`
	Theme          Theme       `json:"theme"`
	Status         EntryStatus `json:"status"`
	Applicable     bool        `json:"applicable"`
	Implementation int         `json:"implementation"` // 0..100
	Justification  string      `json:"justification,omitempty"`
	Evidence       string      `json:"evidence,omitempty"`
	UpdatedBy      string      `json:"updated_by,omitempty"`
	UpdatedAt      *time.Time  `json:"updated_at,omitempty"`
}

// Assessment is one ISO 27001 assessment with its full SoA
type Assessment struct {
	ID          string               `json:"id"`
	TenantID    string               `json:"tenant_id,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Scope       string               `json:"scope,omitempty"`
	Status      string               `json:"status"`
	Entries     map[string]*SoAEntry `json:"entries"`
	CreatedBy   string               `json:"created_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CreateInput is the payload for creating an assessment
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Scope       string `json:"scope" validate:"max=2000"`
	CreatedBy   string `json:"created_by"`
}

// EntryUpdate is the payload for updating one SoA entry
type EntryUpdate struct {
	Status         EntryStatus `json:"status" validate:"required"`
	Implementation int         `json:"impl" validate:"min=0,max=100"`
	Applicable     *bool       `json:"applicable,omitempty"`
	Justification  string      `json:"justification,omitempty"`
	Evidence       string      `json:"evidence,omitempty"`
	UpdatedBy      string      `json:"updated_by,omitempty"`
}

// BulkResult reports the outcome of a bulk SoA update
type BulkResult struct {
	Updated        int      `json:"updated"`
	TotalSubmitted int      `json:"total_submitted"`
	Skipped        []string `json:"skipped,omitempty"`
}

// Store persists assessments
type Store interface {
	Get(ctx context.Context, id string) (*Assessment, error)
	Put(ctx context.Context, a *Assessment) error
	List(ctx context.Context, scope tenant.Scope) ([]*Assessment, error)
}

// Service manages assessments and their SoA entries
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an assessment service
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create initializes an assessment with one not-evaluated SoA entry per
// Annex A control.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Assessment, error) {
	now := s.now().UTC()
	a := &Assessment{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Scope:       in.Scope,
		Status:      "draft",
		Entries:     make(map[string]*SoAEntry, len(AnnexA)),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if scope, err := tenant.ScopeFromContext(ctx, false); err == nil {
		a.TenantID = scope.Stamp(a.TenantID)
	}

	for _, control := range AnnexA {
		a.Entries[control.Code] = &SoAEntry{
			ControlCode: control.Code,
			ControlName: control.Name,
			Theme:       control.Theme,
			Status:      StatusNotEvaluated,
			Applicable:  true,
		}
	}

	if err := s.store.Put(ctx, a); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}
	s.logger.Info("assessment created",
		zap.String("assessment_id", a.ID),
		zap.String("name", a.Name))
	return a, nil
}

// Get returns one assessment
func (s *Service) Get(ctx context.Context, id string) (*Assessment, error) {
	return s.get(ctx, id)
}

// get loads an assessment and applies the caller's tenant visibility.
// Rows owned by another tenant are indistinguishable from missing ones.
func (s *Service) get(ctx context.Context, id string) (*Assessment, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope, serr := tenant.ScopeFromContext(ctx, false); serr == nil && !scope.Filter(a.TenantID) {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	return a, nil
}

// List returns the tenant's assessments
func (s *Service) List(ctx context.Context) ([]*Assessment, error) {
	scope, err := tenant.ScopeFromContext(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, scope)
}

// UpdateEntry updates a single SoA entry
func (s *Service) UpdateEntry(ctx context.Context, assessmentID, code string, update EntryUpdate) (*SoAEntry, error) {
	a, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	entry, err := s.applyUpdate(a, code, update)
	if err != nil {
		return nil, err
	}

	a.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, a); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}
	return entry, nil
}

// BulkUpdate applies many entry updates at once. Unknown control codes
// are skipped and reported, not fatal.
func (s *Service) BulkUpdate(ctx context.Context, assessmentID string, updates map[string]EntryUpdate) (*BulkResult, error) {
	a, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{TotalSubmitted: len(updates)}

	codes := make([]string, 0, len(updates))
	for code := range updates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if _, err := s.applyUpdate(a, code, updates[code]); err != nil {
			result.Skipped = append(result.Skipped, code)
			s.logger.Warn("bulk soa update skipped entry",
				zap.String("assessment_id", assessmentID),
				zap.String("control_code", code),
				zap.Error(err))
			continue
		}
		result.Updated += 1
	}

	a.UpdatedAt = s.now().UTC()
	a.Status = "in_progress"
	if err := s.store.Put(ctx, a); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}
	return result, nil
}

// applyUpdate mutates one entry in place after validation
func (s *Service) applyUpdate(a *Assessment, code string, update EntryUpdate) (*SoAEntry, error) {
	entry, ok := a.Entries[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownControl, code)
	}
	if !ValidEntryStatus(update.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, update.Status)
	}
	if update.Implementation < 0 || update.Implementation > 100 {
		return nil, fmt.Errorf("%w: implementation %d out of range", ErrInvalidStatus, update.Implementation)
	}

	entry.Status = update.Status
	entry.Implementation = update.Implementation
	if update.Applicable != nil {
		entry.Applicable = *update.Applicable
	}
	if update.Justification != "" {
		entry.Justification = update.Justification
	}
	if update.Evidence != "" {
		entry.Evidence = update.Evidence
	}
	entry.UpdatedBy = update.UpdatedBy
	now := s.now().UTC()
	entry.UpdatedAt = &now
	return entry, nil
}

// ControlPage is one page of the catalog listing
type ControlPage struct {
	Controls []Control `json:"controls"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListControls pages through the Annex A catalog with optional theme
// and case-insensitive name/code search filters.
func ListControls(theme Theme, search string, page, pageSize int) ControlPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	search = strings.ToLower(strings.TrimSpace(search))

	var filtered []Control
	for _, c := range AnnexA {
		if theme != "" && c.Theme != theme {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Code), search) {
			continue
		}
		filtered = append(filtered, c)
	}

	out := ControlPage{Total: len(filtered), Page: page, PageSize: pageSize}
	start := (page - 1) * pageSize
	if start < len(filtered) {
		end := start + pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		out.Controls = filtered[start:end]
	}
	return out
}

// MemoryStore is an in-memory assessment store
type MemoryStore struct {
	mu          sync.RWMutex
	assessments map[string]*Assessment
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assessments: make(map[string]*Assessment)}
}

// Get returns the assessment by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	return a, nil
}

// Put stores the assessment
func (s *MemoryStore) Put(ctx context.Context, a *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.ID] = a
	return nil
}

// List returns assessments visible to the scope, newest first
func (s *MemoryStore) List(ctx context.Context, scope tenant.Scope) ([]*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Assessment
	for _, a := range s.assessments {
		if scope.Filter(a.TenantID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
