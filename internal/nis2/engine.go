// internal/nis2/engine.go
package nis2

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/framework"
	"github.com/cyberops/isora/internal/tenant"
)

// Store persists notifications keyed by incident ID
type Store interface {
	Get(ctx context.Context, incidentID string) (*Notification, error)
	Put(ctx context.Context, n *Notification) error
}

// Engine drives the three-stage notification workflow
type Engine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a notification engine over the given store
func NewEngine(store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger, now: time.Now}
}

// CreateInput carries the fields needed to open a notification
type CreateInput struct {
	IncidentID       string               `json:"incident_id" validate:"required"`
	EntityType       framework.EntityType `json:"entity_type,omitempty"`
	Sector           framework.Sector     `json:"sector" validate:"required"`
	OrgName          string               `json:"org_name" validate:"required"`
	MemberState      string               `json:"member_state" validate:"required,len=2"`
	DetectionTime    time.Time            `json:"detection_time" validate:"required"`
	PrimaryContact   Contact              `json:"primary_contact" validate:"required"`
	TechnicalContact *Contact             `json:"technical_contact,omitempty"`
}

// CreateNotification opens the workflow for an incident. Deadlines are fixed
// at creation from the detection time and never change afterwards.
func (e *Engine) CreateNotification(ctx context.Context, in CreateInput) (*Notification, error) {
	if !framework.ValidSector(in.Sector) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSector, in.Sector)
	}
	state, ok := framework.MemberStateByCode(strings.ToUpper(in.MemberState))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMemberState, in.MemberState)
	}
	if existing, err := e.store.Get(ctx, in.IncidentID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationExists, in.IncidentID)
	}

	entityType := in.EntityType
	if entityType == "" {
		entityType, _ = framework.DefaultEntityType(in.Sector)
	}

	n := &Notification{
		ID:                   newID("NIS2"),
		IncidentID:           in.IncidentID,
		EntityType:           entityType,
		Sector:               in.Sector,
		OrgName:              in.OrgName,
		MemberState:          state.Code,
		CSIRTName:            state.CSIRT,
		DetectionTime:        in.DetectionTime,
		PrimaryContact:       in.PrimaryContact,
		TechnicalContact:     in.TechnicalContact,
		EarlyWarningDeadline: EarlyWarningDeadline(in.DetectionTime),
		NotificationDeadline: NotificationDeadline(in.DetectionTime),
		FinalReportDeadline:  FinalReportDeadline(in.DetectionTime),
		CreatedAt:            e.now().UTC(),
	}
	if scope, serr := tenant.ScopeFromContext(ctx, false); serr == nil {
		n.TenantID = scope.Stamp(n.TenantID)
	}
	if err := e.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}
	e.logger.Info("nis2 notification created",
		zap.String("incident_id", in.IncidentID),
		zap.String("member_state", state.Code),
		zap.String("csirt", state.CSIRT))
	return n, nil
}

// EarlyWarningInput is the 24-hour submission payload
type EarlyWarningInput struct {
	SuspectedCause    string `json:"suspected_cause" validate:"required"`
	CrossBorder       bool   `json:"cross_border"`
	InitialAssessment string `json:"initial_assessment"`
}

// SubmitEarlyWarning records the 24-hour early warning. Submitting twice
// returns the already-recorded submission unchanged.
func (e *Engine) SubmitEarlyWarning(ctx context.Context, incidentID string, in EarlyWarningInput) (*EarlyWarning, error) {
	n, err := e.get(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if n.EarlyWarning != nil {
		return n.EarlyWarning, nil
	}
	ew := &EarlyWarning{
		ID:                newID("EW"),
		SuspectedCause:    in.SuspectedCause,
		CrossBorder:       in.CrossBorder,
		InitialAssessment: in.InitialAssessment,
		Status:            SubmissionSubmitted,
		SubmittedAt:       e.now().UTC(),
	}
	n.EarlyWarning = ew
	if err := e.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store early warning: %w", err)
	}
	return ew, nil
}

// IncidentNotificationInput is the 72-hour submission payload
type IncidentNotificationInput struct {
	Description          string `json:"description" validate:"required"`
	Severity             string `json:"severity" validate:"required"`
	IncidentType         string `json:"incident_type" validate:"required"`
	Impact               string `json:"impact"`
	Mitigation           string `json:"mitigation"`
	Containment          string `json:"containment"`
	RootCausePreliminary string `json:"root_cause_preliminary,omitempty"`
}

// SubmitIncidentNotification records the 72-hour notification. The early
// warning is optional; when present it is linked as predecessor.
func (e *Engine) SubmitIncidentNotification(ctx context.Context, incidentID string, in IncidentNotificationInput) (*IncidentNotification, error) {
	n, err := e.get(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if n.IncidentNotification != nil {
		return n.IncidentNotification, nil
	}
	in2 := &IncidentNotification{
		ID:                   newID("IN"),
		Description:          in.Description,
		Severity:             in.Severity,
		IncidentType:         in.IncidentType,
		Impact:               in.Impact,
		Mitigation:           in.Mitigation,
		Containment:          in.Containment,
		RootCausePreliminary: in.RootCausePreliminary,
		Status:               SubmissionSubmitted,
		SubmittedAt:          e.now().UTC(),
	}
	if n.EarlyWarning != nil {
		in2.EarlyWarningID = n.EarlyWarning.ID
	}
	n.IncidentNotification = in2
	if err := e.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store incident notification: %w", err)
	}
	return in2, nil
}

// FinalReportInput is the 30-day submission payload
type FinalReportInput struct {
	Description      string   `json:"description" validate:"required"`
	RootCause        string   `json:"root_cause" validate:"required"`
	ThreatType       string   `json:"threat_type"`
	Techniques       []string `json:"techniques,omitempty"`
	ImpactSummary    string   `json:"impact_summary"`
	ServicesAffected []string `json:"services_affected,omitempty"`
	LessonsLearned   string   `json:"lessons_learned"`
	Preventive       string   `json:"preventive_measures"`
	Improvements     string   `json:"improvements"`
	RecoveryTime     string   `json:"recovery_time,omitempty"`
	OtherCSIRTs      []string `json:"other_csirts,omitempty"`
	ENISANotified    bool     `json:"enisa_notified"`
}

// SubmitFinalReport records the 30-day final report and completes the workflow
func (e *Engine) SubmitFinalReport(ctx context.Context, incidentID string, in FinalReportInput) (*FinalReport, error) {
	n, err := e.get(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if n.FinalReport != nil {
		return n.FinalReport, nil
	}
	fr := &FinalReport{
		ID:               newID("FR"),
		Description:      in.Description,
		RootCause:        in.RootCause,
		ThreatType:       in.ThreatType,
		Techniques:       in.Techniques,
		ImpactSummary:    in.ImpactSummary,
		ServicesAffected: in.ServicesAffected,
		LessonsLearned:   in.LessonsLearned,
		Preventive:       in.Preventive,
		Improvements:     in.Improvements,
		RecoveryTime:     in.RecoveryTime,
		OtherCSIRTs:      in.OtherCSIRTs,
		ENISANotified:    in.ENISANotified,
		Status:           SubmissionSubmitted,
		SubmittedAt:      e.now().UTC(),
	}
	n.FinalReport = fr
	if err := e.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store final report: %w", err)
	}
	return fr, nil
}

// GetNotification returns the notification with all submitted stages joined
func (e *Engine) GetNotification(ctx context.Context, incidentID string) (*Notification, error) {
	return e.get(ctx, incidentID)
}

// GetDeadlines returns the deadline status of all three stages at now
func (e *Engine) GetDeadlines(ctx context.Context, incidentID string) (*Deadlines, error) {
	n, err := e.get(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	return &Deadlines{
		IncidentID:           n.IncidentID,
		EarlyWarning:         stageDeadline(n.EarlyWarningDeadline, n.EarlyWarning != nil, now),
		IncidentNotification: stageDeadline(n.NotificationDeadline, n.IncidentNotification != nil, now),
		FinalReport:          stageDeadline(n.FinalReportDeadline, n.FinalReport != nil, now),
	}, nil
}

// get loads a notification and applies the caller's tenant visibility.
// Another tenant's incident is indistinguishable from a missing one.
// The duplicate check in CreateNotification deliberately stays unscoped:
// incident IDs are globally unique, so a cross-tenant collision conflicts
// instead of silently overwriting the other tenant's row.
func (e *Engine) get(ctx context.Context, incidentID string) (*Notification, error) {
	n, err := e.store.Get(ctx, incidentID)
	if err != nil || n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, incidentID)
	}
	if scope, serr := tenant.ScopeFromContext(ctx, false); serr == nil && !scope.Filter(n.TenantID) {
		return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, incidentID)
	}
	return n, nil
}

// newID returns prefix + "-" + 12 uppercase hex chars.
// The prefixes NIS2-, EW-, IN-, FR- are part of the external contract.
func newID(prefix string) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(buf))
}
