// internal/nis2/types.go
// NIS2 Article 23 notification workflow: Early Warning (24h), Incident
// Notification (72h) and Final Report (30d), with deadlines derived from
// detection time.
package nis2

import (
	"errors"
	"time"

	"github.com/cyberops/isora/internal/framework"
)

var (
	ErrNotificationNotFound = errors.New("nis2: notification not found")
	ErrNotificationExists   = errors.New("nis2: notification already exists for incident")
	ErrInvalidSector        = errors.New("nis2: unknown sector")
	ErrInvalidMemberState   = errors.New("nis2: unknown member state")
)

// SubmissionStatus tracks one reporting stage
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSubmitted SubmissionStatus = "submitted"
)

// Contact identifies a person reachable during the incident
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Notification is the parent record of the three-stage workflow
type Notification struct {
	ID               string               `json:"id"` // NIS2-XXXXXXXXXXXX
	TenantID         string               `json:"tenant_id,omitempty"`
	IncidentID       string               `json:"incident_id"`
	EntityType       framework.EntityType `json:"entity_type"`
	Sector           framework.Sector     `json:"sector"`
	OrgName          string               `json:"org_name"`
	MemberState      string               `json:"member_state"` // ISO-2
	CSIRTName        string               `json:"csirt_name"`
	DetectionTime    time.Time            `json:"detection_time"`
	PrimaryContact   Contact              `json:"primary_contact"`
	TechnicalContact *Contact             `json:"technical_contact,omitempty"`

	EarlyWarningDeadline time.Time `json:"early_warning_deadline"`
	NotificationDeadline time.Time `json:"notification_deadline"`
	FinalReportDeadline  time.Time `json:"final_report_deadline"`

	CreatedAt time.Time `json:"created_at"`

	EarlyWarning         *EarlyWarning         `json:"early_warning,omitempty"`
	IncidentNotification *IncidentNotification `json:"incident_notification,omitempty"`
	FinalReport          *FinalReport          `json:"final_report,omitempty"`
}

// Complete reports whether the workflow has finished (final report submitted)
func (n *Notification) Complete() bool {
	return n.FinalReport != nil && n.FinalReport.Status == SubmissionSubmitted
}

// EarlyWarning is the 24-hour submission
type EarlyWarning struct {
	ID                string           `json:"id"` // EW-XXXXXXXXXXXX
	SuspectedCause    string           `json:"suspected_cause"`
	CrossBorder       bool             `json:"cross_border"`
	InitialAssessment string           `json:"initial_assessment"`
	Status            SubmissionStatus `json:"status"`
	SubmittedAt       time.Time        `json:"submitted_at"`
}

// IncidentNotification is the 72-hour submission
type IncidentNotification struct {
	ID                   string           `json:"id"` // IN-XXXXXXXXXXXX
	EarlyWarningID       string           `json:"early_warning_id,omitempty"`
	Description          string           `json:"description"`
	Severity             string           `json:"severity"`
	IncidentType         string           `json:"incident_type"`
	Impact               string           `json:"impact"`
	Mitigation           string           `json:"mitigation"`
	Containment          string           `json:"containment"`
	RootCausePreliminary string           `json:"root_cause_preliminary,omitempty"`
	Status               SubmissionStatus `json:"status"`
	SubmittedAt          time.Time        `json:"submitted_at"`
}

// FinalReport is the 30-day submission that completes the workflow
type FinalReport struct {
	ID               string           `json:"id"` // FR-XXXXXXXXXXXX
	Description      string           `json:"description"`
	RootCause        string           `json:"root_cause"`
	ThreatType       string           `json:"threat_type"`
	Techniques       []string         `json:"techniques,omitempty"` // ATT&CK technique IDs
	ImpactSummary    string           `json:"impact_summary"`
	ServicesAffected []string         `json:"services_affected,omitempty"`
	LessonsLearned   string           `json:"lessons_learned"`
	Preventive       string           `json:"preventive_measures"`
	Improvements     string           `json:"improvements"`
	RecoveryTime     string           `json:"recovery_time,omitempty"`
	OtherCSIRTs      []string         `json:"other_csirts,omitempty"`
	ENISANotified    bool             `json:"enisa_notified"`
	Status           SubmissionStatus `json:"status"`
	SubmittedAt      time.Time        `json:"submitted_at"`
}

// StageDeadline is the status of one reporting stage at a point in time
type StageDeadline struct {
	Deadline       time.Time `json:"deadline"`
	Submitted      bool      `json:"submitted"`
	Overdue        bool      `json:"overdue"`
	RemainingHours int       `json:"remaining_hours"`
	RemainingDays  int       `json:"remaining_days"`
}

// Deadlines is the combined deadline view for a notification
type Deadlines struct {
	IncidentID           string        `json:"incident_id"`
	EarlyWarning         StageDeadline `json:"early_warning"`
	IncidentNotification StageDeadline `json:"incident_notification"`
	FinalReport          StageDeadline `json:"final_report"`
}
