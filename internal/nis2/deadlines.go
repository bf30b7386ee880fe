// internal/nis2/deadlines.go
package nis2

import (
	"time"
)

// Authoritative reporting windows relative to detection time (Article 23).
const (
	EarlyWarningWindow = 24 * time.Hour
	NotificationWindow = 72 * time.Hour
	FinalReportWindow  = 30 * 24 * time.Hour
)

// EarlyWarningDeadline is detection + 24h, exact to the second
func EarlyWarningDeadline(detection time.Time) time.Time {
	return detection.Add(EarlyWarningWindow)
}

// NotificationDeadline is detection + 72h
func NotificationDeadline(detection time.Time) time.Time {
	return detection.Add(NotificationWindow)
}

// FinalReportDeadline is detection + 30d
func FinalReportDeadline(detection time.Time) time.Time {
	return detection.Add(FinalReportWindow)
}

// stageDeadline computes the status of one stage at the given instant.
// Remaining time floors at zero once the deadline passed or was met.
func stageDeadline(deadline time.Time, submitted bool, now time.Time) StageDeadline {
	sd := StageDeadline{
		Deadline:  deadline,
		Submitted: submitted,
		Overdue:   now.After(deadline) && !submitted,
	}
	if remaining := deadline.Sub(now); remaining > 0 && !submitted {
		sd.RemainingHours = int(remaining.Hours())
		sd.RemainingDays = int(remaining.Hours() / 24)
	}
	return sd
}
