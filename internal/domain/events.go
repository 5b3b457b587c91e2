package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates published domain event types.
type EventType string

const (
	EventReportGenerated EventType = "abrechnung.report.generated"
)

// ReportSource names what triggered a report write.
type ReportSource string

const (
	SourceExport ReportSource = "export"
	SourceBatch  ReportSource = "batch"
)

// ReportGeneratedEvent is published after a report row was written.
type ReportGeneratedEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	Type       EventType    `json:"event_type"`
	ReportID   uuid.UUID    `json:"report_id"`
	TrainerID  uuid.UUID    `json:"trainer_id"`
	Month      string       `json:"month"`
	Created    bool         `json:"created"`
	Source     ReportSource `json:"source"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewReportGeneratedEvent builds the event for a freshly written report.
func NewReportGeneratedEvent(r *MonthlyReport, source ReportSource) ReportGeneratedEvent {
	return ReportGeneratedEvent{
		EventID:    uuid.New(),
		Type:       EventReportGenerated,
		ReportID:   r.ID,
		TrainerID:  r.TrainerID,
		Month:      r.Month,
		Created:    r.Created(),
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}

// GuardResult is the outcome of a guard check.
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}
