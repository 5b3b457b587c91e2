package domain

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyReport is the cached spreadsheet for one trainer-month.
// At most one row exists per (TrainerID, Month).
type MonthlyReport struct {
	ID        uuid.UUID `json:"id"`
	TrainerID uuid.UUID `json:"trainer_id"`
	Month     string    `json:"month"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Created reports whether the row was inserted rather than overwritten by
// the write that returned it.
func (r *MonthlyReport) Created() bool {
	return r.CreatedAt.Equal(r.UpdatedAt)
}

// ReportSummary is the listing shape of a report, without the artifact.
type ReportSummary struct {
	ID        uuid.UUID `json:"id"`
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedReport is a report joined with the name of the trainer it belongs to.
type OwnedReport struct {
	MonthlyReport
	TrainerName string
}
