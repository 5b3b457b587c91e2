package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is one recorded training unit.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	TrainerID uuid.UUID  `json:"trainer_id"`
	TeamID    uuid.UUID  `json:"team_id"`
	Date      time.Time  `json:"date"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Hours     float64    `json:"hours"`
	Note      *string    `json:"note,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionDetail is a session joined with its team and trainer.
type SessionDetail struct {
	Session
	TeamName    string  `json:"team_name"`
	TrainerName string  `json:"trainer_name"`
	TrainerRate float64 `json:"-"`
}
