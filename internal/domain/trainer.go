package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trainer represents a trainers row.
type Trainer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RatePerHour  float64   `json:"rate_per_hour"`
	IBAN         *string   `json:"iban,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TrainerUpdate holds the mutable trainer fields. Nil fields stay unchanged.
type TrainerUpdate struct {
	RatePerHour *float64
	IBAN        *string
	ClearIBAN   bool
}

// Team represents a teams row.
type Team struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	League  string    `json:"league"`
	IsYouth bool      `json:"is_youth"`
}
