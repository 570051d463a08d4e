package models

import (
	"errors"
	"fmt"
	"time"
)

// Direcciones válidas para un botón
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// Account represents an account record in DB (internal use only).
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Points       int64     `json:"points"`
	Buttons      []Button  `json:"buttons"`
	CreatedAt    time.Time `json:"created_at"`
}

// Button is a named point adjustment owned by one account.
// The id is supplied by the client (timestamp-derived) and is only
// unique within the owning account.
type Button struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Magnitude int64  `json:"magnitude"`
	Direction string `json:"direction"`
}

// Validate rejects buttons with missing fields, a non-positive magnitude
// or an unrecognized direction. Nada se corrige en silencio.
func (b Button) Validate() error {
	if b.ID == "" {
		return errors.New("button id required")
	}
	if b.Label == "" {
		return errors.New("button label required")
	}
	if b.Magnitude <= 0 {
		return fmt.Errorf("button %q: magnitude must be positive", b.ID)
	}
	if b.Direction != DirectionIncrease && b.Direction != DirectionDecrease {
		return fmt.Errorf("button %q: unknown direction %q", b.ID, b.Direction)
	}
	return nil
}

// ValidateButtons valida la lista completa antes de reemplazarla.
// Duplicate ids are rejected here because the store replace is a plain
// overwrite and does not de-duplicate.
func ValidateButtons(buttons []Button) error {
	seen := make(map[string]bool, len(buttons))
	for _, b := range buttons {
		if err := b.Validate(); err != nil {
			return err
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate button id %q", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}
