package condition

import (
	"time"

	"github.com/google/uuid"
)

// Condition is a diagnosed or self-reported medical condition on a
// user's record.
type Condition struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	DiagnosedAt *time.Time `json:"diagnosed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

const (
	StatusActive   = "active"
	StatusResolved = "resolved"
	StatusRemissed = "in_remission"
)

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusResolved || s == StatusRemissed
}
