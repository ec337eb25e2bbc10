package allergy

import (
	"time"

	"github.com/google/uuid"
)

type Allergy struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Severity  string    `json:"severity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var severities = map[string]bool{
	"mild":     true,
	"moderate": true,
	"severe":   true,
}

// KnownSeverity reports whether s is one of the accepted severity
// levels.
func KnownSeverity(s string) bool {
	return severities[s]
}
