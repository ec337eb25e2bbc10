package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a clinician's professional record. A user has at most
// one profile, and only a profile an administrator has approved
// confers clinician standing.
type Profile struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	LicenseNumber  string     `json:"license_number"`
	Specialization string     `json:"specialization"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Approved reports whether an administrator has approved the profile.
func (p *Profile) Approved() bool {
	return p.ApprovedAt != nil
}

// PracticeLocation is a place a clinician practices at. Consultations
// may only be written from a location an administrator has approved.
type PracticeLocation struct {
	ID         uuid.UUID  `json:"id"`
	ProfileID  uuid.UUID  `json:"profile_id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Approved reports whether an administrator has approved the location.
func (l *PracticeLocation) Approved() bool {
	return l.ApprovedAt != nil
}
