package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

// User is an account holder. Patients and clinicians are both plain
// users; clinician and administrator standing is derived elsewhere.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NIK bounds for Indonesian national identity numbers.
const (
	minNIK = 3_000_000_000_000_000
	maxNIK = 9_999_999_999_999_999
)

// Detail holds the extended identity fields a user files once.
type Detail struct {
	UserID      uuid.UUID  `json:"user_id"`
	NIK         int64      `json:"nik"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks the detail fields that have hard constraints.
func (d *Detail) Validate() error {
	if d.NIK < minNIK || d.NIK > maxNIK {
		return apperror.New(apperror.Invalid, "nik is out of range")
	}
	return nil
}
