package measurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

// Measurement is one point-in-time body measurement entry. All value
// fields are optional but at least one must be present.
type Measurement struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	HeightCM    *float64  `json:"height_cm,omitempty"`
	WeightKG    *float64  `json:"weight_kg,omitempty"`
	SystolicBP  *int      `json:"systolic_bp,omitempty"`
	DiastolicBP *int      `json:"diastolic_bp,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func (m *Measurement) Validate() error {
	if m.HeightCM == nil && m.WeightKG == nil && m.SystolicBP == nil && m.DiastolicBP == nil {
		return apperror.New(apperror.Invalid, "measurement has no values")
	}
	if m.HeightCM != nil && (*m.HeightCM <= 0 || *m.HeightCM > 300) {
		return apperror.New(apperror.Invalid, "height out of range")
	}
	if m.WeightKG != nil && (*m.WeightKG <= 0 || *m.WeightKG > 700) {
		return apperror.New(apperror.Invalid, "weight out of range")
	}
	if (m.SystolicBP == nil) != (m.DiastolicBP == nil) {
		return apperror.New(apperror.Invalid, "blood pressure needs both systolic and diastolic")
	}
	return nil
}
