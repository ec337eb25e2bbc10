package purchase

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records a medicine purchase made by a user.
type Purchase struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}
