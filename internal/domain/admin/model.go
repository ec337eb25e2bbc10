package admin

import (
	"time"

	"github.com/google/uuid"
)

// Grant records that a user holds the administrator role. The admins
// table is the only source of truth for the role; nothing about it is
// cached between requests.
type Grant struct {
	UserID    uuid.UUID `json:"user_id"`
	GrantedBy uuid.UUID `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}
