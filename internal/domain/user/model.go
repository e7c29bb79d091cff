package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/citotrack/citotrack/internal/platform/auth"
)

// User is a clinic staff member. The role drives every authorization
// check in the exam workflow; deactivated users keep their audit
// history but can no longer act.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
