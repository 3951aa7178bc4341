package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record of the system.
type User struct {
	ID             int64     // internal surrogate key, assigned by the store
	UserIdentifier uuid.UUID // externally-facing stable identifier, carried in tokens
	Name           string
	Email          string
	Password       string // sha-512 hex digest, never plaintext
	Active         bool
	CreatedOn      time.Time
}
