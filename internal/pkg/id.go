package pkg

import "github.com/google/uuid"

// GenerateSessionID issues the ephemeral id bound to one connection.
func GenerateSessionID() string {
	return uuid.NewString()
}
