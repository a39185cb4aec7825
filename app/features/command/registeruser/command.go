package registeruser

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
)

const (
	commandType = "RegisterUser"
)

// Command represents the intent to register a new library user.
type Command struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	RegisteredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// The password is kept verbatim; every other field is trimmed.
func BuildCommand(firstName, lastName, email, password string, registeredAt time.Time) Command {
	return Command{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        strings.TrimSpace(email),
		Password:     password,
		RegisteredAt: core.ToTimestamp(registeredAt),
	}
}
