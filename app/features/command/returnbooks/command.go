package returnbooks

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
)

const (
	commandType = "ReturnBooks"
)

// Command represents the intent of a user to bring back one copy of each listed title.
type Command struct {
	UserID     int64
	Titles     []string
	ReturnedAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID int64, titles []string, returnedAt time.Time) Command {
	return Command{
		UserID:     userID,
		Titles:     titles,
		ReturnedAt: core.ToTimestamp(returnedAt),
	}
}
