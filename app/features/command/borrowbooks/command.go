package borrowbooks

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
)

const (
	commandType = "BorrowBooks"
)

// Command represents the intent of a user to borrow one copy of each listed title.
type Command struct {
	UserID     int64
	Titles     []string
	BorrowedAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID int64, titles []string, borrowedAt time.Time) Command {
	return Command{
		UserID:     userID,
		Titles:     titles,
		BorrowedAt: core.ToTimestamp(borrowedAt),
	}
}
