package addbook

import (
	"strings"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a new book with its author to the catalog.
type Command struct {
	Title       string
	ISBN        string
	NrCopies    int64
	AuthorFirst string
	AuthorLast  string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters. Surrounding whitespace is trimmed.
func BuildCommand(title, isbn string, nrCopies int64, authorFirst, authorLast string) Command {
	return Command{
		Title:       strings.TrimSpace(title),
		ISBN:        strings.TrimSpace(isbn),
		NrCopies:    nrCopies,
		AuthorFirst: strings.TrimSpace(authorFirst),
		AuthorLast:  strings.TrimSpace(authorLast),
	}
}
