package shell

// HandlerResult represents the outcome of a command handler execution.
type HandlerResult struct {
	// CreatedID is the id of the row a creating command inserted, zero otherwise.
	CreatedID int64

	// BooksAffected counts the titles a borrow or return request was applied to, duplicates included.
	BooksAffected int

	// UnmatchedReturns counts returned titles for which the user held no borrow record.
	// Such returns still put a copy back into the inventory.
	UnmatchedReturns int
}

// NewCreatedResult creates a HandlerResult for a command that inserted one row.
func NewCreatedResult(id int64) HandlerResult {
	return HandlerResult{CreatedID: id}
}

// NewCirculationResult creates a HandlerResult for a borrow or return command.
func NewCirculationResult(booksAffected, unmatchedReturns int) HandlerResult {
	return HandlerResult{BooksAffected: booksAffected, UnmatchedReturns: unmatchedReturns}
}

// BusinessOutcome classifies the result for logs.
func (r HandlerResult) BusinessOutcome() string {
	if r.UnmatchedReturns > 0 {
		return OutcomeUnmatchedReturn
	}

	return StatusSuccess
}
