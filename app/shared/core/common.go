package core

import (
	"time"
)

// LoanPeriod is how long a borrowed copy may be kept.
const LoanPeriod = 10 * 24 * time.Hour

// ToTimestamp converts a time to the form every persisted timestamp has: UTC with microsecond precision.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// DueDate returns the end of the loan period for a copy borrowed at borrowedAt.
func DueDate(borrowedAt time.Time) time.Time {
	return ToTimestamp(borrowedAt).Add(LoanPeriod)
}

// Loan is one borrow record to be created.
type Loan struct {
	BookID     int64
	UserID     int64
	BorrowedAt time.Time
	DueDate    time.Time
}

// PlanLoans turns resolved book ids into the borrow records for userID, in input order.
// Duplicate ids yield one loan per occurrence.
func PlanLoans(userID int64, bookIDs []int64, borrowedAt time.Time) []Loan {
	at := ToTimestamp(borrowedAt)
	loans := make([]Loan, 0, len(bookIDs))

	for _, bookID := range bookIDs {
		loans = append(loans, Loan{
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: at,
			DueDate:    DueDate(at),
		})
	}

	return loans
}
