// Package returnbooks implements the Return Books use case.
//
// Returning deletes all borrow records of the user for each listed title and adds one copy back to the
// inventory per title. Returning a title that was never borrowed succeeds and still adds a copy; such
// returns are reported as unmatched so they show up in logs and metrics.
package returnbooks
