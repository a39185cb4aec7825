// Package availablebooks implements the admin view of the inventory. Books that never had an inventory
// row report zero available copies.
package availablebooks
