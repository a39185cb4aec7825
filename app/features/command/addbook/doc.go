// Package addbook implements the Add Book use case: a new catalog entry with nr_copies copies, all of
// them available, written by one author.
package addbook
