// Package booksbyfield implements the Books By Field query behind /books/id/:id, /books/title/:title
// and /books/author/:author.
package booksbyfield
