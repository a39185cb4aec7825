// Package core holds the pure rules of the circulation domain: the loan period, due date
// computation, timestamp normalisation and request validation. It performs no I/O.
package core
