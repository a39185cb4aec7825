// Package registeruser implements the Register User use case.
//
// Passwords are stored hashed. The default scheme is an unsalted SHA-256 hex digest, which matches
// existing data; bcrypt can be configured instead.
package registeruser
