// Package registeredusers implements the admin list of users.
package registeredusers
