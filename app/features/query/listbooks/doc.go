// Package listbooks implements the List Books query.
package listbooks
