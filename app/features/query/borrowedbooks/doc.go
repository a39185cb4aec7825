// Package borrowedbooks implements the My Books query: what a user holds and until when.
package borrowedbooks
