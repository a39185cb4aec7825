// Package borrowbooks implements the Borrow Books use case.
//
// A user borrows one copy of every listed title. Titles are resolved to book ids first (the lowest id wins
// when titles collide), then a borrow record due ten days later is created per title and the inventory
// of that book is decreased by one. The whole request commits or rolls back as a unit.
//
// Availability is not checked: available copies may become negative.
package borrowbooks
