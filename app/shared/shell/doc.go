// Package shell holds the infrastructure every feature slice of the library API shares:
// the handler contracts, observability helpers, title resolution with its cache, inventory
// adjustment, password hashing, logging setup and the AMQP event publisher.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
