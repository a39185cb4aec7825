// Package httpapi exposes the library use cases over HTTP with JSON responses.
//
// Request bodies may be JSON or URL-encoded forms. Failures are mapped to a closed set of error codes;
// the underlying cause is logged with the request id and never sent to the client.
package httpapi
