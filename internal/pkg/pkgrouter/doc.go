// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping, logging, recovery, and correlation ID
// propagation. Handlers return payloads that are either JSON encoded or, for
// types exposing RawJSON, written to the client byte-for-byte.
package pkgrouter
