// Package api implements the HTTP client for the catalog REST resource.
//
// # Overview
//
// The backend exposes a single collection resource. Marquee uses four
// calls against it:
//
//	GET    {base}        list every record
//	POST   {base}        create from a draft, returns the record with its id
//	PUT    {base}/{id}   replace a record, returns the stored record
//	DELETE {base}/{id}   remove a record
//
// Request and response bodies are JSON. The base URL defaults to
// http://localhost:3001/filmes; a bare host:port is accepted and given an
// http scheme.
//
// # Errors
//
// Transport failures are returned as *NetworkError and non-2xx responses as
// *HTTPError. Response bodies of failed requests are drained and discarded;
// callers only learn that the operation failed and, for logging, the status
// code. The controller collapses both into a single failure outcome.
//
// # Timeouts
//
// The client carries no timeout unless WithTimeout is given. Cancellation is
// whatever the caller's context provides.
//
// # Testing
//
// RecordStore is the seam for tests; *Client satisfies it, and
// controller tests use an in-memory fake instead.
package api
