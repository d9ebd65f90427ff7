// Package server implements marqueed, the reference catalog REST API the
// Marquee client talks to.
//
// Routes (base path defaults to /filmes):
//
//	GET    /filmes        list records in insertion order
//	POST   /filmes        create; 201 with the stored record
//	GET    /filmes/{id}   fetch one record
//	PUT    /filmes/{id}   replace; 404 when the id is unknown
//	DELETE /filmes/{id}   remove; 204
//	GET    /healthz       liveness
//	GET    /metrics       Prometheus metrics
//
// Create and update bodies are validated with catalog.Validate. Invalid
// bodies get 422 with {"errors": {field: message}}; malformed JSON gets
// 400. Ids are UUIDs assigned by the repository.
//
// Records are stored by a Repository: MemoryRepository for tests and
// throwaway runs, or SQLRepository over SQLite (mattn/go-sqlite3) or
// PostgreSQL (pgx stdlib driver).
package server
