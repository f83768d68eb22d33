// Package sqlite provides a SQLite implementation of store.TaskStore built on
// the bun query builder. It backs local development and the test suites that
// need a real database without a PostgreSQL server.
package sqlite
