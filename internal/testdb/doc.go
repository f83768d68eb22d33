// Package testdb provides helpers for tests that need a real PostgreSQL
// database: locating it, applying the embedded migrations and isolating each
// test in a rolled-back transaction. Tests using it are skipped when no
// database URL is configured.
package testdb
