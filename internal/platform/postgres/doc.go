// Package postgres provides the PostgreSQL implementation of the task storage
// interface defined in the internal/store package. It also embeds the goose
// migrations that create the schema the store expects.
package postgres
