//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/store/storetest"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresTaskStoreContract(t *testing.T) {
	db := testdb.OpenTestDatabase(t)

	storetest.RunTaskStoreContract(t, func(t *testing.T) store.TaskStore {
		return postgres.NewPostgresTaskStore(testdb.BeginTx(t, db), nil)
	})
}

func TestPostgresTaskStoreCheckConstraint(t *testing.T) {
	db := testdb.OpenTestDatabase(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		now := domain.Now()
		_, err := tx.ExecContext(context.Background(),
			`INSERT INTO tasks (id, title, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), "   ", "", now, now)

		require.Error(t, err)
		assert.ErrorIs(t, postgres.MapError(err), store.ErrInvalidEntity)
	})
}
