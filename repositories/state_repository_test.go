package repository

import (
	"context"
	"path/filepath"
	"testing"

	"prestacaocontas/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepositories(t *testing.T) *sqliteHandle {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &sqliteHandle{
		state:    NewSQLiteStateRepository(db),
		evidence: NewSQLiteEvidenceRepository(db),
	}
}

type sqliteHandle struct {
	state    StateRepository
	evidence EvidenceRepository
}

func stateRepositories(t *testing.T) map[string]StateRepository {
	return map[string]StateRepository{
		"memory": NewMemoryStateRepository(),
		"sqlite": newSQLiteRepositories(t).state,
	}
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range stateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(ctx, "stif_report_2025_v2")
			assert.ErrorIs(t, err, ErrStateNotFound)

			require.NoError(t, repo.Put(ctx, "stif_report_2025_v2", []byte(`[{"actionId":"1"}]`)))
			value, err := repo.Get(ctx, "stif_report_2025_v2")
			require.NoError(t, err)
			assert.Equal(t, `[{"actionId":"1"}]`, string(value))

			require.NoError(t, repo.Put(ctx, "stif_report_2025_v2", []byte(`[]`)))
			value, err = repo.Get(ctx, "stif_report_2025_v2")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(value), "put overwrites the whole value")

			_, err = repo.Get(ctx, "stif_report_2024_v2")
			assert.ErrorIs(t, err, ErrStateNotFound, "keys are independent")
		})
	}
}

func TestMemoryStateRepositoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStateRepository()
	value := []byte("abc")
	require.NoError(t, repo.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStatePersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStateRepository(db).Put(ctx, "stif_sectors", []byte(`[]`)))
	require.NoError(t, db.Close())

	db, err = database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	value, err := NewSQLiteStateRepository(db).Get(ctx, "stif_sectors")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))
}
