package keys

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/client/migrations"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))
	return db
}

func sampleKey(name, id string) *Key {
	return &Key{
		Name:       name,
		Identity:   id,
		Salt:       []byte{1, 2, 3},
		Nonce:      []byte{4, 5, 6},
		SealedSeed: []byte{7, 8, 9},
		CreatedAt:  time.Unix(1_700_000_000, 0).UTC(),
	}
}

func TestSaveAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleKey("main", "id-1")))

	got, err := r.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, sampleKey("main", "id-1"), got)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_DuplicateNameOrIdentity(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleKey("main", "id-1")))
	assert.ErrorIs(t, r.Save(ctx, sampleKey("main", "id-2")), ErrKeyExists)
	assert.ErrorIs(t, r.Save(ctx, sampleKey("other", "id-1")), ErrKeyExists)
}

func TestList_SortedByName(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleKey("zeta", "id-z")))
	require.NoError(t, r.Save(ctx, sampleKey("alpha", "id-a")))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "zeta", got[1].Name)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleKey("main", "id-1")))
	require.NoError(t, r.Delete(ctx, "main"))
	assert.ErrorIs(t, r.Delete(ctx, "main"), common.ErrorNotFound)

	_, err := r.Get(ctx, "main")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
