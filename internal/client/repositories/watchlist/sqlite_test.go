package watchlist

import (
	"context"
	"database/sql"
	"math"
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

func entry(owner, name string) *Entry {
	return &Entry{
		Owner:           owner,
		Address:         "addr-" + owner,
		Name:            name,
		Status:          "active",
		FinancialTarget: 1_000,
		Balance:         250,
		Donors:          2,
		RefreshedAt:     time.Unix(1_700_000_000, 0).UTC(),
	}
}

func TestUpsert_InsertThenUpdate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, entry("o1", "roof")))

	updated := entry("o1", "roof")
	updated.Status = "target_reached"
	updated.Balance = 1_200
	require.NoError(t, r.Upsert(ctx, updated))

	got, err := r.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpsert_RejectsOutOfRangeAmounts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	e := entry("o1", "roof")
	e.Balance = math.MaxUint64
	assert.Error(t, r.Upsert(context.Background(), e))
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	_, err := r.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListAndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, entry("o2", "well")))
	require.NoError(t, r.Upsert(ctx, entry("o1", "bridge")))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bridge", got[0].Name)
	assert.Equal(t, "well", got[1].Name)

	require.NoError(t, r.Delete(ctx, "o1"))
	require.NoError(t, r.Delete(ctx, "o1"))

	got, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
