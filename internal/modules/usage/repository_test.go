package usage

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattadvisor/wattadvisor/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepository_RecordAndHistory(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	points := []domain.MonthlyUsagePoint{
		domain.NewMonthlyUsagePoint(2025, time.February, 820),
		domain.NewMonthlyUsagePoint(2025, time.January, 850),
	}
	require.NoError(t, repo.RecordBatch("user-1", points))

	history, err := repo.History("user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Returned in month order regardless of insert order
	assert.Equal(t, time.January, history[0].Month.Month())
	assert.Equal(t, 850.0, history[0].KWh)
	assert.Equal(t, time.February, history[1].Month.Month())
}

func TestRepository_RecordUpsertsSameMonth(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	require.NoError(t, repo.Record("user-1", domain.NewMonthlyUsagePoint(2025, time.January, 850)))
	require.NoError(t, repo.Record("user-1", domain.NewMonthlyUsagePoint(2025, time.January, 900)))

	history, err := repo.History("user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 900.0, history[0].KWh)
}

func TestRepository_HistoryIsolatedPerUser(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	require.NoError(t, repo.Record("user-1", domain.NewMonthlyUsagePoint(2025, time.January, 850)))
	require.NoError(t, repo.Record("user-2", domain.NewMonthlyUsagePoint(2025, time.January, 300)))

	history, err := repo.History("user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 850.0, history[0].KWh)
}

func TestRepository_Clear(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	require.NoError(t, repo.Record("user-1", domain.NewMonthlyUsagePoint(2025, time.January, 850)))
	require.NoError(t, repo.Clear("user-1"))

	history, err := repo.History("user-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
