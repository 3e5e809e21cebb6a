package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRecordTrade(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	exitAt := time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(testTrade("T1", 1, exitAt, 650)))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "NIFTY26MAR24500CE", rows[1][2])
	assert.Equal(t, "650", rows[1][8])
	assert.Equal(t, "strong_bearish", rows[1][10])
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	sum := Summarize(day, nil)
	assert.Equal(t, 0, sum.Trades)
	assert.Empty(t, sum.ByReason)
}
