package tui

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFiles(t *testing.T) {
	assert.True(t, RecordFiles("/data/goals.json"))
	assert.True(t, RecordFiles("profile.json"))
	assert.False(t, RecordFiles("/data/goals.json123456"))
	assert.False(t, RecordFiles("/data/.goals.json"))
	assert.False(t, RecordFiles("/data/unfold.log"))
}

func TestDatabaseFiles(t *testing.T) {
	match := DatabaseFiles("/data/unfold.db")
	assert.True(t, match("/data/unfold.db"))
	assert.True(t, match("/data/unfold.db-wal"))
	assert.True(t, match("/data/unfold.db-journal"))
	assert.False(t, match("/data/unfold.dbx"))
	assert.False(t, match("/data/goals.json"))
}

func TestWatchNotifiesOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	stop, err := watch(dir, RecordFiles, nil, func() { calls.Add(1) })
	require.NoError(t, err)
	defer stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.json"), []byte("[]"), 0644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(2 * reloadDelay)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	stop, err := watch(dir, RecordFiles, nil, func() { calls.Add(1) })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unfold.log"), []byte("x"), 0644))
	time.Sleep(3 * reloadDelay)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatchStopIsIdempotent(t *testing.T) {
	stop, err := watch(t.TempDir(), RecordFiles, nil, func() {})
	require.NoError(t, err)
	stop()
	stop()
}

func TestWatchMissingDir(t *testing.T) {
	_, err := watch(filepath.Join(t.TempDir(), "missing"), RecordFiles, nil, func() {})
	assert.Error(t, err)
}
