package engine

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/internal/ebay"
)

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	eng := NewEngine(&fakeSource{}, testFilters(), &snapshotStore{}, WithStaggerOffset(0))

	s, err := NewScheduler(eng, 24*time.Hour, slog.Default())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	eng := NewEngine(&fakeSource{}, testFilters(), &snapshotStore{}, WithStaggerOffset(0))

	s, err := NewScheduler(eng, time.Hour, slog.Default())
	require.NoError(t, err)

	s.Start()
	stopCtx := s.Stop()

	select {
	case <-stopCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestScheduler_RunsRefresh(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		items: map[string][]ebay.ItemSummary{
			"used smartphone":   priceItems("used smartphone", 50, 60),
			"used game console": priceItems("used game console", 70, 80),
		},
	}
	st := &snapshotStore{}
	eng := NewEngine(src, testFilters(), st, WithStaggerOffset(0))

	s, err := NewScheduler(eng, 50*time.Millisecond, slog.Default())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return len(st.snapshots()) >= 2
	}, 3*time.Second, 20*time.Millisecond)
}
