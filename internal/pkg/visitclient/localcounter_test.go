package visitclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlzhang/homepage/internal/pkg/visit"
)

func tempCounter(t *testing.T, fingerprint string) *LocalCounter {
	t.Helper()
	return NewLocalCounterAt(filepath.Join(t.TempDir(), "daily-visit.json"), fingerprint)
}

func TestRecordVisitLocalSameDeviceCountedOnce(t *testing.T) {
	t.Parallel()

	counter := tempCounter(t, "aaaa1111")

	newVisits := 0
	var last visit.Result
	for i := 0; i < 5; i++ {
		result, err := counter.RecordVisitLocal("2025-06-01")
		require.NoError(t, err)
		if result.IsNewVisit {
			newVisits++
		}
		last = result
	}

	assert.Equal(t, 1, newVisits)
	assert.Equal(t, 1, last.TodayCount)
	assert.Equal(t, 1, last.TotalCount)
}

func TestRecordVisitLocalDistinctDevices(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily-visit.json")
	first := NewLocalCounterAt(path, "aaaa1111")
	second := NewLocalCounterAt(path, "bbbb2222")

	_, err := first.RecordVisitLocal("2025-06-01")
	require.NoError(t, err)

	result, err := second.RecordVisitLocal("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, visit.Result{TodayCount: 2, TotalCount: 2, IsNewVisit: true}, result)
}

func TestRecordVisitLocalTotalIsUnionAcrossDates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily-visit.json")
	counter := NewLocalCounterAt(path, "aaaa1111")

	_, err := counter.RecordVisitLocal("2025-06-01")
	require.NoError(t, err)

	// Same device on a new date: day count resets, the unique-visitor
	// total does not grow.
	result, err := counter.RecordVisitLocal("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, visit.Result{TodayCount: 1, TotalCount: 1, IsNewVisit: true}, result)

	other := NewLocalCounterAt(path, "bbbb2222")
	result, err = other.RecordVisitLocal("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, visit.Result{TodayCount: 2, TotalCount: 2, IsNewVisit: true}, result)
}

func TestRecordVisitLocalInvalidDate(t *testing.T) {
	t.Parallel()

	counter := tempCounter(t, "aaaa1111")
	_, err := counter.RecordVisitLocal("2025-1-5")
	assert.ErrorIs(t, err, visit.ErrInvalidDate)
}

func TestRecordVisitLocalCorruptFileStartsFresh(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily-visit.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	counter := NewLocalCounterAt(path, "aaaa1111")
	result, err := counter.RecordVisitLocal("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, visit.Result{TodayCount: 1, TotalCount: 1, IsNewVisit: true}, result)
}

func TestRecordVisitLocalHealsEditedTotal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily-visit.json")
	// A hand-edited file with a nonsense total: the next new visit
	// recomputes it from the union of fingerprints.
	require.NoError(t, os.WriteFile(path, []byte(`{"dailyVisits":{"2025-06-01":["aaaa1111"]},"totalUniqueVisitors":999}`), 0o644))

	counter := NewLocalCounterAt(path, "bbbb2222")
	result, err := counter.RecordVisitLocal("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
}

func TestFingerprintIsStable(t *testing.T) {
	t.Parallel()

	first := Fingerprint()
	second := Fingerprint()
	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
}
