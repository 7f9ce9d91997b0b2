package coach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageForWeek(t *testing.T) {
	entries := []Entry{
		{ID: "a", Week: 1, Value: 90},
		{ID: "b", Week: 1, Value: 91},
		{ID: "c", Week: 2, Value: 80},
	}
	avg, ok := AverageForWeek(1, entries)
	require.True(t, ok)
	assert.InDelta(t, 90.5, avg, 1e-9)

	_, ok = AverageForWeek(3, entries)
	assert.False(t, ok)
}

func TestEntryLog_WithLeavesReceiverUntouched(t *testing.T) {
	var empty EntryLog
	one := empty.with(Entry{ID: "a", Week: 1, Day: 1, Value: 90})
	two := one.with(Entry{ID: "b", Week: 1, Day: 2, Value: 89})

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.Len(t, one.Week(1), 1)
}

// Two logs derived from the same parent must not share appended storage.
func TestEntryLog_BranchesDoNotAlias(t *testing.T) {
	base := NewEntryLog([]Entry{{ID: "a", Week: 1, Day: 1, Value: 1}})
	left := base.with(Entry{ID: "l", Week: 1, Day: 2, Value: 2})
	right := base.with(Entry{ID: "r", Week: 1, Day: 2, Value: 3})

	assert.Equal(t, "l", left.Week(1)[1].ID)
	assert.Equal(t, "r", right.Week(1)[1].ID)
	assert.Len(t, base.Week(1), 1)
}

func TestEntryLog_Without(t *testing.T) {
	l := NewEntryLog([]Entry{
		{ID: "a", Week: 1, Day: 1, Value: 90},
		{ID: "b", Week: 2, Day: 1, Value: 89},
		{ID: "c", Week: 2, Day: 2, Value: 88},
	})

	_, ok := l.without(2, "a")
	assert.False(t, ok, "entry from another week")

	next, ok := l.without(2, "b")
	require.True(t, ok)
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 3, l.Len())

	next, ok = next.without(2, "c")
	require.True(t, ok)
	assert.Nil(t, next.Week(2))
	_, ok = next.Average(2)
	assert.False(t, ok)
}

func TestEntryLog_NextDay(t *testing.T) {
	l := NewEntryLog([]Entry{
		{ID: "a", Week: 1, Day: 1},
		{ID: "b", Week: 1, Day: 4},
		{ID: "c", Week: 2, Day: 1},
	})
	assert.Equal(t, 5, l.nextDay(1))
	assert.Equal(t, 2, l.nextDay(2))
	assert.Equal(t, 1, l.nextDay(3))
}

func TestEntryLog_AllOrderedByWeek(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	l := NewEntryLog([]Entry{
		{ID: "w3", Week: 3, Day: 1, Timestamp: now},
		{ID: "w1a", Week: 1, Day: 1, Timestamp: now},
		{ID: "w2", Week: 2, Day: 1, Timestamp: now},
		{ID: "w1b", Week: 1, Day: 2, Timestamp: now},
	})
	var ids []string
	for _, e := range l.All() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"w1a", "w1b", "w2", "w3"}, ids)
}

func TestEntryKind_Valid(t *testing.T) {
	assert.True(t, WeightEntry.Valid())
	assert.True(t, CalorieEntry.Valid())
	assert.False(t, EntryKind("steps").Valid())
}
