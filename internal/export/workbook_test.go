package export

import (
	"bytes"
	"testing"
	"time"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func trackingState(t *testing.T) coach.State {
	t.Helper()
	at := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	s, _, err := coach.Start(coach.NewState(coach.DefaultProfile()))
	require.NoError(t, err)
	s, _, err = coach.AddEntry(s, coach.WeightEntry, "w1", 90.4, at)
	require.NoError(t, err)
	s, _, err = coach.AddEntry(s, coach.CalorieEntry, "c1", 2400, at)
	require.NoError(t, err)
	s, _, err = coach.CompleteWeek(s)
	require.NoError(t, err)
	s, _, err = coach.AddEntry(s, coach.WeightEntry, "w2", 89.9, at.AddDate(0, 0, 7))
	require.NoError(t, err)
	return s
}

func reopen(t *testing.T, s coach.State, cycles []coach.CycleRecord) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, cycles))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrite_Sheets(t *testing.T) {
	f := reopen(t, trackingState(t), nil)
	assert.Equal(t,
		[]string{SheetSummary, SheetWeeks, SheetCalorieHistory, SheetEntries, SheetCycles},
		f.GetSheetList())
}

func TestWrite_TrackingContent(t *testing.T) {
	f := reopen(t, trackingState(t), nil)

	step, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "tracking", step)

	weeks, err := f.GetRows(SheetWeeks)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, []string{"1", "90.4", "2400"}, weeks[1])

	history, err := f.GetRows(SheetCalorieHistory)
	require.NoError(t, err)
	assert.Len(t, history, 3, "header, week 0 and week 1")

	entries, err := f.GetRows(SheetEntries)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "weight", entries[1][0])
	assert.Equal(t, "w2", entries[2][5])
	assert.Equal(t, "calorie", entries[3][0])
}

func TestWrite_SetupWithCycles(t *testing.T) {
	s := coach.NewState(coach.DefaultProfile())
	cycles := []coach.CycleRecord{
		{CompletedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), FinalTDEE: 2650, FinalWeight: 84, TotalWeeks: 12, StartWeight: 90, TargetWeight: 80, Goal: coach.Lose},
	}
	f := reopen(t, s, cycles)

	weeks, err := f.GetRows(SheetWeeks)
	require.NoError(t, err)
	assert.Len(t, weeks, 1, "header only")

	rows, err := f.GetRows(SheetCycles)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "lose", rows[1][1])
	assert.Equal(t, "12", rows[1][2])
	assert.Equal(t, "2650", rows[1][6])
}
