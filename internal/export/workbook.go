// Package export renders a user's coaching data as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary        = "Summary"
	SheetWeeks          = "Weeks"
	SheetCalorieHistory = "Calorie History"
	SheetEntries        = "Entries"
	SheetCycles         = "Cycles"
)

// ContentType is the MIME type of the workbook Write produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type styles struct {
	header int
	label  int
	date   int
}

// Workbook builds a workbook with one sheet per view of the state: the
// summary, completed weeks, calorie history, the current cycle's entries and
// the archive of completed cycles. The caller must Close the file.
func Workbook(s coach.State, cycles []coach.CycleRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", SheetSummary)
	for _, name := range []string{SheetWeeks, SheetCalorieHistory, SheetEntries, SheetCycles} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	writeSummary(f, st, s)
	t, tracking := s.Tracking()
	if tracking {
		writeWeeks(f, st, t.WeeklyAverages)
		writeHistory(f, st, t.CalorieHistory)
		writeEntries(f, st, t)
	} else {
		writeWeeks(f, st, nil)
		writeHistory(f, st, nil)
		writeEntries(f, st, coach.Tracking{})
	}
	writeCycles(f, st, cycles)

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, s coach.State, cycles []coach.CycleRecord) error {
	f, err := Workbook(s, cycles)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	st.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E2EFDA"}, Pattern: 1},
	})
	if err != nil {
		return st, fmt.Errorf("label style: %w", err)
	}
	st.date, err = f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return st, fmt.Errorf("date style: %w", err)
	}
	return st, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// writeHeader writes a header row at row 1 and widens the columns.
func writeHeader(f *excelize.File, st styles, sheet string, titles ...string) {
	for i, title := range titles {
		name, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, name, title)
	}
	last, _ := excelize.ColumnNumberToName(len(titles))
	f.SetCellStyle(sheet, "A1", cell(last, 1), st.header)
	f.SetColWidth(sheet, "A", last, 16)
}

func writeSummary(f *excelize.File, st styles, s coach.State) {
	sheet := SheetSummary
	p := s.Profile
	progress := s.Progress()
	rows := [][]any{
		{"Step", string(progress.Step)},
		{"Cycle", s.Cycle + 1},
		{"Age", p.Age},
		{"Gender", string(p.Gender)},
		{"Height (cm)", p.HeightCM},
		{"Current weight (kg)", p.CurrentWeight},
		{"Target weight (kg)", p.TargetWeight},
		{"Activity factor", p.ActivityFactor},
		{"Goal", string(p.Goal)},
		{"Weekly goal (%)", p.WeeklyGoalPercent},
		{"TDEE (kcal)", s.TDEE},
		{"Weeks completed", progress.WeeksCompleted},
		{"Weight change (kg)", progress.Change},
	}
	if rec := progress.Recommendation; rec != nil {
		rows = append(rows,
			[]any{"Calories (kcal)", rec.Calories},
			[]any{"Protein (g)", rec.Protein},
			[]any{"Fat (g)", rec.Fat},
			[]any{"Carbs (g)", rec.Carbs},
		)
	}
	for i, r := range rows {
		row := i + 1
		f.SetCellValue(sheet, cell("A", row), r[0])
		f.SetCellValue(sheet, cell("B", row), r[1])
		f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.label)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 16)
}

func writeWeeks(f *excelize.File, st styles, avgs []coach.WeeklyAverage) {
	sheet := SheetWeeks
	writeHeader(f, st, sheet, "Week", "Avg weight (kg)", "Avg calories (kcal)")
	for i, a := range avgs {
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), a.Week)
		f.SetCellValue(sheet, cell("B", row), a.AvgWeight)
		if a.AvgCalories != nil {
			f.SetCellValue(sheet, cell("C", row), *a.AvgCalories)
		}
	}
}

func writeHistory(f *excelize.File, st styles, history []coach.CalorieHistoryRecord) {
	sheet := SheetCalorieHistory
	writeHeader(f, st, sheet, "Week", "Target (kcal)", "TDEE (kcal)", "Avg intake (kcal)")
	for i, h := range history {
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), h.Week)
		f.SetCellValue(sheet, cell("B", row), h.Calories)
		f.SetCellValue(sheet, cell("C", row), h.TDEE)
		if h.AvgCalories != nil {
			f.SetCellValue(sheet, cell("D", row), *h.AvgCalories)
		}
	}
}

func writeEntries(f *excelize.File, st styles, t coach.Tracking) {
	sheet := SheetEntries
	writeHeader(f, st, sheet, "Kind", "Week", "Day", "Value", "Logged at", "ID")
	row := 2
	for _, group := range []struct {
		kind    coach.EntryKind
		entries []coach.Entry
	}{
		{coach.WeightEntry, t.Weights.All()},
		{coach.CalorieEntry, t.Calories.All()},
	} {
		for _, e := range group.entries {
			f.SetCellValue(sheet, cell("A", row), string(group.kind))
			f.SetCellValue(sheet, cell("B", row), e.Week)
			f.SetCellValue(sheet, cell("C", row), e.Day)
			f.SetCellValue(sheet, cell("D", row), e.Value)
			f.SetCellValue(sheet, cell("E", row), e.Timestamp)
			f.SetCellStyle(sheet, cell("E", row), cell("E", row), st.date)
			f.SetCellValue(sheet, cell("F", row), e.ID)
			row++
		}
	}
}

func writeCycles(f *excelize.File, st styles, cycles []coach.CycleRecord) {
	sheet := SheetCycles
	writeHeader(f, st, sheet, "Completed", "Goal", "Weeks", "Start (kg)", "Final (kg)", "Target (kg)", "Final TDEE")
	for i, c := range cycles {
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), c.CompletedAt)
		f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.date)
		f.SetCellValue(sheet, cell("B", row), string(c.Goal))
		f.SetCellValue(sheet, cell("C", row), c.TotalWeeks)
		f.SetCellValue(sheet, cell("D", row), c.StartWeight)
		f.SetCellValue(sheet, cell("E", row), c.FinalWeight)
		f.SetCellValue(sheet, cell("F", row), c.TargetWeight)
		f.SetCellValue(sheet, cell("G", row), c.FinalTDEE)
	}
}
