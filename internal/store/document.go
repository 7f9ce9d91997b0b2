package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"lg/macrocoach-go-api/internal/coach"
)

// documentColumns is a coach.Document flattened into the column set both SQL
// backends store. The JSON columns hold encoded bytes.
type documentColumns struct {
	Profile        []byte
	Step           string
	Cycle          int
	CurrentWeek    int
	TDEE           int
	Recommendation []byte // nil outside tracking
	WeeklyAverages []byte
	CalorieHistory []byte
}

func encodeDocument(doc coach.Document) (documentColumns, error) {
	cols := documentColumns{
		Step:        string(doc.Step),
		Cycle:       doc.Cycle,
		CurrentWeek: doc.CurrentWeek,
		TDEE:        doc.TDEE,
	}
	var err error
	if cols.Profile, err = json.Marshal(doc.Profile); err != nil {
		return documentColumns{}, fmt.Errorf("encode profile: %w", err)
	}
	if doc.Recommendation != nil {
		if cols.Recommendation, err = json.Marshal(doc.Recommendation); err != nil {
			return documentColumns{}, fmt.Errorf("encode recommendation: %w", err)
		}
	}
	if cols.WeeklyAverages, err = json.Marshal(nonNilSlice(doc.WeeklyAverages)); err != nil {
		return documentColumns{}, fmt.Errorf("encode weekly averages: %w", err)
	}
	if cols.CalorieHistory, err = json.Marshal(nonNilSlice(doc.CalorieHistory)); err != nil {
		return documentColumns{}, fmt.Errorf("encode calorie history: %w", err)
	}
	return cols, nil
}

func decodeDocument(cols documentColumns) (coach.Document, error) {
	doc := coach.Document{
		Step:        coach.Step(cols.Step),
		Cycle:       cols.Cycle,
		CurrentWeek: cols.CurrentWeek,
		TDEE:        cols.TDEE,
	}
	if err := json.Unmarshal(cols.Profile, &doc.Profile); err != nil {
		return coach.Document{}, fmt.Errorf("decode profile: %w", err)
	}
	if !isNullJSON(cols.Recommendation) {
		var rec coach.Recommendation
		if err := json.Unmarshal(cols.Recommendation, &rec); err != nil {
			return coach.Document{}, fmt.Errorf("decode recommendation: %w", err)
		}
		doc.Recommendation = &rec
	}
	doc.WeeklyAverages = []coach.WeeklyAverage{}
	if !isNullJSON(cols.WeeklyAverages) {
		if err := json.Unmarshal(cols.WeeklyAverages, &doc.WeeklyAverages); err != nil {
			return coach.Document{}, fmt.Errorf("decode weekly averages: %w", err)
		}
	}
	doc.CalorieHistory = []coach.CalorieHistoryRecord{}
	if !isNullJSON(cols.CalorieHistory) {
		if err := json.Unmarshal(cols.CalorieHistory, &doc.CalorieHistory); err != nil {
			return coach.Document{}, fmt.Errorf("decode calorie history: %w", err)
		}
	}
	return doc, nil
}

func isNullJSON(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
