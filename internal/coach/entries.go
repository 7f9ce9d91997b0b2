package coach

import (
	"slices"
	"time"
)

// EntryKind names one of the two logged collections.
type EntryKind string

const (
	WeightEntry  EntryKind = "weight"
	CalorieEntry EntryKind = "calorie"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == WeightEntry || k == CalorieEntry
}

// Entry is one logged value (kg for weight, kcal for calories). Week and Day
// are assigned when the entry is created and never change.
type Entry struct {
	ID        string    `json:"id"`
	Week      int       `json:"week"`
	Day       int       `json:"day"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// AverageForWeek returns the mean value of the entries logged in week.
// ok is false when there are none.
func AverageForWeek(week int, entries []Entry) (avg float64, ok bool) {
	var sum float64
	n := 0
	for _, e := range entries {
		if e.Week != week {
			continue
		}
		sum += e.Value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// EntryLog is an immutable collection of entries indexed by week. With and
// Without return a new log and leave the receiver untouched, so a State that
// holds a log can be copied freely. The zero value is an empty log.
type EntryLog struct {
	byWeek map[int][]Entry
}

// NewEntryLog indexes entries by week, keeping their order within each week.
func NewEntryLog(entries []Entry) EntryLog {
	l := EntryLog{byWeek: make(map[int][]Entry)}
	for _, e := range entries {
		l.byWeek[e.Week] = append(l.byWeek[e.Week], e)
	}
	return l
}

// Week returns a copy of the entries logged in week, in arrival order.
func (l EntryLog) Week(week int) []Entry {
	return slices.Clone(l.byWeek[week])
}

// Average is AverageForWeek restricted to the entries already indexed under week.
func (l EntryLog) Average(week int) (float64, bool) {
	return AverageForWeek(week, l.byWeek[week])
}

// Len returns the total number of entries across all weeks.
func (l EntryLog) Len() int {
	n := 0
	for _, es := range l.byWeek {
		n += len(es)
	}
	return n
}

// All returns every entry ordered by week, then arrival.
func (l EntryLog) All() []Entry {
	weeks := make([]int, 0, len(l.byWeek))
	for w := range l.byWeek {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)
	out := make([]Entry, 0, l.Len())
	for _, w := range weeks {
		out = append(out, l.byWeek[w]...)
	}
	return out
}

// nextDay is the day index the next entry of week receives: one past the
// highest day already logged there.
func (l EntryLog) nextDay(week int) int {
	day := 0
	for _, e := range l.byWeek[week] {
		day = max(day, e.Day)
	}
	return day + 1
}

func (l EntryLog) with(e Entry) EntryLog {
	next := l.copyIndex()
	next.byWeek[e.Week] = append(slices.Clip(next.byWeek[e.Week]), e)
	return next
}

// without removes the entry with id from week. ok is false when week holds
// no such entry.
func (l EntryLog) without(week int, id string) (EntryLog, bool) {
	es := l.byWeek[week]
	i := slices.IndexFunc(es, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return l, false
	}
	next := l.copyIndex()
	next.byWeek[week] = slices.Delete(slices.Clone(es), i, i+1)
	if len(next.byWeek[week]) == 0 {
		delete(next.byWeek, week)
	}
	return next, true
}

func (l EntryLog) copyIndex() EntryLog {
	next := EntryLog{byWeek: make(map[int][]Entry, len(l.byWeek)+1)}
	for w, es := range l.byWeek {
		next.byWeek[w] = es
	}
	return next
}
