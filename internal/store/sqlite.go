package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lg/macrocoach-go-api/internal/coach"

	_ "modernc.org/sqlite"
)

// SQLite is the single-file coach.Store behind the command-line coach.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies any
// pending migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type migration struct {
	version int
	name    string
	sql     string
}

var sqliteMigrations = []migration{
	{
		version: 1,
		name:    "coach_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS coach_states (
  user_id INTEGER PRIMARY KEY,
  profile TEXT NOT NULL,
  step TEXT NOT NULL CHECK(step IN ('setup', 'tracking')),
  cycle INTEGER NOT NULL DEFAULT 0,
  current_week INTEGER NOT NULL DEFAULT 1 CHECK(current_week >= 1),
  tdee INTEGER NOT NULL DEFAULT 0,
  recommendation TEXT,
  weekly_averages TEXT NOT NULL DEFAULT '[]',
  calorie_history TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT NOT NULL
);
`,
	},
	{
		version: 2,
		name:    "entries_and_cycles",
		sql: `
CREATE TABLE IF NOT EXISTS weight_entries (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  cycle INTEGER NOT NULL,
  week INTEGER NOT NULL CHECK(week >= 1),
  day INTEGER NOT NULL CHECK(day >= 1),
  value REAL NOT NULL,
  logged_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weight_entries_user_cycle ON weight_entries(user_id, cycle);

CREATE TABLE IF NOT EXISTS calorie_entries (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  cycle INTEGER NOT NULL,
  week INTEGER NOT NULL CHECK(week >= 1),
  day INTEGER NOT NULL CHECK(day >= 1),
  value REAL NOT NULL,
  logged_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calorie_entries_user_cycle ON calorie_entries(user_id, cycle);

CREATE TABLE IF NOT EXISTS cycle_records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  completed_at TEXT NOT NULL,
  final_tdee INTEGER NOT NULL,
  final_weight REAL NOT NULL,
  total_weeks INTEGER NOT NULL,
  start_weight REAL NOT NULL,
  target_weight REAL NOT NULL,
  goal TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycle_records_user ON cycle_records(user_id, completed_at);
`,
	},
}

func migrateSQLite(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range sqliteMigrations {
		var exists int
		if err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, userID int) (coach.Snapshot, error) {
	var (
		cols documentColumns
		rec  sql.NullString
		prof string
		avgs string
		hist string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT profile, step, cycle, current_week, tdee, recommendation, weekly_averages, calorie_history
FROM coach_states WHERE user_id = ?`, userID).
		Scan(&prof, &cols.Step, &cols.Cycle, &cols.CurrentWeek, &cols.TDEE, &rec, &avgs, &hist)
	if errors.Is(err, sql.ErrNoRows) {
		return coach.Snapshot{}, coach.ErrStateNotFound
	}
	if err != nil {
		return coach.Snapshot{}, fmt.Errorf("load coach state: %w", err)
	}
	cols.Profile = []byte(prof)
	cols.WeeklyAverages = []byte(avgs)
	cols.CalorieHistory = []byte(hist)
	if rec.Valid {
		cols.Recommendation = []byte(rec.String)
	}

	doc, err := decodeDocument(cols)
	if err != nil {
		return coach.Snapshot{}, err
	}
	snap := coach.Snapshot{Document: doc}
	if snap.Weights, err = s.loadEntries(ctx, userID, doc.Cycle, coach.WeightEntry); err != nil {
		return coach.Snapshot{}, err
	}
	if snap.Calories, err = s.loadEntries(ctx, userID, doc.Cycle, coach.CalorieEntry); err != nil {
		return coach.Snapshot{}, err
	}
	return snap, nil
}

func (s *SQLite) loadEntries(ctx context.Context, userID, cycle int, kind coach.EntryKind) ([]coach.Entry, error) {
	table, err := entryTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, week, day, value, logged_at FROM `+table+` WHERE user_id = ? AND cycle = ? ORDER BY week, day`,
		userID, cycle)
	if err != nil {
		return nil, fmt.Errorf("load %s entries: %w", kind, err)
	}
	defer rows.Close()

	out := []coach.Entry{}
	for rows.Next() {
		var (
			e        coach.Entry
			loggedAt string
		)
		if err := rows.Scan(&e.ID, &e.Week, &e.Day, &e.Value, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", kind, err)
		}
		if e.Timestamp, err = parseTime(loggedAt); err != nil {
			return nil, fmt.Errorf("parse %s entry time: %w", kind, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", kind, err)
	}
	return out, nil
}

func (s *SQLite) Save(ctx context.Context, userID int, doc coach.Document) error {
	cols, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	var rec any
	if cols.Recommendation != nil {
		rec = string(cols.Recommendation)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO coach_states (user_id, profile, step, cycle, current_week, tdee,
  recommendation, weekly_averages, calorie_history, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  profile = excluded.profile,
  step = excluded.step,
  cycle = excluded.cycle,
  current_week = excluded.current_week,
  tdee = excluded.tdee,
  recommendation = excluded.recommendation,
  weekly_averages = excluded.weekly_averages,
  calorie_history = excluded.calorie_history,
  updated_at = excluded.updated_at`,
		userID, string(cols.Profile), cols.Step, cols.Cycle, cols.CurrentWeek, cols.TDEE,
		rec, string(cols.WeeklyAverages), string(cols.CalorieHistory), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save coach state: %w", err)
	}
	return nil
}

func (s *SQLite) AppendEntry(ctx context.Context, userID, cycle int, kind coach.EntryKind, e coach.Entry) error {
	table, err := entryTable(kind)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, user_id, cycle, week, day, value, logged_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, userID, cycle, e.Week, e.Day, e.Value, formatTime(e.Timestamp))
	if err != nil {
		return fmt.Errorf("append %s entry: %w", kind, err)
	}
	return nil
}

func (s *SQLite) DeleteEntry(ctx context.Context, userID int, kind coach.EntryKind, id string) error {
	table, err := entryTable(kind)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete %s entry: %w", kind, err)
	}
	return nil
}

func (s *SQLite) AppendCycle(ctx context.Context, userID int, rec coach.CycleRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO cycle_records (user_id, completed_at, final_tdee, final_weight, total_weeks, start_weight, target_weight, goal)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, formatTime(rec.CompletedAt), rec.FinalTDEE, rec.FinalWeight, rec.TotalWeeks,
		rec.StartWeight, rec.TargetWeight, string(rec.Goal))
	if err != nil {
		return fmt.Errorf("append cycle record: %w", err)
	}
	return nil
}

func (s *SQLite) ListCycles(ctx context.Context, userID int) ([]coach.CycleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT completed_at, final_tdee, final_weight, total_weeks, start_weight, target_weight, goal
FROM cycle_records WHERE user_id = ? ORDER BY completed_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cycle records: %w", err)
	}
	defer rows.Close()

	out := []coach.CycleRecord{}
	for rows.Next() {
		var (
			r           coach.CycleRecord
			completedAt string
			goal        string
		)
		if err := rows.Scan(&completedAt, &r.FinalTDEE, &r.FinalWeight, &r.TotalWeeks, &r.StartWeight, &r.TargetWeight, &goal); err != nil {
			return nil, fmt.Errorf("scan cycle record: %w", err)
		}
		if r.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, fmt.Errorf("parse cycle completion time: %w", err)
		}
		r.Goal = coach.Goal(goal)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle records: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
