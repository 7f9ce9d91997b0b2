package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the coach.Store used by the API server. It also answers the
// account lookups the login and auth middleware need.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// NewPool creates a connection pool for dbURL. We use a pool (not a single
// conn) because Neon closes idle connections after ~5 minutes.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// MustPool is NewPool for process startup: it exits on failure.
func MustPool(ctx context.Context, dbURL string) *pgxpool.Pool {
	pool, err := NewPool(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

/* ─── Query helpers ───────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

/* ─── Row shapes ──────────────────────────────────────────────────────── */

// stateRow maps to coach_states. jsonb columns are scanned raw and decoded
// into the coach types afterwards.
type stateRow struct {
	UserID         int             `db:"user_id"`
	Profile        json.RawMessage `db:"profile"`
	Step           string          `db:"step"`
	Cycle          int             `db:"cycle"`
	CurrentWeek    int             `db:"current_week"`
	TDEE           int             `db:"tdee"`
	Recommendation json.RawMessage `db:"recommendation"`
	WeeklyAverages json.RawMessage `db:"weekly_averages"`
	CalorieHistory json.RawMessage `db:"calorie_history"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// entryRow maps to weight_entries and calorie_entries, which share a shape.
type entryRow struct {
	ID       string    `db:"id"`
	UserID   int       `db:"user_id"`
	Cycle    int       `db:"cycle"`
	Week     int       `db:"week"`
	Day      int       `db:"day"`
	Value    float64   `db:"value"`
	LoggedAt time.Time `db:"logged_at"`
}

// cycleRow maps to cycle_records.
type cycleRow struct {
	ID           int       `db:"id"`
	UserID       int       `db:"user_id"`
	CompletedAt  time.Time `db:"completed_at"`
	FinalTDEE    int       `db:"final_tdee"`
	FinalWeight  float64   `db:"final_weight"`
	TotalWeeks   int       `db:"total_weeks"`
	StartWeight  float64   `db:"start_weight"`
	TargetWeight float64   `db:"target_weight"`
	Goal         string    `db:"goal"`
}

func (r entryRow) entry() coach.Entry {
	return coach.Entry{ID: r.ID, Week: r.Week, Day: r.Day, Value: r.Value, Timestamp: r.LoggedAt}
}

func (r cycleRow) record() coach.CycleRecord {
	return coach.CycleRecord{
		CompletedAt:  r.CompletedAt,
		FinalTDEE:    r.FinalTDEE,
		FinalWeight:  r.FinalWeight,
		TotalWeeks:   r.TotalWeeks,
		StartWeight:  r.StartWeight,
		TargetWeight: r.TargetWeight,
		Goal:         coach.Goal(r.Goal),
	}
}

/* ─── coach.Store ─────────────────────────────────────────────────────── */

func (s *Postgres) Load(ctx context.Context, userID int) (coach.Snapshot, error) {
	row, err := queryOne[stateRow](ctx, s.pool,
		"SELECT * FROM coach_states WHERE user_id = @user_id",
		pgx.NamedArgs{"user_id": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return coach.Snapshot{}, coach.ErrStateNotFound
	}
	if err != nil {
		return coach.Snapshot{}, fmt.Errorf("load coach state: %w", err)
	}

	doc, err := decodeDocument(documentColumns{
		Profile:        row.Profile,
		Step:           row.Step,
		Cycle:          row.Cycle,
		CurrentWeek:    row.CurrentWeek,
		TDEE:           row.TDEE,
		Recommendation: row.Recommendation,
		WeeklyAverages: row.WeeklyAverages,
		CalorieHistory: row.CalorieHistory,
	})
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

func (s *Postgres) loadEntries(ctx context.Context, userID, cycle int, kind coach.EntryKind) ([]coach.Entry, error) {
	table, err := entryTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := queryMany[entryRow](ctx, s.pool,
		"SELECT * FROM "+table+" WHERE user_id = @user_id AND cycle = @cycle ORDER BY week, day",
		pgx.NamedArgs{"user_id": userID, "cycle": cycle})
	if err != nil {
		return nil, fmt.Errorf("load %s entries: %w", kind, err)
	}
	out := make([]coach.Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

func (s *Postgres) Save(ctx context.Context, userID int, doc coach.Document) error {
	cols, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO coach_states (user_id, profile, step, cycle, current_week, tdee,
			recommendation, weekly_averages, calorie_history, updated_at)
		VALUES (@user_id, @profile::jsonb, @step, @cycle, @current_week, @tdee,
			@recommendation::jsonb, @weekly_averages::jsonb, @calorie_history::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE SET
			profile = EXCLUDED.profile,
			step = EXCLUDED.step,
			cycle = EXCLUDED.cycle,
			current_week = EXCLUDED.current_week,
			tdee = EXCLUDED.tdee,
			recommendation = EXCLUDED.recommendation,
			weekly_averages = EXCLUDED.weekly_averages,
			calorie_history = EXCLUDED.calorie_history,
			updated_at = now()`,
		pgx.NamedArgs{
			"user_id":         userID,
			"profile":         string(cols.Profile),
			"step":            cols.Step,
			"cycle":           cols.Cycle,
			"current_week":    cols.CurrentWeek,
			"tdee":            cols.TDEE,
			"recommendation":  nullableJSON(cols.Recommendation),
			"weekly_averages": string(cols.WeeklyAverages),
			"calorie_history": string(cols.CalorieHistory),
		})
	if err != nil {
		log.Printf("[Postgres.Save] user %d: %v", userID, err)
		return fmt.Errorf("save coach state: %w", err)
	}
	return nil
}

func (s *Postgres) AppendEntry(ctx context.Context, userID, cycle int, kind coach.EntryKind, e coach.Entry) error {
	table, err := entryTable(kind)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		"INSERT INTO "+table+" (id, user_id, cycle, week, day, value, logged_at) VALUES (@id, @user_id, @cycle, @week, @day, @value, @logged_at)",
		pgx.NamedArgs{
			"id":        e.ID,
			"user_id":   userID,
			"cycle":     cycle,
			"week":      e.Week,
			"day":       e.Day,
			"value":     e.Value,
			"logged_at": e.Timestamp,
		})
	if err != nil {
		log.Printf("[Postgres.AppendEntry] %s for user %d: %v", kind, userID, err)
		return fmt.Errorf("append %s entry: %w", kind, err)
	}
	return nil
}

func (s *Postgres) DeleteEntry(ctx context.Context, userID int, kind coach.EntryKind, id string) error {
	table, err := entryTable(kind)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		"DELETE FROM "+table+" WHERE id = @id AND user_id = @user_id",
		pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		log.Printf("[Postgres.DeleteEntry] %s %s for user %d: %v", kind, id, userID, err)
		return fmt.Errorf("delete %s entry: %w", kind, err)
	}
	return nil
}

func (s *Postgres) AppendCycle(ctx context.Context, userID int, rec coach.CycleRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cycle_records (user_id, completed_at, final_tdee, final_weight,
			total_weeks, start_weight, target_weight, goal)
		VALUES (@user_id, @completed_at, @final_tdee, @final_weight,
			@total_weeks, @start_weight, @target_weight, @goal)`,
		pgx.NamedArgs{
			"user_id":       userID,
			"completed_at":  rec.CompletedAt,
			"final_tdee":    rec.FinalTDEE,
			"final_weight":  rec.FinalWeight,
			"total_weeks":   rec.TotalWeeks,
			"start_weight":  rec.StartWeight,
			"target_weight": rec.TargetWeight,
			"goal":          string(rec.Goal),
		})
	if err != nil {
		log.Printf("[Postgres.AppendCycle] user %d: %v", userID, err)
		return fmt.Errorf("append cycle record: %w", err)
	}
	return nil
}

func (s *Postgres) ListCycles(ctx context.Context, userID int) ([]coach.CycleRecord, error) {
	rows, err := queryMany[cycleRow](ctx, s.pool,
		"SELECT * FROM cycle_records WHERE user_id = @user_id ORDER BY completed_at, id",
		pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list cycle records: %w", err)
	}
	out := make([]coach.CycleRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

/* ─── Accounts ────────────────────────────────────────────────────────── */

// User maps to the users table. AuthToken and Password are hidden from JSON responses.
type User struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// ErrUserNotFound is returned by the account lookups.
var ErrUserNotFound = errors.New("user not found")

func (s *Postgres) UserByUsername(ctx context.Context, username string) (User, error) {
	u, err := queryOne[User](ctx, s.pool,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Postgres) UserIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return userID, err
}

// CreateUser inserts a user and returns its id.
func (s *Postgres) CreateUser(ctx context.Context, username, email, passwordHash, token string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"INSERT INTO users (username, email, auth_token, password) VALUES ($1, $2, $3, $4) RETURNING id",
		username, email, token, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", username, err)
	}
	return id, nil
}

func entryTable(kind coach.EntryKind) (string, error) {
	switch kind {
	case coach.WeightEntry:
		return "weight_entries", nil
	case coach.CalorieEntry:
		return "calorie_entries", nil
	}
	return "", fmt.Errorf("unknown entry kind %q", kind)
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
