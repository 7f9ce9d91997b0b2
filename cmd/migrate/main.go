// CLI tool to run pending database migrations from db/.
// Checks the migrations table to skip already-applied files.
// Wraps each migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate [-dir db]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var migrationPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	dir := flag.String("dir", "db", "Directory holding the *.sql migrations")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	files, err := migrationFiles(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ran, err := apply(ctx, conn, files, appliedMigrations(ctx, conn))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if ran == 0 {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Printf("\n%d migration(s) applied.\n", ran)
	}
}

// migrationFiles returns the *.sql files of dir in apply order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// appliedMigrations reads the migrations table. The table may not exist yet.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) map[string]bool {
	applied := make(map[string]bool)
	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return applied
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			applied[name] = true
		}
	}
	return applied
}

func apply(ctx context.Context, conn *pgx.Conn, files []string, applied map[string]bool) (int, error) {
	ran := 0
	for _, f := range files {
		filename := filepath.Base(f)
		if applied[filename] {
			fmt.Printf("  skip: %s\n", filename)
			continue
		}

		content, err := os.ReadFile(f)
		if err != nil {
			return ran, fmt.Errorf("error reading %s: %w", filename, err)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return ran, fmt.Errorf("error starting transaction: %w", err)
		}
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return ran, fmt.Errorf("error running %s: %w", filename, err)
		}
		desc := descriptionFromFilename(filename)
		if _, err := tx.Exec(ctx, "INSERT INTO migrations (migration, description) VALUES ($1, $2)", filename, desc); err != nil {
			tx.Rollback(ctx)
			return ran, fmt.Errorf("error recording %s: %w", filename, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return ran, fmt.Errorf("error committing %s: %w", filename, err)
		}

		fmt.Printf("  applied: %s\n", filename)
		ran++
	}
	return ran, nil
}

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = migrationPrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
