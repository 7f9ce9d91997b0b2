package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/store"

	"github.com/spf13/cobra"
)

const (
	appDirName = "macrocoach"
	dbFileName = "macrocoach.db"
)

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	dbPath string
	userID int
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "macrocoach",
		Short:         "macrocoach is a weekly calorie and macro coach",
		Long:          "macrocoach estimates your TDEE, sets a calorie and macro target, and recalibrates it from the weight and intake you log each week.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to SQLite database (default: user config dir)")
	root.PersistentFlags().IntVar(&opts.userID, "user", 1, "User id to coach")

	root.AddCommand(
		newProfileCmd(opts),
		newStartCmd(opts),
		newEntryCmd(opts, coach.WeightEntry),
		newEntryCmd(opts, coach.CalorieEntry),
		newWeekCmd(opts),
		newCompleteWeekCmd(opts),
		newCompleteCycleCmd(opts),
		newStatusCmd(opts),
		newCyclesCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func (o *cliOptions) resolveDBPath() (string, error) {
	if o.dbPath != "" {
		return o.dbPath, nil
	}
	if env := os.Getenv("MACROCOACH_DB"); env != "" {
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// withCoach opens the database, loads the user's coach and runs fn.
func (o *cliOptions) withCoach(ctx context.Context, fn func(*coach.Coach) error) error {
	path, err := o.resolveDBPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := coach.Load(ctx, o.userID, db)
	if err != nil {
		return err
	}
	return fn(c)
}

// describe turns a coach error into a message for the terminal.
func describe(err error) error {
	var perr *coach.PersistError
	if errors.As(err, &perr) {
		return fmt.Errorf("change applied but not saved: %w", err)
	}
	return err
}
