package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/spf13/cobra"
)

// newEntryCmd builds the "weight" or "calories" command group.
func newEntryCmd(opts *cliOptions, kind coach.EntryKind) *cobra.Command {
	use, unit := "weight", "kg"
	if kind == coach.CalorieEntry {
		use, unit = "calories", "kcal"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Log %s entries for the current week", use),
	}

	add := &cobra.Command{
		Use:   "add <value>",
		Short: fmt.Sprintf("Log a %s value (%s)", use, unit),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q", use, args[0])
			}
			if err := coach.ValidateEntry(kind, v); err != nil {
				return err
			}
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				var e coach.Entry
				if kind == coach.WeightEntry {
					e, err = c.AddWeight(cmd.Context(), v)
				} else {
					e, err = c.AddCalories(cmd.Context(), v)
				}
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %g %s for week %d day %d (%s)\n", e.Value, unit, e.Week, e.Day, e.ID)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Remove a %s entry of the current week", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				if err := c.RemoveEntry(cmd.Context(), kind, args[0]); err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s entry %s\n", use, args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newWeekCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the entries and averages of the current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				week, ok := c.State().CurrentWeek()
				if !ok {
					return coach.ErrNotTracking
				}
				printWeek(cmd.OutOrStdout(), week)
				return nil
			})
		},
	}
}

func printWeek(w io.Writer, week coach.WeekSummary) {
	fmt.Fprintf(w, "Week %d\n", week.Week)
	fmt.Fprintln(w, "KIND\tDAY\tVALUE\tID")
	for _, e := range week.Weights {
		fmt.Fprintf(w, "weight\t%d\t%.1f\t%s\n", e.Day, e.Value, e.ID)
	}
	for _, e := range week.Calories {
		fmt.Fprintf(w, "calories\t%d\t%.0f\t%s\n", e.Day, e.Value, e.ID)
	}
	if week.AvgWeight != nil {
		fmt.Fprintf(w, "Avg weight: %.1f kg\n", *week.AvgWeight)
	}
	if week.AvgCalories != nil {
		fmt.Fprintf(w, "Avg calories: %.0f kcal\n", *week.AvgCalories)
	}
}
