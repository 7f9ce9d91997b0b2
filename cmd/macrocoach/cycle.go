package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/export"

	"github.com/spf13/cobra"
)

func newStartCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a cycle from the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				cs, err := c.Start(cmd.Context())
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started cycle. TDEE: %d kcal\n", cs.TDEE)
				printRecommendation(cmd.OutOrStdout(), cs.Recommendation)
				return nil
			})
		},
	}
}

func newCompleteWeekCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-week",
		Short: "Finish the current week and recalibrate the target",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				out, err := c.CompleteWeek(cmd.Context())
				if err != nil {
					return describe(err)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Completed week %d. Avg weight: %.1f kg\n", out.Average.Week, out.Average.AvgWeight)
				if out.Recalibrated {
					fmt.Fprintf(w, "TDEE recalibrated: %d -> %d kcal\n", out.PreviousTDEE, out.TDEE)
				} else {
					fmt.Fprintf(w, "TDEE unchanged: %d kcal\n", out.TDEE)
				}
				printRecommendation(w, out.Recommendation)
				return nil
			})
		},
	}
}

func newCompleteCycleCmd(opts *cliOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "complete-cycle",
		Short: "Archive the running cycle and return to setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("completing a cycle discards the running week; pass --yes to confirm")
			}
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				rec, err := c.CompleteCycle(cmd.Context())
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed cycle after %d week(s). Weight %.1f -> %.1f kg, TDEE %d kcal\n",
					rec.TotalWeeks, rec.StartWeight, rec.FinalWeight, rec.FinalTDEE)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm completing the cycle")
	return cmd
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress of the running cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				p := c.State().Progress()
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Step: %s\n", p.Step)
				fmt.Fprintf(w, "Weight: %.1f kg (start %.1f, change %+.1f)\n", p.CurrentWeight, p.StartWeight, p.Change)
				fmt.Fprintf(w, "Target: %.1f kg (%.1f to go)\n", p.TargetWeight, p.RemainingToTarget)
				fmt.Fprintf(w, "Weeks completed: %d\n", p.WeeksCompleted)
				fmt.Fprintf(w, "TDEE: %d kcal\n", p.TDEE)
				if p.Recommendation != nil {
					printRecommendation(w, *p.Recommendation)
				}
				return nil
			})
		},
	}
}

func newCyclesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "List completed cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				cycles, err := c.Cycles(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(cycles) == 0 {
					fmt.Fprintln(w, "No completed cycles")
					return nil
				}
				fmt.Fprintln(w, "COMPLETED\tGOAL\tWEEKS\tSTART\tFINAL\tTARGET\tTDEE")
				for _, r := range cycles {
					fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\t%d\n",
						r.CompletedAt.Local().Format("2006-01-02"), r.Goal, r.TotalWeeks, r.StartWeight, r.FinalWeight, r.TargetWeight, r.FinalTDEE)
				}
				return nil
			})
		},
	}
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the coaching data to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = fmt.Sprintf("macrocoach-%s.xlsx", time.Now().Format("2006-01-02"))
			}
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				cycles, err := c.Cycles(cmd.Context())
				if err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := export.Write(f, c.State(), cycles); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (default macrocoach-YYYY-MM-DD.xlsx)")
	return cmd
}

func printRecommendation(w io.Writer, r coach.Recommendation) {
	fmt.Fprintf(w, "Target: %d kcal  P %dg  F %dg (min %dg)  C %dg\n", r.Calories, r.Protein, r.Fat, r.MinFat, r.Carbs)
}
