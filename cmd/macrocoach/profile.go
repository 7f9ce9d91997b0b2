package main

import (
	"fmt"
	"io"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/spf13/cobra"
)

func newProfileCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the profile used to plan a cycle",
	}
	cmd.AddCommand(newProfileShowCmd(opts), newProfileSetCmd(opts))
	return cmd
}

func newProfileShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				printProfile(cmd.OutOrStdout(), c.State().Profile)
				return nil
			})
		},
	}
}

func newProfileSetCmd(opts *cliOptions) *cobra.Command {
	var (
		age           int
		gender        string
		height        float64
		weight        float64
		target        float64
		activity      string
		goal          string
		weeklyPercent float64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields (only before a cycle is started)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pp coach.ProfilePatch
			flags := cmd.Flags()
			if flags.Changed("age") {
				pp.Age = &age
			}
			if flags.Changed("gender") {
				g := coach.Gender(gender)
				pp.Gender = &g
			}
			if flags.Changed("height") {
				pp.HeightCM = &height
			}
			if flags.Changed("weight") {
				pp.CurrentWeight = &weight
			}
			if flags.Changed("target") {
				pp.TargetWeight = &target
			}
			if flags.Changed("activity") {
				pp.ActivityLevel = &activity
			}
			if flags.Changed("goal") {
				g := coach.Goal(goal)
				pp.Goal = &g
			}
			if flags.Changed("weekly-percent") {
				pp.WeeklyGoalPercent = &weeklyPercent
			}
			if pp.Empty() {
				return fmt.Errorf("no fields to update")
			}
			return opts.withCoach(cmd.Context(), func(c *coach.Coach) error {
				p, err := c.PatchProfile(cmd.Context(), pp)
				if err != nil {
					return describe(err)
				}
				printProfile(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&gender, "gender", "", "male or female")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Current weight in kg")
	cmd.Flags().Float64Var(&target, "target", 0, "Target weight in kg")
	cmd.Flags().StringVar(&activity, "activity", "", "sedentary, light, moderate, active or very_active")
	cmd.Flags().StringVar(&goal, "goal", "", "lose, maintain or gain")
	cmd.Flags().Float64Var(&weeklyPercent, "weekly-percent", 0, "Weekly weight change as a percent of body weight")
	return cmd
}

func printProfile(w io.Writer, p coach.Profile) {
	level := coach.ActivityLevelName(p.ActivityFactor)
	fmt.Fprintf(w, "Age: %d\nGender: %s\nHeight: %.1f cm\nWeight: %.1f kg\nTarget: %.1f kg\nActivity: %s (%.3g)\nGoal: %s\nWeekly change: %.2f%%\n",
		p.Age, p.Gender, p.HeightCM, p.CurrentWeight, p.TargetWeight, level, p.ActivityFactor, p.Goal, p.WeeklyGoalPercent)
}
