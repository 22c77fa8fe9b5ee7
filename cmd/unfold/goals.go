package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/unfold/pkg/companion"
	"github.com/stefanpenner/unfold/pkg/oracle"
	"github.com/stefanpenner/unfold/pkg/store"
)

var plantCmd = &cobra.Command{
	Use:   "plant <intention...>",
	Short: "Plant an intention and let the companion shape it into a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !jsonOutput {
			fmt.Fprintln(out, faint("Listening to the seeds of intention..."))
		}

		g, err := app.Companion.PlantGoal(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return explain(err)
		}

		if jsonOutput {
			return outputJSON(out, g)
		}
		fmt.Fprintf(out, "%s Planted:\n\n", green("✓"))
		printGoal(out, g)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals grouped by horizon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals := app.Store.Goals()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, goals)
		}
		if len(goals) == 0 {
			fmt.Fprintln(out, "No goals yet. Plant one with 'unfold plant <intention>'.")
			return nil
		}

		// Indexes follow collection order so they stay valid for other commands
		for _, section := range []struct {
			title string
			typ   store.GoalType
		}{
			{"DIRECTIONS", store.TypeLongTerm},
			{"FOCUS POINTS", store.TypeShortTerm},
		} {
			printed := false
			for i, g := range goals {
				if g.Type != section.typ {
					continue
				}
				if !printed {
					fmt.Fprintln(out, cyan(section.title))
					printed = true
				}
				printGoalLine(out, i+1, g)
			}
			if printed {
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <goal>",
	Short: "Show a goal and its milestones",
	Long: `Show a goal and its milestones.

<goal> is a full id, a unique id prefix, or the number shown by 'unfold list'.
A number that is not a valid list position is tried as an id prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := resolveGoal(app.Store.Goals(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), g)
		}
		printGoal(cmd.OutOrStdout(), g)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <goal> <milestone>",
	Short: "Mark a milestone done, or not done",
	Long: `Mark a milestone done, or not done.

<goal> and <milestone> are full ids, unique id prefixes, or 1-based positions
as printed by 'unfold list' and 'unfold show'. A number that is not a valid
position is tried as an id prefix.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := resolveGoal(app.Store.Goals(), args[0])
		if err != nil {
			return err
		}
		m, err := resolveMilestone(g, args[1])
		if err != nil {
			return err
		}

		updated, _ := app.Store.ToggleMilestone(g.ID, m.ID)
		if err := app.Store.PersistErr(); err != nil {
			return fmt.Errorf("saving goals: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, updated)
		}
		state := "open"
		if !m.Completed {
			state = green("done")
		}
		fmt.Fprintf(out, "%s %s → %s\n", m.Text, faint("·"), state)
		fmt.Fprintf(out, "%s is at %d%%\n", bold(updated.Title), updated.Progress)
		if updated.IsBloomed() && !g.IsBloomed() {
			fmt.Fprintf(out, "%s It has bloomed.\n", green("✿"))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <goal> <status>",
	Short: "Set a goal's status (active, resting, flowing, paused)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := resolveGoal(app.Store.Goals(), args[0])
		if err != nil {
			return err
		}
		status, err := store.ParseGoalStatus(args[1])
		if err != nil {
			return err
		}

		updated, _ := app.Store.SetStatus(g.ID, status)
		if err := app.Store.PersistErr(); err != nil {
			return fmt.Errorf("saving goals: %w", err)
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", green("✓"), bold(updated.Title), statusColor(updated.Status))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <goal>",
	Short: "Remove a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := resolveGoal(app.Store.Goals(), args[0])
		if err != nil {
			return err
		}
		app.Store.DeleteGoal(g.ID)
		if err := app.Store.PersistErr(); err != nil {
			return fmt.Errorf("saving goals: %w", err)
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]string{"deleted": g.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Let go of %s\n", green("✓"), bold(g.Title))
		return nil
	},
}

// explain turns companion errors into messages that say what to do next.
func explain(err error) error {
	switch {
	case errors.Is(err, companion.ErrNotOnboarded):
		return fmt.Errorf("%w (or use 'unfold onboard')", err)
	case errors.Is(err, companion.ErrNothingToReflect):
		return fmt.Errorf("%w; plant an intention first", err)
	case errors.Is(err, oracle.ErrUnavailable):
		return fmt.Errorf("%w; set %s or choose a provider in config.yaml", err, app.Config.APIKeyEnv())
	}
	return err
}

func init() {
	rootCmd.AddCommand(plantCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
}
