package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/unfold/pkg/store"
	"github.com/stefanpenner/unfold/pkg/tui"
)

var (
	profileName     string
	profilePace     string
	profilePriority string
	profileBlockers []string
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create your profile without the interactive view",
	Long: `Create the profile that onboarding would collect.

Example:
  unfold onboard --name Ada --pace slow --priority "writing" --blocker time --blocker focus`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.Store.HasProfile() {
			return fmt.Errorf("already onboarded; use 'unfold profile set' to change your profile")
		}

		p := store.Profile{
			Name:      strings.TrimSpace(profileName),
			Pace:      store.PaceBalanced,
			Priority:  strings.TrimSpace(profilePriority),
			Blockers:  cleanList(profileBlockers),
			Onboarded: true,
		}
		if p.Name == "" {
			p.Name = tui.DefaultName
		}
		if profilePace != "" {
			pace, err := store.ParsePace(profilePace)
			if err != nil {
				return err
			}
			p.Pace = pace
		}

		app.Store.SetProfile(p)
		if err := app.Store.PersistErr(); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, p)
		}
		fmt.Fprintf(out, "%s Welcome, %s.\n", green("✓"), p.Name)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := app.Store.Profile()
		if !ok {
			return fmt.Errorf("no profile yet; run 'unfold' or 'unfold onboard'")
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), p)
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change fields of your profile",
	Long: `Change fields of your profile. Only the flags you pass are changed.
Passing --blocker replaces the whole blocker list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		var pace store.Pace
		if flags.Changed("pace") {
			p, err := store.ParsePace(profilePace)
			if err != nil {
				return err
			}
			pace = p
		}

		p, ok := app.Store.UpdateProfile(func(p *store.Profile) {
			if flags.Changed("name") && strings.TrimSpace(profileName) != "" {
				p.Name = strings.TrimSpace(profileName)
			}
			if pace != "" {
				p.Pace = pace
			}
			if flags.Changed("priority") {
				p.Priority = strings.TrimSpace(profilePriority)
			}
			if flags.Changed("blocker") {
				p.Blockers = cleanList(profileBlockers)
			}
		})
		if !ok {
			return fmt.Errorf("no profile yet; run 'unfold onboard' first")
		}
		if err := app.Store.PersistErr(); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), p)
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&profileName, "name", "", "what the companion calls you")
	cmd.Flags().StringVar(&profilePace, "pace", "", "slow, balanced or intense")
	cmd.Flags().StringVar(&profilePriority, "priority", "", "what you want to focus on")
	cmd.Flags().StringArrayVar(&profileBlockers, "blocker", nil, "something that gets in your way (repeatable)")
}

func init() {
	addProfileFlags(onboardCmd)
	addProfileFlags(profileSetCmd)

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(profileCmd)
}
