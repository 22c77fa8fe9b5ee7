package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/unfold/pkg/store"
)

var saveReflection bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bloomed, flowing and harmony",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := store.ComputeStats(app.Store.Goals())
		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, stats)
		}
		fmt.Fprintf(out, "%s %d\n", cyan("Bloomed:"), stats.Bloomed)
		fmt.Fprintf(out, "%s %d\n", cyan("Flowing:"), stats.Flowing)
		fmt.Fprintf(out, "%s %d%%\n", cyan("Harmony:"), stats.Harmony)
		fmt.Fprintf(out, "%s %d\n", faint("Goals:"), stats.Total)
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Show how focus points connect to your direction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals := app.Store.Goals()
		out := cmd.OutOrStdout()
		if jsonOutput {
			links := store.DeriveLinks(goals)
			if links == nil {
				links = []store.Link{}
			}
			return outputJSON(out, links)
		}

		n := store.BuildNetwork(goals)
		if n.Anchor == nil {
			fmt.Fprintln(out, "No direction set yet. Plant a long-term intention to anchor your focus points.")
			for _, g := range n.Unlinked {
				fmt.Fprintf(out, "  ○ %s\n", g.Title)
			}
			return nil
		}

		fmt.Fprintf(out, "%s %s\n", cyan("◆"), bold(n.Anchor.Title))
		for i, g := range n.Attached {
			branch := "├─"
			if i == len(n.Attached)-1 {
				branch = "└─"
			}
			fmt.Fprintf(out, "  %s %s %s\n", faint(branch), g.Title, faint(fmt.Sprintf("%d%%", g.Progress)))
		}
		if len(n.Others) > 0 {
			fmt.Fprintf(out, "\n%s\n", faint("Other directions"))
			for _, g := range n.Others {
				fmt.Fprintf(out, "  ◇ %s\n", g.Title)
			}
		}
		fmt.Fprintf(out, "\n%s\n", faint(fmt.Sprintf("%d links", n.LinkCount)))
		return nil
	},
}

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Ask the companion to reflect on your goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !jsonOutput {
			fmt.Fprintln(out, faint("Gathering reflections..."))
		}

		r, err := app.Companion.Reflect(cmd.Context())
		if err != nil {
			return explain(err)
		}
		if saveReflection {
			if r, err = app.Companion.SaveReflection(); err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(out, r)
		}
		fmt.Fprintf(out, "\n%s\n\n%s\n\n", cyan("Reflection"), r.Content)
		fmt.Fprintf(out, "%s\n", faint(fmt.Sprintf("Harmony %d%% across %d goals", r.Harmony, r.GoalCount)))
		if r.FilePath != "" {
			fmt.Fprintf(out, "%s Saved to %s\n", green("✓"), r.FilePath)
		}
		return nil
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List saved reflections, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := app.Journal.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			if entries == nil {
				entries = []store.Reflection{}
			}
			return outputJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "The journal is empty. Save a reflection with 'unfold reflect --save'.")
			return nil
		}
		for _, r := range entries {
			fmt.Fprintf(out, "%s  %s  %s\n",
				cyan(r.Date.Local().Format("2006-01-02")),
				faint(fmt.Sprintf("harmony %3d%%", r.Harmony)),
				firstLine(r.Content))
		}
		return nil
	},
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > 72 {
		s = string(r[:71]) + "…"
	}
	return s
}

func init() {
	reflectCmd.Flags().BoolVar(&saveReflection, "save", false, "save the reflection to the journal")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(journalCmd)
}
