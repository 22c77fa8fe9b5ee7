package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/unfold/pkg/config"
	"github.com/stefanpenner/unfold/pkg/tui"
)

var (
	dataDirFlag string
	jsonOutput  bool

	// app is opened before every command and closed after it.
	app *App
)

var rootCmd = &cobra.Command{
	Use:   "unfold",
	Short: "A calm goal companion for the terminal",
	Long: `unfold keeps your intentions, breaks them into gentle milestones with the
help of a language model, and reflects on how they are unfolding.

Run without arguments to open the interactive view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := OpenApp(dataDirFlag)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(app)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "dir", "", "data directory (default $UNFOLD_DIR or the OS data dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app != nil {
			app.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(a *App) error {
	m := tui.NewModel(a.Companion)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Pick up changes made by the CLI while the TUI is open
	filter := tui.RecordFiles
	if a.Config.Storage == config.StorageSQLite {
		filter = tui.DatabaseFiles(dbPath(a.DataDir))
	}
	cleanup, err := tui.StartWatcher(a.DataDir, p, filter, a.Log.With("component", "watcher"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
