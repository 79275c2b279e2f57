// PgWarp query-variables core: the variable store, placeholder expansion
// and autocomplete behind the desktop client, with a terminal host.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pgwarp/cmd/pgwarp/ui"
	"pgwarp/internal/config"
	"pgwarp/internal/logging"
	"pgwarp/internal/queries"
	"pgwarp/internal/vars"
)

var (
	// Global flags
	verbose   bool
	configDir string

	// Logger for CLI subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pgwarp",
	Short: "PgWarp - query variables for SQL workflows",
	Long: `PgWarp stores named variables and substitutes them into SQL text
via {{name}} placeholders, with autocomplete, persistence and
pre-execution validation.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir != "" {
			config.SetDir(configDir)
		}
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := logging.Initialize(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
		}

		// Skip the zap logger for interactive mode (it has its own UI)
		if cmd.Use == "pgwarp" && cmd.CalledAs() == "pgwarp" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Shutdown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// runInteractive boots the store from disk and starts the TUI. Saves are
// coalesced off the UI thread and flushed on exit; a watcher refreshes the
// store when another instance rewrites the variables file.
func runInteractive() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	fileStore, err := vars.NewFileStore("")
	if err != nil {
		return err
	}
	snapshot, err := fileStore.Load()
	if err != nil {
		return err
	}

	saver := vars.NewCoalescingSaver(fileStore)
	defer saver.Close()

	store := vars.NewStore(saver)
	if err := store.Refresh(snapshot); err != nil {
		return err
	}

	watcher, err := vars.NewWatcher(fileStore, store)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	queryMgr, err := queries.NewManager("")
	if err != nil {
		logging.Get(logging.CategoryBoot).Warn("saved queries unavailable: %v", err)
		queryMgr = nil
	}

	p := tea.NewProgram(
		ui.NewModel(store, queryMgr, settings.Theme),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

// openStore loads the variables file for CLI subcommands. Saves are
// synchronous: each mutation hits disk before the process exits.
func openStore() (*vars.Store, *vars.FileStore, error) {
	fileStore, err := vars.NewFileStore("")
	if err != nil {
		return nil, nil, err
	}
	snapshot, err := fileStore.Load()
	if err != nil {
		return nil, nil, err
	}
	store := vars.NewStore(fileStore)
	if err := store.Refresh(snapshot); err != nil {
		return nil, nil, err
	}
	return store, fileStore, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Override the PgWarp config directory")
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(expandCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
