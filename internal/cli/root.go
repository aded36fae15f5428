package cli

import (
	"fmt"

	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	dataDir    string
	ephemeral  bool

	// cfg is loaded once per invocation by the root pre-run hook
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ironlist",
	Short: "ironlist - Terminal task list and shopping cart",
	Long: `ironlist keeps a prioritized task list and a shopping cart on this machine.
Every change is saved immediately.

Run 'ironlist' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		// Per-run overrides, never saved
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if ephemeral {
			cfg.Storage.Driver = config.DriverMemory
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("ironlist started", logger.F("command", cmd.Name()), logger.F("driver", cfg.Storage.Driver))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			logger.Error("Failed to open app", logger.F("error", err))
			return err
		}
		defer closeApp(cmd, app)

		logger.Info("Launching TUI")
		if err := tui.Run(app, cfg); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("ironlist exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Storage flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the database and catalog")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep everything in memory for this run")

	// Add subcommands
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(serveCmd)
}
