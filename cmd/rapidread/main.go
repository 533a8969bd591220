// Package main provides the CLI entrypoint for rapidread.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/rapidread/internal/acquire"
	"github.com/verte-zerg/rapidread/internal/config"
	"github.com/verte-zerg/rapidread/internal/logging"
	"github.com/verte-zerg/rapidread/internal/model"
	"github.com/verte-zerg/rapidread/internal/reader"
	"github.com/verte-zerg/rapidread/internal/stats"
	"github.com/verte-zerg/rapidread/internal/store"
	"github.com/verte-zerg/rapidread/internal/tui"
)

const (
	backendSQLite = "sqlite"
	backendBadger = "badger"

	defaultSaveIntervalMs = 500
	defaultFetchTimeout   = 15
	defaultFetchMaxBytes  = 5 << 20
	defaultLogLevel       = "info"
	defaultStatsWindow    = 10
)

var (
	readWPM          int
	readSaveInterval int
	storageBackend   string
	storagePath      string
	fetchTimeout     int
	fetchMaxBytes    int64
	fetchUserAgent   string
	logLevel         string
	logFile          string

	statsSince  string
	statsLast   int
	statsWindow int
)

// settings is the resolved configuration of one invocation.
type settings struct {
	reader   model.Config
	logLevel string
	logFile  string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rapidread [text | file | url]",
		Short:         "Speed reader that flashes one word at a time",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().IntVar(&readWPM, "wpm", model.DefaultWPM, "reading rate in words per minute")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "backend", backendSQLite, "session store backend (sqlite or badger)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "db", "", "session store path (SQLite file or Badger directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newForgetCmd())

	return rootCmd
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	readSaveInterval = defaultSaveIntervalMs
	fetchTimeout = defaultFetchTimeout
	fetchMaxBytes = defaultFetchMaxBytes
	fetchUserAgent = ""
	logFile = config.DefaultLogPath()

	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reader.WPM)
	applyIntConfig(cmd, "save-interval-ms", &readSaveInterval, fileCfg.Reader.SaveIntervalMs)
	applyStringConfig(cmd, "backend", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "db", &storagePath, fileCfg.Storage.Path)
	applyIntConfig(cmd, "timeout-seconds", &fetchTimeout, fileCfg.Fetch.TimeoutSeconds)
	applyInt64Config(cmd, "max-bytes", &fetchMaxBytes, fileCfg.Fetch.MaxBytes)
	applyStringConfig(cmd, "user-agent", &fetchUserAgent, fileCfg.Fetch.UserAgent)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	s := settings{
		reader: model.Config{
			WPM:          readWPM,
			SaveInterval: time.Duration(readSaveInterval) * time.Millisecond,
			Backend:      strings.ToLower(strings.TrimSpace(storageBackend)),
			StorePath:    storagePath,
			FetchTimeout: time.Duration(fetchTimeout) * time.Second,
			FetchMax:     fetchMaxBytes,
			UserAgent:    fetchUserAgent,
		},
		logLevel: logLevel,
		logFile:  logFile,
	}
	if s.reader.StorePath == "" {
		s.reader.StorePath = defaultStorePath(s.reader.Backend)
	}
	if err := validateConfig(s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := s.reader

	logger, closeLog, err := logging.New(logging.Options{Level: s.logLevel, File: s.logFile})
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	history, slot, closeStores, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	fetcher := acquire.NewFetcher(acquire.Options{
		Timeout:   cfg.FetchTimeout,
		MaxBytes:  cfg.FetchMax,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	bridge := tui.NewBridge()
	engine := reader.New(reader.Options{
		Dispatch:     bridge.Dispatch,
		Fetcher:      fetcher,
		Persister:    store.NewSessionStore(slot, logger),
		History:      history,
		Logger:       logger,
		WPM:          cfg.WPM,
		SaveInterval: cfg.SaveInterval,
	})
	defer func() {
		engine.Close()
		bridge.Close()
	}()

	logger.Info("reader started", "backend", cfg.Backend, "store", cfg.StorePath, "wpm", cfg.WPM)
	m := tui.NewModel(tui.Options{
		Engine:  engine,
		Bridge:  bridge,
		Logger:  logger,
		Initial: strings.Join(args, " "),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openStores opens the history database and the session slot. With the
// sqlite backend both live in the same database.
func openStores(cfg model.Config, logger *slog.Logger) (*store.Store, store.KV, func(), error) {
	historyPath := config.DefaultDBPath()
	if cfg.Backend == backendSQLite {
		historyPath = cfg.StorePath
	}
	st, err := store.Open(historyPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeDB := func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "error", cerr)
		}
	}
	if cfg.Backend == backendSQLite {
		return st, st, closeDB, nil
	}

	slot, err := store.OpenBadger(cfg.StorePath)
	if err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return st, slot, func() {
		if cerr := slot.Close(); cerr != nil {
			logger.Warn("failed to close badger store", "error", cerr)
		}
		closeDB()
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N reads")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	statsCfg, err := parseStatsConfig()
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{Level: s.logLevel, Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	st, _, closeStores, err := openStores(s.reader, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	report, err := stats.BuildReport(commandContext(cmd), st, statsCfg)
	if err != nil {
		return fmt.Errorf("failed to load reads: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), stats.TerminalWidth())
}

func parseStatsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.StatsConfig{
		Since:  sinceTime,
		Last:   statsLast,
		Window: statsWindow,
	}, nil
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Clear the saved reading session",
		Args:  cobra.NoArgs,
		RunE:  runForgetCmd,
	}
}

func runForgetCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{Level: s.logLevel, Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	_, slot, closeStores, err := openStores(s.reader, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	if err := store.NewSessionStore(slot, logger).Clear(commandContext(cmd)); err != nil {
		return err
	}
	return writeLine(cmd.OutOrStdout(), "Saved session cleared.")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeLine(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func defaultStorePath(backend string) string {
	if backend == backendBadger {
		return config.DefaultBadgerDir()
	}
	return config.DefaultDBPath()
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rapidread configuration
# Uncomment a value to enable it. CLI flags override config values.

[reader]
# wpm = %d                  # Words per minute (%d-%d)
# save-interval-ms = %d     # Quiet period before progress is saved

[storage]
# backend = %q         # Session store: "sqlite" or "badger"
# path = ""                 # SQLite file or Badger directory

[fetch]
# timeout-seconds = %d       # URL fetch timeout
# max-bytes = %d       # Largest file or page accepted
# user-agent = ""

[log]
# level = %q             # debug, info, warn or error
# file = %q
`,
		model.DefaultWPM,
		model.MinWPM,
		model.MaxWPM,
		defaultSaveIntervalMs,
		backendSQLite,
		defaultFetchTimeout,
		defaultFetchMaxBytes,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(s settings) error {
	cfg := s.reader
	if cfg.WPM < model.MinWPM || cfg.WPM > model.MaxWPM {
		return fmt.Errorf("--wpm must be between %d and %d", model.MinWPM, model.MaxWPM)
	}
	if cfg.SaveInterval <= 0 {
		return fmt.Errorf("save-interval-ms must be > 0")
	}
	if cfg.Backend != backendSQLite && cfg.Backend != backendBadger {
		return fmt.Errorf("--backend must be %q or %q", backendSQLite, backendBadger)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("timeout-seconds must be > 0")
	}
	if cfg.FetchMax <= 0 {
		return fmt.Errorf("max-bytes must be > 0")
	}
	if _, err := logging.ParseLevel(s.logLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}
