// Package wire provides dependency injection for revlint.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"

	cliadapter "github.com/example/revlint/internal/adapters/cli"
	"github.com/example/revlint/internal/adapters/sqlite"
	"github.com/example/revlint/internal/app"
	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/db"
	"github.com/example/revlint/internal/logging"
	"github.com/example/revlint/internal/ports/primary"
)

var (
	settings       *config.Settings
	logger         *slog.Logger
	terminal       *cliadapter.Terminal
	sweepService   primary.SweepService
	fixPackService primary.FixPackService
	clearService   primary.ClearService
	queueService   primary.QueueService
	configService  primary.ConfigService
	runService     primary.RunService

	settingsOnce sync.Once
	once         sync.Once
)

// Settings returns the process settings, loaded once.
func Settings() *config.Settings {
	settingsOnce.Do(loadSettings)
	return settings
}

// Logger returns the operational logger.
func Logger() *slog.Logger {
	settingsOnce.Do(loadSettings)
	return logger
}

func loadSettings() {
	s, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	settings = s
	logger = logging.NewLogger(s.Logging.Level, os.Stderr)
	if !s.Output.Color {
		color.NoColor = true
	}
	db.Configure(s.Database.Path)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	s := Settings()
	lg := Logger()

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	itemStore := sqlite.NewItemStore(database)
	prefRepo := sqlite.NewPreferenceRepository(database)
	runRepo := sqlite.NewRunRepository(database)
	logRepo := sqlite.NewLintLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)
	terminal = cliadapter.NewTerminal(os.Stdin, os.Stdout, s.Queue.Opener)

	// Create effect executor with injected repositories
	executor := app.NewEffectExecutor(itemStore, logWriter, lg)

	// Create services (primary ports implementation)
	sweepService = app.NewSweepService(itemStore, prefRepo, logWriter, executor, runRepo, lg)
	fixPackService = app.NewFixPackService(itemStore, prefRepo, logWriter, executor, terminal, runRepo, lg)
	clearService = app.NewClearService(itemStore, prefRepo, executor, terminal, runRepo, lg)
	queueService = app.NewQueueService(itemStore, prefRepo, terminal, s.Queue.URLTemplate, lg)
	configService = app.NewConfigService(prefRepo, itemStore)
	runService = app.NewRunService(runRepo, logRepo)
}

// LintAdapter returns a new LintAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func LintAdapter() *cliadapter.LintAdapter {
	return LintAdapterWithOutput(os.Stdout)
}

// LintAdapterWithOutput returns a new LintAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func LintAdapterWithOutput(out io.Writer) *cliadapter.LintAdapter {
	once.Do(initServices)
	return cliadapter.NewLintAdapter(sweepService, fixPackService, clearService, queueService, terminal, out)
}

// ConfigAdapter returns a new ConfigAdapter writing to stdout.
func ConfigAdapter() *cliadapter.ConfigAdapter {
	once.Do(initServices)
	return cliadapter.NewConfigAdapter(configService, os.Stdout)
}

// RunAdapter returns a new RunAdapter writing to stdout.
func RunAdapter() *cliadapter.RunAdapter {
	once.Do(initServices)
	return cliadapter.NewRunAdapter(runService, os.Stdout)
}
