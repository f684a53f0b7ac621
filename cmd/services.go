package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/fast-cli/internal/adapters/notification"
	"github.com/xvierd/fast-cli/internal/adapters/storage"
	"github.com/xvierd/fast-cli/internal/config"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
	"github.com/xvierd/fast-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	storage  ports.Storage
	fasting  *services.FastingService
	history  *services.HistoryService
	state    *services.StateService
	notifier *notification.Notifier
	config   *config.Config
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		app.config = config.DefaultConfig()
	}

	if err := logging.Initialize(debugMode || app.config.Log.Debug, app.config.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug logging disabled: %v\n", err)
	}

	catalog, err := app.config.Catalog()
	if err != nil {
		return fmt.Errorf("invalid protocol catalog: %w", err)
	}

	app.notifier = notification.New(&app.config.Notifications)

	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.fasting = services.NewFastingService(app.storage, catalog)
	app.fasting.SetNotifier(app.notifier)
	app.fasting.SetAutoFinalize(app.config.AutoFinalize)
	if app.config.DefaultProtocol != "" {
		app.fasting.SetDefaultProtocol(app.config.DefaultProtocol)
	}

	app.history = services.NewHistoryService(app.storage)
	app.history.SetGoals(app.config.DomainGoals())

	app.state = services.NewStateService(app.storage)
	app.state.SetFastingService(app.fasting)
	app.state.SetHistoryService(app.history)

	logging.Logger.Debug("services initialized", "db", path, "protocols", len(catalog.All()))
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		err := app.storage.Close()
		app = appDeps{}
		return err
	}
	return nil
}

// setupSignalHandler returns a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
