// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/fundwatch-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/fundwatch/internal/clients/eastmoney"
	"github.com/bobmcallan/fundwatch/internal/clients/fundgz"
	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
	"github.com/bobmcallan/fundwatch/internal/services/fund"
	"github.com/bobmcallan/fundwatch/internal/services/position"
	"github.com/bobmcallan/fundwatch/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.Storage
	Funds       interfaces.FundService
	Positions   interfaces.PositionService
	StartupTime time.Time

	refreshCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FUNDWATCH_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FUNDWATCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "fundwatch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/fundwatch.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage and log paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	fileStore, err := storage.NewFileStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	valuationClient := fundgz.NewClient(
		fundgz.WithBaseURL(config.Clients.Fundgz.BaseURL),
		fundgz.WithLogger(logger),
		fundgz.WithRateLimit(config.Clients.Fundgz.RateLimit),
		fundgz.WithTimeout(config.Clients.Fundgz.GetTimeout()),
	)

	eastmoneyClient := eastmoney.NewClient(
		eastmoney.WithHistoryBaseURL(config.Clients.Eastmoney.HistoryBaseURL),
		eastmoney.WithDetailBaseURL(config.Clients.Eastmoney.DetailBaseURL),
		eastmoney.WithLogger(logger),
		eastmoney.WithRateLimit(config.Clients.Eastmoney.RateLimit),
		eastmoney.WithTimeout(config.Clients.Eastmoney.GetTimeout()),
	)

	fundService := fund.NewService(
		valuationClient,
		eastmoneyClient,
		eastmoneyClient,
		fileStore,
		config.Funds.Tracked,
		config.Funds.GetCacheWindow(),
		logger,
	)
	positionService := position.NewService(fileStore, fundService, logger)

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     fileStore,
		Funds:       fundService,
		Positions:   positionService,
		StartupTime: startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close stops background tasks.
func (a *App) Close() {
	a.StopRefreshScheduler()
}
