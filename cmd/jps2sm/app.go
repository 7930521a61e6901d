package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/config"
	"github.com/damonjavert/jps2sm-sub000/internal/controllers"
	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/services/jps"
	"github.com/damonjavert/jps2sm-sub000/internal/services/sugoi"
	"github.com/damonjavert/jps2sm-sub000/internal/utils"
)

// appContext carries the persistent flags and the lazily built runtime
// shared by every subcommand.
type appContext struct {
	configDir string
	dryRun    bool
	debug     bool
}

// runtime is the fully wired application: config, database, site clients
// and controllers.
type runtime struct {
	cfg       *config.Config
	db        *models.Database
	jpsClient *jps.Client
	smClient  *sugoi.Client
	migrate   *controllers.MigrateController
	batch     *controllers.BatchController
	logger    *logrus.Logger
}

func (a *appContext) bootstrap() (*runtime, error) {
	if a.configDir != "" {
		os.Setenv("CONFIG_DIR", a.configDir)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}
	logger := utils.NewLogger(level)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	blacklist, err := utils.LoadBlacklist(cfg.BlacklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blacklist, continuing without it")
		blacklist = &utils.Blacklist{}
	}

	jpsClient, err := jps.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	smClient, err := sugoi.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	migrate := controllers.NewMigrateController(cfg, db, jpsClient, smClient, blacklist, stdinPrompt, a.dryRun, logger)
	batch := controllers.NewBatchController(cfg, migrate, jpsClient, logger)

	return &runtime{
		cfg:       cfg,
		db:        db,
		jpsClient: jpsClient,
		smClient:  smClient,
		migrate:   migrate,
		batch:     batch,
		logger:    logger,
	}, nil
}

func (r *runtime) Close() {
	r.db.Close()
}

// stdinPrompt asks the operator to pick a category on the terminal. An
// empty answer keeps the default.
func stdinPrompt(candidates []models.Category) (string, error) {
	fmt.Printf("Multiple categories possible: %v\n", candidates)
	fmt.Print("Enter category (empty for Fansubs): ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
