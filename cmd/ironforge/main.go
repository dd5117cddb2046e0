package main

import (
	"os"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/api"
	"github.com/Techlemariam/IronForge-sub002/internal/config"
	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/logging"
	"github.com/Techlemariam/IronForge-sub002/internal/service"
	"github.com/Techlemariam/IronForge-sub002/internal/session"
	"github.com/Techlemariam/IronForge-sub002/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	checkEnvVars([]string{constants.EnvSessionSecret})

	// Load game configuration file (required). Path may be provided via
	// IRONFORGE_CONFIG env var or defaults to ./ironforge_config.json in
	// the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./ironforge_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": configPath, "hint": "create an ironforge_config.json with a 'boss_list' array of boss objects (name,level,max_hp) and optional keys: server.address, flee_cost, sweep_interval_minutes, session_store"})
	}

	// Allow the DB path to be configured via IRONFORGE_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/ironforge.db"
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg.Bosses)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)

	var sessions session.Store
	if cfg.SessionStore == "database" {
		sessions = session.NewDBStore(db)
	} else {
		sessions = session.NewMemoryStore()
	}

	provider := &service.AccountAttributeProvider{Repo: repo}
	handler := api.NewArenaHandler(repo, sessions, provider, cfg.FleeCost)

	// Background sweeper: stale pending challenges are declined and duels
	// past their window are force-resolved so no duel dangles forever.
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create scheduler", err, nil)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Duration(cfg.SweepIntervalMinutes)*time.Minute),
		gocron.NewTask(func() {
			service.SweepExpiredDuels(repo, repo, time.Now())
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule duel sweeper", err, nil)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteAuthLogin, handler.Login)
		apiRoutes.GET(constants.RouteVersion, handler.Version)
		apiRoutes.GET(constants.RouteBosses, handler.ListBosses)
		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteEncounters, handler.StartEncounter)
		protected.POST(constants.RouteEncounterAction, handler.SubmitAction)
		protected.POST(constants.RouteEncounterFlee, handler.Flee)

		protected.POST(constants.RouteDuels, handler.CreateDuel)
		protected.GET(constants.RouteDuels, handler.ListDuels)
		protected.POST(constants.RouteDuelAccept, handler.AcceptDuel)
		protected.POST(constants.RouteDuelDecline, handler.DeclineDuel)
		protected.POST(constants.RouteDuelProgress, handler.ReportDuelProgress)
		protected.POST(constants.RouteDuelAction, handler.DuelAction)

		protected.GET(constants.RouteRankedOpponent, handler.FindRankedOpponent)
		protected.POST(constants.RouteRankedResult, handler.SubmitMatchResult)
		protected.GET(constants.RouteRankedMe, handler.RankedMe)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
