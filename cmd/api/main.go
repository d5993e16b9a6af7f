package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/config"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger.Init(cfg.Log)

	// Environment overrides for container deployments.
	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	if port := os.Getenv("API_PORT"); port != "" {
		addr = ":" + port
	}
	staticDir := cfg.Server.StaticDir
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		staticDir = dir
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var runs store.RunRepository
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/runs"
	}
	if repo, err := store.NewBadgerRepository(dataDir); err != nil {
		logger.S().Warnw("run store unavailable, continuing without persistence",
			"dir", dataDir, "err", err)
	} else {
		runs = repo
		defer repo.Close()
	}

	router := api.NewRouter(api.Deps{
		Runs:        runs,
		CORSOrigins: cfg.Server.CORSOrigins,
		StaticDir:   staticDir,
	})

	logger.S().Infow("starting api server", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.S().Fatalw("server exited", "err", err)
	}
}
