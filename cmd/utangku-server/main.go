package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rakhadi/utangku/internal/cache"
	"github.com/rakhadi/utangku/internal/config"
	"github.com/rakhadi/utangku/internal/server"
	"github.com/rakhadi/utangku/internal/store"
	"github.com/rakhadi/utangku/pkg/constants"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Environment overrides for secrets; missing .env is fine in production.
	_ = godotenv.Load(".env")

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.BuildLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var debts store.DebtRepository
	var installments store.InstallmentRepository
	if conf.Database.Host != "" {
		pg, err := store.NewPostgresStore(conf.Database.DSN())
		if err != nil {
			logger.Fatal("failed to connect to postgres",
				zap.String("op", "main"),
				zap.String("host", conf.Database.Host),
				zap.Error(err),
			)
		}
		debts, installments = pg, pg
		logger.Info("using postgres store", zap.String("host", conf.Database.Host))
	} else {
		mem := store.NewMemoryStore()
		debts, installments = mem, mem
		logger.Info("no database configured, using in-memory store")
	}

	var c cache.Cache
	if conf.Cache.Address != "" {
		c = cache.NewRedisCache(conf.Cache.Address, time.Duration(conf.Cache.TTLSec)*time.Second)
		logger.Info("using redis cache", zap.String("address", conf.Cache.Address))
	} else {
		c = cache.NewMockCache()
		logger.Info("no cache configured, using in-process cache")
	}

	engine := server.New(logger, conf, debts, installments, c)
	logger.Info("starting server", zap.String("address", conf.Server.Address))
	if err := engine.Run(conf.Server.Address); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
