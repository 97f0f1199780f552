package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourusername/language-enforcer/internal/config"
	"github.com/yourusername/language-enforcer/internal/handler"
	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/remote"
	"github.com/yourusername/language-enforcer/internal/repository"
	"github.com/yourusername/language-enforcer/internal/service"
	"github.com/yourusername/language-enforcer/pkg/dataapi"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.S().Error("load config", zap.Error(err))
		os.Exit(1)
	}

	if err = os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		zap.S().Error("create data dir", zap.Error(err), zap.String("dir", cfg.DataDir))
		os.Exit(1)
	}

	repo, err := repository.NewDB(filepath.Join(cfg.DataDir, "words.db"))
	if err != nil {
		zap.S().Error("open local store", zap.Error(err))
		os.Exit(1)
	}
	defer repo.Close()

	if err = repo.Up(); err != nil {
		zap.S().Error("run migrations", zap.Error(err))
		os.Exit(1)
	}

	authService := dataapi.NewAuthService(cfg.AuthClientID, cfg.AuthTokenURL)

	var canonical models.Remote
	switch cfg.Backend {
	case config.BackendPostgres:
		pg, err := remote.NewPostgres(cfg.DatabaseURL, 10, 20)
		if err != nil {
			zap.S().Error("connect to remote Postgres", zap.Error(err))
			os.Exit(1)
		}
		defer pg.Close()
		canonical = pg
	case config.BackendAPI:
		canonical = dataapi.NewClient(cfg.APIBaseURL)
	}

	svc := service.NewService(repo, canonical, cfg.BatchSize, cfg.DataDir)

	cli := handler.NewCLI(svc, authService, os.Stdin, os.Stdout)
	if err = cli.Run(context.Background()); err != nil {
		zap.S().Error("run cli", zap.Error(err))
		os.Exit(1)
	}
}
