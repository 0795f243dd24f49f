package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpctx "github.com/certzilla/auth-server/internal/api/http/context"
	"github.com/certzilla/auth-server/internal/api/http/router"
	httpserver "github.com/certzilla/auth-server/internal/api/http/server"
	"github.com/certzilla/auth-server/internal/config"
	"github.com/certzilla/auth-server/internal/hashing"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/notification"
	"github.com/certzilla/auth-server/internal/repository/postgres"
	redisrepo "github.com/certzilla/auth-server/internal/repository/redis"
	"github.com/certzilla/auth-server/internal/server"
	"github.com/certzilla/auth-server/internal/service"
	storage "github.com/certzilla/auth-server/internal/storage/minio"
	"github.com/certzilla/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.IsProduction(), cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync() //nolint:errcheck

	logAppVersion(logger)

	userStore, closeStore, err := newUserStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize user store", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore.Close()

	hasher, err := hashing.New(cfg.Hash)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	mailer, err := newMailer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize mail gateway", "driver", cfg.Mail.Driver, "error", err)
	}
	defer mailer.Close()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := service.NewAuth(userStore, hasher, tokenManager, mailer, logger)

	r := router.New(authService, tokenManager, httpctx.NewManager(), cfg.HTTP.CORSAllowedOrigins, logger)
	httpServer := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), httpserver.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return serve(httpServer, server.NewSecurityLayer(cfg.HTTP), logger)
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("received interruption signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func serve(s model.Server, sl model.SecurityLayer, logger *logger.Logger) error {
	logger.Info("Starting server on", "address", s.Address())
	if err := s.Start(sl); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newUserStore connects the configured backend and returns it with its closer.
func newUserStore(ctx context.Context, cfg *config.Config) (model.UserStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverRedis:
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewUserRepository(client, cfg.Redis.KeyPrefix), client, nil
	default:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(conn), conn, nil
	}
}

// newMailer builds the configured mail driver, wrapped in the object storage
// archive when enabled.
func newMailer(ctx context.Context, cfg *config.Config, logger *logger.Logger) (notification.Driver, error) {
	driver, err := notification.New(ctx, cfg.Mail, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.Mail.ArchiveEnabled {
		return driver, nil
	}

	storageClient, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to initialize mail archive: %w", err)
	}

	return notification.NewArchive(driver, storageClient, logger), nil
}

func logAppVersion(logger *logger.Logger) {
	logger.Info("Build info",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit)
}
