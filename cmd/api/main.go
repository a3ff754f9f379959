package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/memberops/memberops-api/internal/api/http"
	"github.com/memberops/memberops-api/internal/api/http/handlers"
	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/config"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/observability"
	"github.com/memberops/memberops-api/internal/persistence"
	"github.com/memberops/memberops-api/internal/repository"
	"github.com/memberops/memberops-api/internal/repository/memory"
	"github.com/memberops/memberops-api/internal/service"
	"github.com/memberops/memberops-api/internal/worker"
)

func main() {
	resetDB := flag.Bool("reset-db", false, "drop and recreate the schema, load demo data, then exit")
	seed := flag.Bool("seed", false, "load demo data when the database has no staff")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store  repository.Store
		checks []handlers.ReadinessCheck
	)
	switch cfg.Store.Driver {
	case config.StoreMemory:
		mem := memory.NewStore()
		store = mem
		checks = append(checks, handlers.ReadinessCheck{Name: "store", Ping: mem.Ping})
		if *resetDB {
			logger.Info("memory store selected; nothing to reset")
			return
		}
		if _, err := persistence.Seed(ctx, store, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed memory store", zap.Error(err))
		}
	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		store = repository.NewPostgresStore(pg.Pool)
		checks = append(checks, handlers.ReadinessCheck{Name: "postgres", Ping: pg.Ping})

		if *resetDB {
			if err := resetDatabase(ctx, pg, store, cfg.Auth.BcryptCost, logger); err != nil {
				logger.Fatal("failed to reset database", zap.Error(err))
			}
			return
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		if *seed {
			if _, err := persistence.Seed(ctx, store, cfg.Auth.BcryptCost, logger); err != nil {
				logger.Fatal("failed to seed database", zap.Error(err))
			}
		}
	}

	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if redis := persistence.NewRedis(ctx, cfg.Redis, logger); redis != nil {
		defer redis.Close()
		revocations = auth.NewRedisRevocationStore(redis.Client)
		checks = append(checks, handlers.ReadinessCheck{Name: "redis", Ping: redis.Ping})
	}

	metrics := observability.NewMetrics(cfg.App.Version)
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	worker.StartMetricsWorker(dispatcher, metrics)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.Auth.AccessTokenTTL())
	auditService := service.NewAuditService(service.AuditDependencies{Store: store})
	authService := service.NewAuthService(service.AuthDependencies{
		Store:       store,
		Tokens:      tokens,
		Revocations: revocations,
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	})
	memberService := service.NewMemberService(service.MemberDependencies{Store: store, Audit: auditService, Dispatcher: dispatcher})
	flagService := service.NewFlagService(service.FlagDependencies{Store: store, Audit: auditService, Dispatcher: dispatcher})
	requestService := service.NewServiceRequestService(service.ServiceRequestDependencies{Store: store, Audit: auditService, Dispatcher: dispatcher})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Auth:            handlers.NewAuthHandler(authService),
		Members:         handlers.NewMembersHandler(memberService),
		Flags:           handlers.NewFlagsHandler(flagService),
		ServiceRequests: handlers.NewServiceRequestsHandler(requestService),
		AuditLog:        handlers.NewAuditLogHandler(auditService),
		Staff:           handlers.NewStaffHandler(service.NewStaffService(store)),
		AuthMiddleware:  auth.NewAuthMiddleware(tokens, revocations),
		Metrics:         metrics,

		LoginRatePerSecond: cfg.Auth.LoginRatePerSecond,
		LoginBurst:         cfg.Auth.LoginBurst,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
}

func resetDatabase(ctx context.Context, pg *persistence.Postgres, store repository.Store, bcryptCost int, logger *zap.Logger) error {
	if err := persistence.DropSchema(ctx, pg.Pool, logger); err != nil {
		return err
	}
	if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
		return err
	}
	_, err := persistence.Seed(ctx, store, bcryptCost, logger)
	return err
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
