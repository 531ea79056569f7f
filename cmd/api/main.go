package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-platform/internal/agent"
	"crm-platform/internal/audit"
	"crm-platform/internal/auth"
	"crm-platform/internal/config"
	"crm-platform/internal/lead"
	"crm-platform/internal/pricing"
	"crm-platform/internal/settings"
	"crm-platform/internal/sms"
	"crm-platform/internal/stats"
	"crm-platform/pkg/logger"
	"crm-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Services, wired bottom-up: pricing feeds leads and stats, agents feed
	// stats and the SMS gateway lookup.
	pricingSvc := pricing.NewService(pricing.NewPostgresRepo(db))
	leadRepo := lead.NewPostgresRepo(db)
	leadSvc := lead.NewService(leadRepo, pricingSvc)
	agentSvc := agent.NewService(agent.NewPostgresRepo(db), authManager)
	statsSvc := stats.NewService(leadRepo, agentSvc, pricingSvc)
	settingsSvc := settings.NewService(settings.NewPostgresRepo(db))
	auditSvc := audit.NewService(audit.NewPostgresRepo(db))
	smsSvc := sms.NewService(
		sms.NewPostgresRepo(db),
		sms.NewHTTPBridge(cfg.Bridge.RequestTimeout),
		leadRepo,
		agentSvc,
		rdb,
		cfg.Bridge.SendConcurrency,
	)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, deps{
		authMW:   auth.RequireAccessToken(authManager),
		auditMW:  audit.Record(auditSvc),
		leads:    lead.Handlers{Service: leadSvc},
		pricing:  pricing.Handlers{Service: pricingSvc},
		stats:    stats.Handlers{Service: statsSvc},
		sms:      sms.Handlers{Service: smsSvc},
		agents:   agent.Handlers{Service: agentSvc},
		settings: settings.Handlers{Service: settingsSvc},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
