package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"timecard-reconciliation-backend/internal/clients/payroll"
	"timecard-reconciliation-backend/internal/clients/pos"
	"timecard-reconciliation-backend/internal/clients/venuecache"
	"timecard-reconciliation-backend/internal/config"
	handler "timecard-reconciliation-backend/internal/handlers"
	"timecard-reconciliation-backend/internal/metrics"
	"timecard-reconciliation-backend/internal/notify"
	"timecard-reconciliation-backend/internal/report"
	"timecard-reconciliation-backend/internal/secrets"
	service "timecard-reconciliation-backend/internal/services/reconciliation"
)

// RegisterRoutes wires the full dependency graph from config and mounts the
// API. It fails fast when credentials cannot be resolved; a down venue
// cache is tolerated because the directory falls back to the static list.
func RegisterRoutes(r *gin.Engine, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var sources secrets.Chain
	if cfg.Vault.Addr != "" && cfg.Vault.Token != "" {
		vaultSrc, err := secrets.NewVaultSource(cfg.Vault.Addr, cfg.Vault.Token, cfg.Vault.Mount, cfg.Vault.Path)
		if err != nil {
			return fmt.Errorf("vault source: %w", err)
		}
		sources = append(sources, vaultSrc)
	}
	sources = append(sources, secrets.EnvSource{})

	creds, err := sources.Credentials(context.Background())
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}

	var cacheClient venuecache.StringGetter
	if cfg.Venues.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Venues.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		cacheClient = redis.NewClient(opts)
	}
	fallback, err := venuecache.LoadFallback(cfg.Venues.FallbackFile)
	if err != nil {
		return fmt.Errorf("load fallback venues: %w", err)
	}
	venues := venuecache.New(cacheClient, fallback, logger)

	posClient := pos.NewClient(pos.Config{
		BaseURL:      cfg.POS.BaseURL,
		ClientID:     creds.POSClientID,
		ClientSecret: creds.POSClientSecret,
		StaticToken:  creds.POSStaticToken,
		FanOut:       cfg.POS.FanOut,
	}, venues, nil, logger)

	payrollClient := payroll.NewClient(payroll.Config{
		BaseURL:    cfg.Payroll.BaseURL,
		Tenant:     cfg.Payroll.Tenant,
		Report:     cfg.Payroll.Report,
		ReportType: cfg.Payroll.ReportType,
		Username:   creds.PayrollUsername,
		Password:   creds.PayrollPassword,
	}, nil, logger)

	notifier := notify.NewSlackWebhook(cfg.Slack.WebhookURL, nil, logger)
	var mailer service.Mailer
	if cfg.Email.From != "" && len(cfg.Email.To) > 0 {
		mailer = notify.NewLogMailer(cfg.Email.From, cfg.Email.To, logger)
	}

	sink := report.FileSink{Dir: cfg.ReportDir}
	reconService := service.NewService(
		posClient,
		payrollClient,
		notifier,
		mailer,
		sink,
		logger,
		metrics.NewRecorder(),
	)

	reconHandler := handler.NewReconciliationHandler(reconService, sink)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	recon := api.Group("/reconciliation")
	recon.POST("/run", reconHandler.Run)
	recon.POST("/run/daily", reconHandler.RunDaily)
	recon.GET("/reports", reconHandler.ListReports)
	recon.GET("/reports/:name", reconHandler.GetReport)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return nil
}
