package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/citywatch/sentinel/internal/alert"
	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/lexicon"
	"github.com/citywatch/sentinel/internal/monitor"
	"github.com/citywatch/sentinel/internal/server"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	if err := run(logger); err != nil {
		logger.Fatal("sentinel exited with error", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	// ── Configuration ────────────────────────────────────────────────────────
	viper.SetConfigName("sentinel")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.rate_limit_requests", 30)
	viper.SetDefault("server.rate_limit_window", "60s")
	viper.SetDefault("server.cache_ttl", "5s")
	viper.SetDefault("log.max_entries", 0)
	viper.SetDefault("alerts.telegram_token", "")
	viper.SetDefault("alerts.telegram_chat_id", "")
	viper.SetDefault("alerts.report_interval", "24h")

	if err := viper.ReadInConfig(); err != nil {
		var cfgNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgNotFound) {
			return fmt.Errorf("read config: %w", err)
		}
		logger.Warn("no config file found, using defaults and env vars")
	}

	// ── Scoring engine ───────────────────────────────────────────────────────
	lex, err := lexicon.New()
	if err != nil {
		return fmt.Errorf("build lexicon: %w", err)
	}
	an := analyzer.New(lex)
	logger.Info("lexicon loaded",
		zap.Int("keywords", len(lex.Entries())),
		zap.Int("pattern_rules", len(lexicon.Rules())),
	)

	// ── Threat log ───────────────────────────────────────────────────────────
	var logOpts []threatlog.Option
	if maxEntries := viper.GetInt("log.max_entries"); maxEntries > 0 {
		logOpts = append(logOpts, threatlog.WithRetention(threatlog.MaxEntries(maxEntries)))
		logger.Info("threat log retention enabled", zap.Int("max_entries", maxEntries))
	}
	tlog := threatlog.New(logOpts...)

	// ── Alerting ─────────────────────────────────────────────────────────────
	var notifier alert.Notifier
	token := viper.GetString("alerts.telegram_token")
	chatID := viper.GetString("alerts.telegram_chat_id")
	if token != "" && chatID != "" {
		notifier = alert.NewTelegramNotifier(token, chatID, alert.DefaultTelegramAPI)
		logger.Info("telegram alerts configured")
	} else {
		notifier = alert.NewNoopNotifier(logger)
		logger.Info("alerts: noop (set alerts.telegram_token and alerts.telegram_chat_id to enable)")
	}

	// ── Monitor ──────────────────────────────────────────────────────────────
	mon := monitor.New(an, tlog, notifier, logger)
	mon.SetMetricsRecorder(server.RecordAnalysis)
	mon.SetAlertMetricsRecorder(server.RecordAlert)

	h := server.NewHandler(mon, version, logger)

	// ── HTTP Router ──────────────────────────────────────────────────────────
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsOrigins := viper.GetStringSlice("server.cors_origins")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(corsOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Request body size limit (1 MB)
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20)
		c.Next()
	})

	rateRequests := viper.GetInt("server.rate_limit_requests")
	rateWindow := viper.GetDuration("server.rate_limit_window")
	if rateRequests > 0 && rateWindow > 0 {
		router.Use(server.RateLimiter(rateRequests, rateWindow))
	}

	router.Use(server.PrometheusMiddleware())
	router.Use(requestLogger(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Sentinel",
			"status":  "operational",
			"version": version,
			"message": "Threat prediction system online",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", server.MetricsHandler())

	v1 := router.Group("/api/v1")
	h.Register(v1, viper.GetDuration("server.cache_ttl"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// ── Background: periodic summary report ──────────────────────────────────
	reportStop := make(chan struct{})
	if interval := viper.GetDuration("alerts.report_interval"); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					if err := notifier.SummaryReport(ctx, mon.Statistics()); err != nil {
						logger.Warn("summary report delivery failed", zap.Error(err))
					}
					cancel()
				case <-reportStop:
					return
				}
			}
		}()
	}

	httpPort := viper.GetInt("server.port")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("sentinel HTTP listening", zap.Int("port", httpPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP listen error", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	<-quit
	close(reportStop)
	logger.Info("shutting down sentinel...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}

	logger.Info("sentinel stopped")
	return nil
}

// containsWildcard returns true if origins includes "*".
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}

// requestLogger returns a Gin middleware that logs each request with zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
