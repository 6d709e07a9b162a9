package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/devitrack/config"
	"github.com/mmdatafocus/devitrack/middlewares"
	"github.com/mmdatafocus/devitrack/store"
	"github.com/sirupsen/logrus"
)

func corsConfig(cfg config.AppConfig) cors.Config {
	corsConfig := cors.DefaultConfig()
	if cfg.Production {
		corsConfig.AllowOrigins = cfg.CorsAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", middlewares.CorrelationIdHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", middlewares.CorrelationIdHeader)
	return corsConfig
}

func newRouter(cfg config.AppConfig, repo deviationStore, logger *logrus.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	a := &api{
		store:       repo,
		logger:      logger,
		storageMode: cfg.Storage.String(),
	}

	r := gin.New()
	r.Use(middlewares.CorrelationID())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// Production without CORS_ALLOWED_ORIGINS serves same-origin callers only.
	if !cfg.Production || len(cfg.CorsAllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg)))
	}
	r.Use(extra...)
	r.Use(middlewares.ErrorLogger(logger))
	r.Use(gin.Recovery())

	apiGroup := r.Group("/api")
	apiGroup.GET("/deviations", a.listDeviations)
	apiGroup.POST("/deviations", a.createDeviation)
	apiGroup.DELETE("/deviations/:id", a.deleteDeviation)
	apiGroup.GET("/form/defaults", a.formDefaults)
	apiGroup.POST("/form/summary", a.formSummary)
	apiGroup.GET("/dashboard", a.dashboard)
	apiGroup.GET("/views/:view", a.view)
	apiGroup.GET("/export.xlsx", a.exportExcel)

	r.NoRoute(middlewares.NotFound)
	return r
}

func main() {
	cfg := config.Load()
	logger := config.GetLogger()
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	repo, closeStore, err := store.Open(sigCtx, cfg, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "store"}).Fatal("failed to open store: " + err.Error())
	}
	defer closeStore()

	var extra []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.Fallback.RedisAddress == "" {
			logger.WithFields(logrus.Fields{"field": "ratelimit"}).Warn("RATE_LIMIT_ENABLED=true but REDIS_ADDRESS is empty; rate limiting disabled")
		} else if rdb, _, rerr := config.ConnectRedis(sigCtx, cfg.Fallback.RedisAddress); rerr != nil {
			logger.WithFields(logrus.Fields{"field": "ratelimit"}).Warn("redis unavailable; rate limiting disabled: " + rerr.Error())
		} else {
			defer rdb.Close()
			extra = append(extra, middlewares.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window).Middleware)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, repo, logger, extra...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"info":    "Server started",
		"port":    cfg.Port,
		"storage": cfg.Storage.String(),
	}).Info("listening on :" + cfg.Port)

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
