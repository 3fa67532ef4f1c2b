// Command toolstream-server exposes internal/toolparse over HTTP: create a
// session, feed it chunks, and observe emitted blocks either as
// Server-Sent Events or over a WebSocket.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toolstream/internal/config"
	"toolstream/internal/logging"
	"toolstream/internal/toolsession"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("toolstream-server: config load failed, using defaults:", err)
		cfg = config.Defaults()
	}
	logger := logging.NewComponentLogger("toolstream-server", logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracer, err := newTracer(ctx, cfg)
	if err != nil {
		logger.Error("tracing setup failed: %v", err)
		return
	}
	defer shutdownTracer(context.Background())

	registry := prometheus.NewRegistry()
	metrics := newServerMetrics(registry)

	sessions, err := toolsession.NewManager(cfg.MaxSessions, logger)
	if err != nil {
		logger.Error("session manager setup failed: %v", err)
		return
	}
	defer sessions.Close()

	h := &handlers{sessions: sessions, metrics: metrics, tracer: tracer, logger: logger, defaultRelaxed: cfg.RelaxedMode}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if cfg.CORSEnabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
		corsConfig.AllowWebSockets = true
		router.Use(cors.New(corsConfig))
	}
	v1 := router.Group("/v1")
	v1.POST("/sessions", h.createSession)
	v1.POST("/sessions/:id/chunks", h.feedChunkSSE)
	v1.GET("/sessions/:id/stream", h.streamWebSocket)

	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsRouter}

	go func() {
		logger.Info("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error: %v", err)
		}
	}()
	go func() {
		logger.Info("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
