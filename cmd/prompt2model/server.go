package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model"
	"github.com/BaSui01/prompt2model/api/handlers"
	"github.com/BaSui01/prompt2model/config"
	"github.com/BaSui01/prompt2model/internal/metrics"
	"github.com/BaSui01/prompt2model/internal/server"
	"github.com/BaSui01/prompt2model/internal/telemetry"
	"github.com/BaSui01/prompt2model/pipeline"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 组装整条流水线并管理 HTTP / metrics 两个服务器的生命周期
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	orchestrator  *pipeline.Orchestrator
	healthHandler *handlers.HealthHandler

	collector     *metrics.Collector
	otelProviders *telemetry.Providers

	rateLimiterCancel context.CancelFunc
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
	}
}

// Start 装配依赖并启动所有服务
func (s *Server) Start() error {
	s.collector = metrics.NewCollector(prometheus.DefaultRegisterer)

	if err := s.initPipeline(); err != nil {
		return fmt.Errorf("failed to init pipeline: %w", err)
	}
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("all servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)
	return nil
}

// =============================================================================
// 🔧 装配
// =============================================================================

func (s *Server) initPipeline() error {
	orch, err := prompt2model.NewOrchestrator(s.cfg, s.collector, s.logger)
	if err != nil {
		return err
	}
	s.orchestrator = orch

	s.logger.Info("pipeline assembled",
		zap.String("artifact_backend", s.cfg.Artifact.Backend),
		zap.String("session_backend", s.cfg.Session.Backend),
	)
	return nil
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

func (s *Server) startHTTPServer() error {
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	gen := handlers.NewGenerateHandler(s.orchestrator, s.logger)
	model := handlers.NewModelHandler(s.orchestrator, s.logger)

	mux := http.NewServeMux()

	// 健康与版本
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// 流水线路由
	mux.HandleFunc("POST /generate-images", gen.HandleGenerate)
	mux.HandleFunc("POST /select-image", model.HandleSelect)
	mux.HandleFunc("GET /model-status/{task_id}", model.HandleModelStatus)
	mux.HandleFunc("POST /remesh-model", model.HandleRemesh)
	mux.HandleFunc("GET /remesh-status/{task_id}", model.HandleRemeshStatus)
	mux.HandleFunc("POST /convert-to-stl", model.HandleConvertToSTL)
	mux.HandleFunc("GET /download-model/{task_id}", model.HandleDownloadModel)
	mux.HandleFunc("GET /download-stl/{task_id}", model.HandleDownloadSTL)
	mux.HandleFunc("GET /proxy-model/{task_id}/{filename}", model.HandleProxyModel)

	// 中间件链
	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version"}
	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.collector),
		OTelTracing(),
		CORS(s.cfg.Server.AllowedOrigins),
	}
	if s.cfg.RateLimit.Enabled {
		rlCtx, cancel := context.WithCancel(context.Background())
		s.rateLimiterCancel = cancel
		middlewares = append(middlewares,
			RateLimiter(rlCtx, s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst, s.logger))
	}
	middlewares = append(middlewares,
		APIKeyAuth(s.cfg.Auth.APIKeys, skipAuthPaths, s.logger),
		JWTAuth(s.cfg.Auth.JWT, skipAuthPaths, s.logger),
	)
	handler := Chain(mux, middlewares...)

	s.httpManager = server.NewManager(handler, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     s.cfg.Server.IdleTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	return s.httpManager.Start()
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())

	s.metricsManager = server.NewManager(mux, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	return s.metricsManager.Start()
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("starting graceful shutdown")
	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}
	if s.otelProviders != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.otelProviders.Shutdown(flushCtx); err != nil {
			s.logger.Error("telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("graceful shutdown completed")
}
