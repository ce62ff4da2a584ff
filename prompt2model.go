// Package prompt2model wires the full prompt → image → 3D pipeline from a
// single configuration value.
//
// Usage:
//
//	import "github.com/BaSui01/prompt2model"
//
//	cfg, _ := config.NewLoader().Load()
//	orch, err := prompt2model.NewOrchestrator(cfg, nil, logger)
//	res, err := orch.StartGeneration(ctx, "a red wooden chair")
//
// The HTTP service in cmd/prompt2model is a thin boundary over the same
// orchestrator; use this package when embedding the pipeline directly.
package prompt2model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/config"
	"github.com/BaSui01/prompt2model/internal/artifact"
	"github.com/BaSui01/prompt2model/internal/metrics"
	"github.com/BaSui01/prompt2model/internal/session"
	"github.com/BaSui01/prompt2model/pipeline"
	"github.com/BaSui01/prompt2model/providers/image"
	"github.com/BaSui01/prompt2model/providers/meshy"
	"github.com/BaSui01/prompt2model/providers/removebg"
	"github.com/BaSui01/prompt2model/providers/translate"
)

// NewOrchestrator assembles the pipeline from configuration: image
// providers, background removal, translation, the 3D vendor client and the
// configured artifact / session backends. collector may be nil.
func NewOrchestrator(cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	artifacts, err := NewArtifactStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	sessions, err := NewSessionRepository(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("session repository: %w", err)
	}

	p := cfg.Providers
	return pipeline.New(pipeline.Options{
		ProviderA: image.NewOpenAIProvider(image.OpenAIConfig{
			APIKey:  p.OpenAI.APIKey,
			BaseURL: p.OpenAI.BaseURL,
			Model:   p.OpenAI.ImageModel,
			Timeout: p.OpenAI.Timeout,
		}),
		ProviderB: image.NewStabilityProvider(image.StabilityConfig{
			APIKey:  p.Stability.APIKey,
			BaseURL: p.Stability.BaseURL,
			Engine:  p.Stability.Engine,
			Timeout: p.Stability.Timeout,
		}),
		Remover: removebg.NewClient(removebg.Config{
			APIKey:  p.RemoveBG.APIKey,
			BaseURL: p.RemoveBG.BaseURL,
			Timeout: p.RemoveBG.Timeout,
		}),
		Translator: translate.NewOpenAITranslator(translate.Config{
			APIKey:  p.OpenAI.APIKey,
			BaseURL: p.OpenAI.BaseURL,
			Model:   p.OpenAI.TranslateModel,
			Timeout: p.OpenAI.Timeout,
		}),
		Models: meshy.NewClient(meshy.Config{
			APIKey:  p.Meshy.APIKey,
			BaseURL: p.Meshy.BaseURL,
			Model:   p.Meshy.Model,
			Timeout: p.Meshy.Timeout,
		}),
		Artifacts: artifacts,
		Sessions:  sessions,
		Metrics:   collector,
		Logger:    logger,
	}), nil
}

// NewArtifactStore builds the configured artifact backend
// (memory, redis or fs).
func NewArtifactStore(cfg *config.Config, logger *zap.Logger) (artifact.Store, error) {
	switch cfg.Artifact.Backend {
	case "redis":
		return artifact.NewRedisStore(artifact.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}, logger)
	case "fs":
		return artifact.NewFSStore(cfg.Artifact.Dir)
	default:
		return artifact.NewMemoryStore(), nil
	}
}

// NewSessionRepository builds the configured session backend
// (memory or database).
func NewSessionRepository(cfg *config.Config, logger *zap.Logger) (session.Repository, error) {
	if cfg.Session.Backend != "database" {
		return session.NewMemoryRepository(), nil
	}

	dsn := cfg.Database.Path
	if cfg.Database.Driver == "postgres" {
		dsn = cfg.Database.DSN()
	}
	return session.NewGormRepository(session.Config{
		Driver: cfg.Database.Driver,
		DSN:    dsn,
	}, logger)
}
