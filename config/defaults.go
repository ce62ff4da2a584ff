package config

import "time"

// Default 返回完整默认配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			MetricsPort:     9090,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			DB:       0,
			PoolSize: 10,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "prompt2model.db",
			Host:    "localhost",
			Port:    5432,
			User:    "prompt2model",
			Name:    "prompt2model",
			SSLMode: "disable",
		},
		Artifact: ArtifactConfig{
			Backend: "memory",
			Dir:     "temp_images",
		},
		Session: SessionConfig{
			Backend: "memory",
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				BaseURL:        "https://api.openai.com",
				ImageModel:     "dall-e-3",
				TranslateModel: "gpt-4o-mini",
				Timeout:        120 * time.Second,
			},
			Stability: StabilityConfig{
				BaseURL: "https://api.stability.ai",
				Engine:  "stable-diffusion-xl-1024-v1-0",
				Timeout: 120 * time.Second,
			},
			RemoveBG: RemoveBGConfig{
				BaseURL: "https://api.remove.bg",
				Timeout: 60 * time.Second,
			},
			Meshy: MeshyConfig{
				BaseURL: "https://api.meshy.ai/openapi/v1",
				Model:   "meshy-5",
				Timeout: 60 * time.Second,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "prompt2model",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}
