package config

import (
	"fmt"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	// Server 服务器配置
	Server ServerConfig `yaml:"server" env:"SERVER"`

	// Log 日志配置
	Log LogConfig `yaml:"log" env:"LOG"`

	// Redis artifact-store backend
	Redis RedisConfig `yaml:"redis" env:"REDIS"`

	// Database session-repository backend
	Database DatabaseConfig `yaml:"database" env:"DATABASE"`

	// Artifact 选择 artifact store 后端
	Artifact ArtifactConfig `yaml:"artifact" env:"ARTIFACT"`

	// Session 选择 session repository 后端
	Session SessionConfig `yaml:"session" env:"SESSION"`

	// Providers 外部生成服务配置
	Providers ProvidersConfig `yaml:"providers" env:"PROVIDERS"`

	// Auth 鉴权配置
	Auth AuthConfig `yaml:"auth" env:"AUTH"`

	// RateLimit 限流配置
	RateLimit RateLimitConfig `yaml:"rate_limit" env:"RATE_LIMIT"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	MetricsPort     int           `yaml:"metrics_port" env:"METRICS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// AllowedOrigins CORS 来源白名单
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // json, console
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	PoolSize int    `yaml:"pool_size" env:"POOL_SIZE"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver   string `yaml:"driver" env:"DRIVER"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	Name     string `yaml:"name" env:"NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
	// Path is the sqlite file path when Driver is sqlite.
	Path string `yaml:"path" env:"PATH"`
}

// DSN returns the postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// ArtifactConfig artifact store 后端选择
type ArtifactConfig struct {
	// Backend is memory, redis or fs.
	Backend string `yaml:"backend" env:"BACKEND"`
	// Dir is the storage root when Backend is fs.
	Dir string `yaml:"dir" env:"DIR"`
}

// SessionConfig session repository 后端选择
type SessionConfig struct {
	// Backend is memory or database.
	Backend string `yaml:"backend" env:"BACKEND"`
}

// ProvidersConfig 外部生成服务配置
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai" env:"OPENAI"`
	Stability StabilityConfig `yaml:"stability" env:"STABILITY"`
	RemoveBG  RemoveBGConfig  `yaml:"removebg" env:"REMOVEBG"`
	Meshy     MeshyConfig     `yaml:"meshy" env:"MESHY"`
}

// OpenAIConfig OpenAI 配置（图像生成与翻译共用）
type OpenAIConfig struct {
	APIKey         string        `yaml:"api_key" env:"API_KEY"`
	BaseURL        string        `yaml:"base_url" env:"BASE_URL"`
	ImageModel     string        `yaml:"image_model" env:"IMAGE_MODEL"`
	TranslateModel string        `yaml:"translate_model" env:"TRANSLATE_MODEL"`
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// StabilityConfig Stability AI 配置
type StabilityConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Engine  string        `yaml:"engine" env:"ENGINE"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// RemoveBGConfig remove.bg 配置
type RemoveBGConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// MeshyConfig Meshy 配置
type MeshyConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Model   string        `yaml:"model" env:"MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// AuthConfig 鉴权配置
type AuthConfig struct {
	// APIKeys 静态 API key 白名单；为空时关闭 API key 校验
	APIKeys []string `yaml:"api_keys" env:"API_KEYS"`
	// JWT 可选的 JWT 校验
	JWT JWTConfig `yaml:"jwt" env:"JWT"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Secret  string `yaml:"secret" env:"SECRET"`
	Issuer  string `yaml:"issuer" env:"ISSUER"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" env:"ENABLED"`
	RPS     float64 `yaml:"rps" env:"RPS"`
	Burst   int     `yaml:"burst" env:"BURST"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// Validate 检查配置一致性
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics_port: %d", c.Server.MetricsPort)
	}
	switch c.Artifact.Backend {
	case "memory", "redis", "fs":
	default:
		return fmt.Errorf("invalid artifact backend: %q", c.Artifact.Backend)
	}
	if c.Artifact.Backend == "fs" && c.Artifact.Dir == "" {
		return fmt.Errorf("artifact backend fs requires dir")
	}
	switch c.Session.Backend {
	case "memory", "database":
	default:
		return fmt.Errorf("invalid session backend: %q", c.Session.Backend)
	}
	if c.Session.Backend == "database" {
		switch c.Database.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("invalid database driver: %q", c.Database.Driver)
		}
	}
	if c.Auth.JWT.Enabled && c.Auth.JWT.Secret == "" {
		return fmt.Errorf("jwt enabled but secret is empty")
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("telemetry enabled but otlp_endpoint is empty")
	}
	return nil
}
