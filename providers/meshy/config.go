package meshy

import "time"

// Config configures the Meshy client.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultConfig returns default Meshy config.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.meshy.ai/openapi/v1",
		Model:   "meshy-5",
		Timeout: 60 * time.Second,
	}
}
