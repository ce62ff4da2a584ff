// 包 translate 提供 best-effort 的提示词英译能力。
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/prompt2model/internal/tlsutil"
	"github.com/BaSui01/prompt2model/types"
)

// Config configures the OpenAI chat-completions translator.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultConfig returns default translator config.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.openai.com",
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}

// OpenAITranslator 通过 chat completions 把任意语言的提示词译为英文.
type OpenAITranslator struct {
	cfg    Config
	client *http.Client
}

// NewOpenAITranslator 创建翻译客户端.
func NewOpenAITranslator(cfg Config) *OpenAITranslator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &OpenAITranslator{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(timeout),
	}
}

func (t *OpenAITranslator) Name() string { return "openai-translate" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Translate 返回英文译文。失败由调用方回退到原文。
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	body := chatRequest{
		Model: t.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: `Translate to English: "` + text + `"`},
		},
	}

	payload, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		strings.TrimRight(t.cfg.BaseURL, "/")+"/v1/chat/completions",
		bytes.NewReader(payload))
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to create request").
			WithProvider(t.Name()).WithCause(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "translate request failed").
			WithProvider(t.Name()).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return "", types.NewError(types.ErrUpstream,
			"translate error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(t.Name()).WithHTTPStatus(resp.StatusCode)
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to decode translate response").
			WithProvider(t.Name()).WithCause(err)
	}
	if len(cResp.Choices) == 0 {
		return "", types.NewError(types.ErrUpstream, "translate response has no choices").
			WithProvider(t.Name())
	}
	return strings.TrimSpace(cResp.Choices[0].Message.Content), nil
}
