package image

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

// StabilityProvider 使用 Stability AI SDXL 执行图像生成.
// 结果为自包含的 base64 data URI，与 OpenAIProvider 的 URL 结果互换使用。
type StabilityProvider struct {
	cfg    StabilityConfig
	client *http.Client
}

// NewStabilityProvider 创建新的 Stability 图像提供商.
func NewStabilityProvider(cfg StabilityConfig) *StabilityProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stability.ai"
	}
	if cfg.Engine == "" {
		cfg.Engine = "stable-diffusion-xl-1024-v1-0"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &StabilityProvider{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(timeout),
	}
}

func (p *StabilityProvider) Name() string { return "stability" }

type stabilityTextPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CFGScale    float64               `json:"cfg_scale"`
	Height      int                   `json:"height"`
	Width       int                   `json:"width"`
	Samples     int                   `json:"samples"`
	Steps       int                   `json:"steps"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		Seed         int64  `json:"seed"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Generate 从文本提示生成图像。
func (p *StabilityProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: req.Prompt}},
		CFGScale:    req.CFGScale,
		Height:      1024,
		Width:       1024,
		Samples:     req.N,
		Steps:       req.Steps,
	}
	if body.CFGScale == 0 {
		body.CFGScale = 7
	}
	if body.Samples == 0 {
		body.Samples = 1
	}
	if body.Steps == 0 {
		body.Steps = 30
	}

	payload, _ := json.Marshal(body)
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") +
		"/v1/generation/" + p.cfg.Engine + "/text-to-image"

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrUpstream, "failed to create request").
			WithProvider(p.Name()).WithCause(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstream, "stability request failed").
			WithProvider(p.Name()).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, types.NewError(types.ErrUpstream,
			"stability error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(p.Name()).WithHTTPStatus(resp.StatusCode)
	}

	var sResp stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&sResp); err != nil {
		return nil, types.NewError(types.ErrUpstream, "failed to decode stability response").
			WithProvider(p.Name()).WithCause(err)
	}

	images := make([]ImageData, len(sResp.Artifacts))
	for i, a := range sResp.Artifacts {
		images[i] = ImageData{B64JSON: a.Base64}
	}

	return &GenerateResponse{
		Provider:  p.Name(),
		Model:     p.cfg.Engine,
		Images:    images,
		CreatedAt: time.Now(),
	}, nil
}
