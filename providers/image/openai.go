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

// OpenAIProvider 使用 OpenAI DALL-E 执行图像生成.
// 结果为服务商托管的 URL。
type OpenAIProvider struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAIProvider 创建新的 OpenAI 图像提供商.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "dall-e-3"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIProvider{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(timeout),
	}
}

func (p *OpenAIProvider) Name() string { return "openai-image" }

type dalleRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
}

type dalleResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

// Generate 从文本提示生成图像。
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body := dalleRequest{
		Model:  p.cfg.Model,
		Prompt: req.Prompt,
		N:      req.N,
		Size:   req.Size,
	}
	if body.N == 0 {
		body.N = 1
	}
	if body.Size == "" {
		body.Size = "1024x1024"
	}
	if req.Quality != "" {
		body.Quality = req.Quality
	} else {
		body.Quality = "standard"
	}

	payload, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		strings.TrimRight(p.cfg.BaseURL, "/")+"/v1/images/generations",
		bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrUpstream, "failed to create request").
			WithProvider(p.Name()).WithCause(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstream, "dalle request failed").
			WithProvider(p.Name()).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, types.NewError(types.ErrUpstream,
			"dalle error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(p.Name()).WithHTTPStatus(resp.StatusCode)
	}

	var dResp dalleResponse
	if err := json.NewDecoder(resp.Body).Decode(&dResp); err != nil {
		return nil, types.NewError(types.ErrUpstream, "failed to decode dalle response").
			WithProvider(p.Name()).WithCause(err)
	}

	images := make([]ImageData, len(dResp.Data))
	for i, d := range dResp.Data {
		images[i] = ImageData{URL: d.URL, B64JSON: d.B64JSON}
	}

	return &GenerateResponse{
		Provider:  p.Name(),
		Model:     p.cfg.Model,
		Images:    images,
		CreatedAt: time.Unix(dResp.Created, 0),
	}, nil
}
