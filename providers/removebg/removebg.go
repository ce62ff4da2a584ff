// 包 removebg 对接 remove.bg 的背景去除 API。
// 输入为图像引用（URL 或 data URI），输出恒为 PNG data URI。
package removebg

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/prompt2model/internal/datauri"
	"github.com/BaSui01/prompt2model/internal/tlsutil"
	"github.com/BaSui01/prompt2model/types"
)

// Config configures the remove.bg client.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultConfig returns default remove.bg config.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.remove.bg",
		Timeout: 60 * time.Second,
	}
}

// Client 调用 remove.bg /v1.0/removebg.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建 remove.bg 客户端.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.remove.bg"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(timeout),
	}
}

func (c *Client) Name() string { return "removebg" }

// RemoveBackground 去除图像背景。
// data URI 输入先解码为原始字节，以 image_file 上传；
// URL 输入以 image_url 表单字段透传。
func (c *Client) RemoveBackground(ctx context.Context, imageRef string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if datauri.IsDataURI(imageRef) {
		mediaType, raw, err := datauri.Decode(imageRef)
		if err != nil {
			return "", types.NewError(types.ErrUpstream, "invalid data URI input").
				WithProvider(c.Name()).WithCause(err)
		}
		part, err := writer.CreateFormFile("image_file", datauri.Filename(mediaType))
		if err != nil {
			return "", types.NewError(types.ErrUpstream, "failed to build upload").
				WithProvider(c.Name()).WithCause(err)
		}
		if _, err := part.Write(raw); err != nil {
			return "", types.NewError(types.ErrUpstream, "failed to build upload").
				WithProvider(c.Name()).WithCause(err)
		}
	} else {
		_ = writer.WriteField("image_url", imageRef)
	}
	_ = writer.WriteField("size", "auto")
	writer.Close()

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1.0/removebg"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, &buf)
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to create request").
			WithProvider(c.Name()).WithCause(err)
	}
	httpReq.Header.Set("X-Api-Key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "removebg request failed").
			WithProvider(c.Name()).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", types.NewError(types.ErrUpstream,
			"removebg error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(c.Name()).WithHTTPStatus(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to read removebg response").
			WithProvider(c.Name()).WithCause(err)
	}
	return datauri.EncodePNG(raw), nil
}
