package meshy

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

// Client 对接 Meshy openapi/v1 的 image-to-3d 与 remesh 两类任务.
// 提交与查询都是单次请求；轮询节奏由调用方驱动，客户端不含任何定时器。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建 Meshy 客户端.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.meshy.ai/openapi/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meshy-5"
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

func (c *Client) Name() string { return "meshy" }

type imageTo3DRequest struct {
	ImageURL      string `json:"image_url"`
	AIModel       string `json:"ai_model"`
	Topology      string `json:"topology"`
	ShouldRemesh  bool   `json:"should_remesh"`
	ShouldTexture bool   `json:"should_texture"`
	EnablePBR     bool   `json:"enable_pbr"`
}

// RemeshRequest 描述一次 remesh / 格式导出任务。
// InputTaskID 与 ModelURL 二选一，由上层校验。
type RemeshRequest struct {
	InputTaskID     string   `json:"input_task_id,omitempty"`
	ModelURL        string   `json:"model_url,omitempty"`
	TargetPolycount int      `json:"target_polycount"`
	Topology        string   `json:"topology"`
	TargetFormats   []string `json:"target_formats"`
}

type submitResponse struct {
	Result string `json:"result"`
}

// TaskError 是任务失败时 vendor 附带的错误信息。
type TaskError struct {
	Message string `json:"message"`
}

// TaskPayload 是 Meshy 任务状态接口的原始响应。
// 状态值为大写（PENDING / IN_PROGRESS / SUCCEEDED / FAILED / EXPIRED / CANCELED）。
type TaskPayload struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Progress     int               `json:"progress"`
	ModelURLs    map[string]string `json:"model_urls"`
	ThumbnailURL string            `json:"thumbnail_url"`
	TaskError    TaskError         `json:"task_error"`
}

// CreateImageTo3DTask 提交一次图像转 3D 重建，返回任务 id。
// 图像引用既可以是托管 URL，也可以是 data URI，Meshy 两者都收。
func (c *Client) CreateImageTo3DTask(ctx context.Context, imageRef string) (string, error) {
	body := imageTo3DRequest{
		ImageURL:      imageRef,
		AIModel:       c.cfg.Model,
		Topology:      "triangle",
		ShouldRemesh:  true,
		ShouldTexture: true,
		EnablePBR:     true,
	}
	return c.submit(ctx, "/image-to-3d", body)
}

// CreateRemeshTask 提交一次 remesh / 格式导出，返回任务 id。
func (c *Client) CreateRemeshTask(ctx context.Context, req RemeshRequest) (string, error) {
	if req.TargetPolycount == 0 {
		req.TargetPolycount = 30000
	}
	if req.Topology == "" {
		req.Topology = "triangle"
	}
	if len(req.TargetFormats) == 0 {
		req.TargetFormats = []string{"glb"}
	}
	return c.submit(ctx, "/remesh", req)
}

func (c *Client) submit(ctx context.Context, path string, body any) (string, error) {
	payload, _ := json.Marshal(body)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to create request").
			WithProvider(c.Name()).WithCause(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", types.NewError(types.ErrUpstream, "meshy request failed").
			WithProvider(c.Name()).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return "", types.NewError(types.ErrUpstream,
			"meshy error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(c.Name()).WithHTTPStatus(resp.StatusCode)
	}

	var sResp submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sResp); err != nil {
		return "", types.NewError(types.ErrUpstream, "failed to decode meshy response").
			WithProvider(c.Name()).WithCause(err)
	}
	if sResp.Result == "" {
		return "", types.NewError(types.ErrUpstream, "meshy response has no task id").
			WithProvider(c.Name())
	}
	return sResp.Result, nil
}

// GetImageTo3DTask 查询一次重建任务状态。
// 传输层失败返回可重试的 POLL_TRANSPORT，与任务本身 FAILED 严格区分。
func (c *Client) GetImageTo3DTask(ctx context.Context, taskID string) (*TaskPayload, error) {
	return c.status(ctx, "/image-to-3d/"+taskID)
}

// GetRemeshTask 查询一次 remesh 任务状态。
func (c *Client) GetRemeshTask(ctx context.Context, taskID string) (*TaskPayload, error) {
	return c.status(ctx, "/remesh/"+taskID)
}

func (c *Client) status(ctx context.Context, path string) (*TaskPayload, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, types.NewError(types.ErrPollTransport, "failed to create request").
			WithProvider(c.Name()).WithCause(err).WithRetryable(true)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrPollTransport, "meshy status request failed").
			WithProvider(c.Name()).WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, types.NewError(types.ErrPollTransport,
			"meshy status error: status="+resp.Status+" body="+string(errBody)).
			WithProvider(c.Name()).WithHTTPStatus(resp.StatusCode).WithRetryable(true)
	}

	var payload TaskPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, types.NewError(types.ErrPollTransport, "failed to decode meshy status").
			WithProvider(c.Name()).WithCause(err).WithRetryable(true)
	}
	return &payload, nil
}
