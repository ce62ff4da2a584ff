// 包 image 提供统一的图像生成提供者接口.
package image

import (
	"context"
	"time"
)

// GenerateRequest 代表图像生成请求。
type GenerateRequest struct {
	Prompt   string  `json:"prompt"`
	N        int     `json:"n,omitempty"`         // Number of images
	Size     string  `json:"size,omitempty"`      // 1024x1024 etc.
	Quality  string  `json:"quality,omitempty"`   // standard, hd
	Steps    int     `json:"steps,omitempty"`     // For SD
	CFGScale float64 `json:"cfg_scale,omitempty"` // Guidance scale
}

// GenerateResponse 代表图像生成的响应.
type GenerateResponse struct {
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Images    []ImageData `json:"images"`
	CreatedAt time.Time   `json:"created_at"`
}

// ImageData 代表生成的图像.
type ImageData struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// Reference 返回统一的图像引用：托管 URL 或自包含的 data URI。
// 下游阶段（背景去除、3D 重建）对两种形式一视同仁。
func (d ImageData) Reference() string {
	if d.URL != "" {
		return d.URL
	}
	if d.B64JSON != "" {
		return "data:image/png;base64," + d.B64JSON
	}
	return ""
}

// Provider 定义了图像生成提供者接口.
type Provider interface {
	// Generate 从文本提示生成图像。
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name 返回提供者名称。
	Name() string
}
