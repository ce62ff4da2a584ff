package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/pipeline"
)

// =============================================================================
// 🎨 图像生成接口 Handler
// =============================================================================

// GenerateRequest 图像生成请求
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateHandler 图像生成处理器
type GenerateHandler struct {
	orch   *pipeline.Orchestrator
	logger *zap.Logger
}

// NewGenerateHandler 创建图像生成处理器
func NewGenerateHandler(orch *pipeline.Orchestrator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{orch: orch, logger: logger}
}

// HandleGenerate 处理双路图像生成请求
// @Summary 生成参考图
// @Description 对提示词做归一化后并发请求两路图像生成，各自去除背景
// @Tags 生成
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "生成请求"
// @Success 200 {object} Response "会话与两张图像"
// @Failure 400 {object} Response "无效请求"
// @Failure 500 {object} Response "生成失败"
// @Router /generate-images [post]
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	start := time.Now()
	res, err := h.orch.StartGeneration(r.Context(), req.Prompt)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	h.logger.Info("images generated",
		zap.String("session_id", res.SessionID),
		zap.Duration("duration", time.Since(start)),
	)
	WriteSuccess(w, res)
}
