package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/pipeline"
	"github.com/BaSui01/prompt2model/types"
)

// =============================================================================
// 🧊 3D 模型接口 Handler
// =============================================================================

// SelectRequest 选图请求
type SelectRequest struct {
	SessionID string `json:"session_id"`
	Selected  string `json:"selected"` // image1 / image2
}

// RemeshRequest 减面 / 格式导出请求
type RemeshRequest struct {
	InputTaskID     string   `json:"input_task_id,omitempty"`
	ModelURL        string   `json:"model_url,omitempty"`
	TargetPolycount int      `json:"target_polycount,omitempty"`
	Topology        string   `json:"topology,omitempty"`
	TargetFormats   []string `json:"target_formats,omitempty"`
	SessionID       string   `json:"session_id,omitempty"`
}

// ConvertSTLRequest STL 导出请求
type ConvertSTLRequest struct {
	TaskID    string `json:"task_id"`
	SessionID string `json:"session_id,omitempty"`
}

// TaskResponse 异步任务提交响应
type TaskResponse struct {
	TaskID string `json:"task_id"`
}

// ModelHandler 3D 模型处理器
type ModelHandler struct {
	orch   *pipeline.Orchestrator
	logger *zap.Logger
}

// NewModelHandler 创建 3D 模型处理器
func NewModelHandler(orch *pipeline.Orchestrator, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{orch: orch, logger: logger}
}

// parseSlot 把请求里的选图标识映射为内部槽位。
// 未识别的值原样传下去，由编排层统一拒绝。
func parseSlot(selected string) types.Slot {
	switch strings.ToLower(selected) {
	case "image1", "1", "a":
		return types.SlotA
	case "image2", "2", "b":
		return types.SlotB
	default:
		return types.Slot(selected)
	}
}

// HandleSelect 处理选图请求
// @Summary 选择参考图
// @Description 将会话中的一张图像提交给 3D 重建
// @Tags 模型
// @Accept json
// @Produce json
// @Param request body SelectRequest true "选图请求"
// @Success 200 {object} Response "重建任务 id"
// @Failure 400 {object} Response "无效选择"
// @Failure 404 {object} Response "会话不存在"
// @Router /select-image [post]
func (h *ModelHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	taskID, err := h.orch.SelectImage(r.Context(), req.SessionID, parseSlot(req.Selected))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, TaskResponse{TaskID: taskID})
}

// HandleModelStatus 查询重建任务状态
// @Summary 重建状态
// @Description 查询一次 3D 重建任务的归一化状态
// @Tags 模型
// @Produce json
// @Param task_id path string true "任务 id"
// @Success 200 {object} Response "归一化状态"
// @Failure 502 {object} Response "状态查询失败"
// @Router /model-status/{task_id} [get]
func (h *ModelHandler) HandleModelStatus(w http.ResponseWriter, r *http.Request) {
	ns, err := h.orch.ReconstructionStatus(r.Context(), r.PathValue("task_id"))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, ns)
}

// HandleRemesh 提交减面 / 格式导出任务
// @Summary 减面导出
// @Description 针对已重建模型提交 remesh 任务
// @Tags 模型
// @Accept json
// @Produce json
// @Param request body RemeshRequest true "remesh 请求"
// @Success 200 {object} Response "remesh 任务 id"
// @Failure 400 {object} Response "任务来源非法"
// @Router /remesh-model [post]
func (h *ModelHandler) HandleRemesh(w http.ResponseWriter, r *http.Request) {
	var req RemeshRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	taskID, err := h.orch.RequestRemesh(r.Context(), pipeline.RemeshOptions{
		InputTaskID:     req.InputTaskID,
		ModelURL:        req.ModelURL,
		TargetPolycount: req.TargetPolycount,
		Topology:        req.Topology,
		TargetFormats:   req.TargetFormats,
		SessionID:       req.SessionID,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, TaskResponse{TaskID: taskID})
}

// HandleRemeshStatus 查询 remesh 任务状态
// @Summary remesh 状态
// @Tags 模型
// @Produce json
// @Param task_id path string true "任务 id"
// @Success 200 {object} Response "归一化状态"
// @Router /remesh-status/{task_id} [get]
func (h *ModelHandler) HandleRemeshStatus(w http.ResponseWriter, r *http.Request) {
	ns, err := h.orch.RemeshStatus(r.Context(), r.PathValue("task_id"))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, ns)
}

// HandleConvertToSTL 把已重建模型导出为 STL
// @Summary STL 导出
// @Description 以 target_formats=["stl"] 的 remesh 任务实现 STL 导出
// @Tags 模型
// @Accept json
// @Produce json
// @Param request body ConvertSTLRequest true "导出请求"
// @Success 200 {object} Response "remesh 任务 id"
// @Router /convert-to-stl [post]
func (h *ModelHandler) HandleConvertToSTL(w http.ResponseWriter, r *http.Request) {
	var req ConvertSTLRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	taskID, err := h.orch.RequestRemesh(r.Context(), pipeline.RemeshOptions{
		InputTaskID:   req.TaskID,
		TargetFormats: []string{"stl"},
		SessionID:     req.SessionID,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, TaskResponse{TaskID: taskID})
}

// HandleDownloadModel 下载重建模型文件
// @Summary 模型下载
// @Description 下载指定格式的模型文件，默认 glb，以附件返回
// @Tags 模型
// @Produce octet-stream
// @Param task_id path string true "任务 id"
// @Param format query string false "导出格式（默认 glb）"
// @Success 200 {file} file "模型文件"
// @Failure 404 {object} Response "格式不可用"
// @Failure 409 {object} Response "模型尚未就绪"
// @Router /download-model/{task_id} [get]
func (h *ModelHandler) HandleDownloadModel(w http.ResponseWriter, r *http.Request) {
	res, err := h.orch.DownloadModel(r.Context(), r.PathValue("task_id"), r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	h.streamFile(w, res, "attachment")
}

// HandleDownloadSTL 下载 remesh 任务的 STL 导出
// @Summary STL 下载
// @Tags 模型
// @Produce octet-stream
// @Param task_id path string true "remesh 任务 id"
// @Success 200 {file} file "STL 文件"
// @Router /download-stl/{task_id} [get]
func (h *ModelHandler) HandleDownloadSTL(w http.ResponseWriter, r *http.Request) {
	res, err := h.orch.DownloadSTL(r.Context(), r.PathValue("task_id"))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	h.streamFile(w, res, "attachment")
}

// HandleProxyModel 同源代理 glb，供浏览器预览内联加载
// @Summary 模型代理
// @Tags 模型
// @Produce octet-stream
// @Param task_id path string true "任务 id"
// @Param filename path string true "文件名"
// @Success 200 {file} file "glb 文件"
// @Router /proxy-model/{task_id}/{filename} [get]
func (h *ModelHandler) HandleProxyModel(w http.ResponseWriter, r *http.Request) {
	res, err := h.orch.ProxyModel(r.Context(), r.PathValue("task_id"))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	h.streamFile(w, res, "inline")
}

func (h *ModelHandler) streamFile(w http.ResponseWriter, res *pipeline.DownloadResult, disposition string) {
	defer res.Body.Close()

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("%s; filename=%q", disposition, res.Filename))
	if _, err := io.Copy(w, res.Body); err != nil {
		// 响应体已部分写出，只能记录
		h.logger.Warn("model stream interrupted", zap.Error(err))
	}
}
