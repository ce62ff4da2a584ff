package pipeline

import (
	"fmt"
	"strings"

	"github.com/BaSui01/prompt2model/providers/meshy"
	"github.com/BaSui01/prompt2model/types"
)

// normalizeStatus 把 Meshy 的原始任务载荷翻译成统一状态。
// 无本地缓存：每次查询都是全新一问，终态粘滞由服务商保证。
func normalizeStatus(taskID string, p *meshy.TaskPayload) *types.NormalizedStatus {
	ns := &types.NormalizedStatus{
		TaskID:       taskID,
		Progress:     clampProgress(p.Progress),
		ThumbnailURL: p.ThumbnailURL,
	}

	switch strings.ToUpper(p.Status) {
	case "PENDING":
		ns.Status = types.TaskPending
	case "IN_PROGRESS":
		ns.Status = types.TaskRunning
	case "SUCCEEDED":
		ns.Status = types.TaskSucceeded
		ns.Progress = 100
	case "FAILED", "EXPIRED", "CANCELED":
		ns.Status = types.TaskFailed
		ns.Reason = p.TaskError.Message
	default:
		// 未知状态按进度归类，避免把仍在跑的任务误报为失败
		if ns.Progress > 0 {
			ns.Status = types.TaskRunning
		} else {
			ns.Status = types.TaskPending
		}
	}

	// result URLs 只在成功后暴露
	if ns.Status == types.TaskSucceeded && len(p.ModelURLs) > 0 {
		urls := make(map[string]string, len(p.ModelURLs))
		for format, u := range p.ModelURLs {
			if u != "" {
				urls[strings.ToLower(format)] = u
			}
		}
		if len(urls) > 0 {
			ns.ResultURLs = urls
		}
	}

	return ns
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// proxyModelPath derives the same-origin address a browser loads the glb
// from, so it never has to hit the vendor's storage origin directly.
func proxyModelPath(taskID string) string {
	return fmt.Sprintf("/proxy-model/%s/model.glb", taskID)
}
