package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BaSui01/prompt2model/providers/meshy"
	"github.com/BaSui01/prompt2model/types"
)

func TestNormalizeStatus_Mapping(t *testing.T) {
	tests := []struct {
		name         string
		payload      meshy.TaskPayload
		wantStatus   types.TaskStatus
		wantProgress int
	}{
		{"pending", meshy.TaskPayload{Status: "PENDING"}, types.TaskPending, 0},
		{"running", meshy.TaskPayload{Status: "IN_PROGRESS", Progress: 40}, types.TaskRunning, 40},
		{"succeeded forces full progress", meshy.TaskPayload{Status: "SUCCEEDED", Progress: 97}, types.TaskSucceeded, 100},
		{"failed", meshy.TaskPayload{Status: "FAILED", Progress: 60}, types.TaskFailed, 60},
		{"expired maps to failed", meshy.TaskPayload{Status: "EXPIRED"}, types.TaskFailed, 0},
		{"canceled maps to failed", meshy.TaskPayload{Status: "CANCELED"}, types.TaskFailed, 0},
		{"unknown with progress is running", meshy.TaskPayload{Status: "WARMING_UP", Progress: 5}, types.TaskRunning, 5},
		{"unknown without progress is pending", meshy.TaskPayload{Status: "WARMING_UP"}, types.TaskPending, 0},
		{"lowercase vendor status", meshy.TaskPayload{Status: "succeeded"}, types.TaskSucceeded, 100},
		{"progress clamped high", meshy.TaskPayload{Status: "IN_PROGRESS", Progress: 250}, types.TaskRunning, 100},
		{"progress clamped low", meshy.TaskPayload{Status: "IN_PROGRESS", Progress: -3}, types.TaskRunning, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := normalizeStatus("task-1", &tt.payload)
			assert.Equal(t, "task-1", ns.TaskID)
			assert.Equal(t, tt.wantStatus, ns.Status)
			assert.Equal(t, tt.wantProgress, ns.Progress)
		})
	}
}

func TestNormalizeStatus_ResultURLsOnlyOnSuccess(t *testing.T) {
	urls := map[string]string{"GLB": "https://x/m.glb", "fbx": "https://x/m.fbx", "obj": ""}

	running := normalizeStatus("t", &meshy.TaskPayload{Status: "IN_PROGRESS", ModelURLs: urls})
	assert.Nil(t, running.ResultURLs)

	failed := normalizeStatus("t", &meshy.TaskPayload{Status: "FAILED", ModelURLs: urls})
	assert.Nil(t, failed.ResultURLs)

	ok := normalizeStatus("t", &meshy.TaskPayload{Status: "SUCCEEDED", ModelURLs: urls})
	assert.Equal(t, map[string]string{
		"glb": "https://x/m.glb",
		"fbx": "https://x/m.fbx",
	}, ok.ResultURLs)
}

func TestNormalizeStatus_FailureReason(t *testing.T) {
	ns := normalizeStatus("t", &meshy.TaskPayload{
		Status:    "FAILED",
		TaskError: meshy.TaskError{Message: "input image too small"},
	})
	assert.Equal(t, types.TaskFailed, ns.Status)
	assert.Equal(t, "input image too small", ns.Reason)
}

func TestProxyModelPath(t *testing.T) {
	assert.Equal(t, "/proxy-model/task-9/model.glb", proxyModelPath("task-9"))
}
