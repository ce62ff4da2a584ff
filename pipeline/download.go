package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/BaSui01/prompt2model/internal/tlsutil"
	"github.com/BaSui01/prompt2model/types"
)

// formatContentTypes maps export formats to the content type served to the
// browser. Unlisted formats fall back to application/octet-stream.
var formatContentTypes = map[string]string{
	"glb":  "model/gltf-binary",
	"fbx":  "application/octet-stream",
	"obj":  "text/plain",
	"mtl":  "text/plain",
	"usdz": "model/vnd.usdz+zip",
	"stl":  "application/sla",
}

func contentTypeFor(format string) string {
	if ct, ok := formatContentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// DownloadResult streams a fetched model file back to the caller.
// Body must be closed by the consumer.
type DownloadResult struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

func (o *Orchestrator) downloadClient() *http.Client {
	if o.download == nil {
		o.download = tlsutil.SecureHTTPClient(120 * time.Second)
	}
	return o.download
}

// DownloadModel fetches one export format of a succeeded reconstruction
// task and streams it back. format defaults to glb.
func (o *Orchestrator) DownloadModel(ctx context.Context, taskID, format string) (*DownloadResult, error) {
	if format == "" {
		format = "glb"
	}
	payload, err := o.models.GetImageTo3DTask(ctx, taskID)
	o.metrics.RecordTaskPoll(string(types.TaskReconstruction), err)
	if err != nil {
		return nil, err
	}
	return o.fetchFormat(ctx, taskID, format, normalizeStatus(taskID, payload))
}

// DownloadSTL fetches the STL export of a succeeded remesh task.
func (o *Orchestrator) DownloadSTL(ctx context.Context, taskID string) (*DownloadResult, error) {
	payload, err := o.models.GetRemeshTask(ctx, taskID)
	o.metrics.RecordTaskPoll(string(types.TaskRemesh), err)
	if err != nil {
		return nil, err
	}
	return o.fetchFormat(ctx, taskID, "stl", normalizeStatus(taskID, payload))
}

// ProxyModel serves the glb of a succeeded reconstruction for in-browser
// preview. Same fetch as DownloadModel, but the handler renders it inline
// instead of as an attachment.
func (o *Orchestrator) ProxyModel(ctx context.Context, taskID string) (*DownloadResult, error) {
	return o.DownloadModel(ctx, taskID, "glb")
}

func (o *Orchestrator) fetchFormat(ctx context.Context, taskID, format string, ns *types.NormalizedStatus) (*DownloadResult, error) {
	if ns.Status != types.TaskSucceeded {
		return nil, types.NewError(types.ErrNotReady,
			fmt.Sprintf("model not ready: task is %s", ns.Status)).WithHTTPStatus(409)
	}

	u := ns.ResultURLs[format]
	if u == "" {
		available := make([]string, 0, len(ns.ResultURLs))
		for f := range ns.ResultURLs {
			available = append(available, f)
		}
		sort.Strings(available)
		return nil, types.NewError(types.ErrFormatUnavailable,
			fmt.Sprintf("format %q not available", format)).
			WithHTTPStatus(404).WithAvailableFormats(available)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "failed to build download request").
			WithHTTPStatus(500).WithCause(err)
	}
	resp, err := o.downloadClient().Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrUpstream, "failed to fetch model file").
			WithHTTPStatus(502).WithCause(err).WithRetryable(true)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, types.NewError(types.ErrUpstream,
			fmt.Sprintf("model storage returned %d", resp.StatusCode)).
			WithHTTPStatus(502).WithRetryable(true)
	}

	return &DownloadResult{
		Body:        resp.Body,
		ContentType: contentTypeFor(format),
		Filename:    fmt.Sprintf("model_%s.%s", taskID, format),
	}, nil
}
