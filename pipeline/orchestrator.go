package pipeline

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/prompt2model/internal/artifact"
	"github.com/BaSui01/prompt2model/internal/metrics"
	"github.com/BaSui01/prompt2model/internal/session"
	"github.com/BaSui01/prompt2model/providers/image"
	"github.com/BaSui01/prompt2model/providers/meshy"
	"github.com/BaSui01/prompt2model/types"
)

// BackgroundRemover strips the background from an image reference.
// Best-effort: the orchestrator falls back to the input on failure.
type BackgroundRemover interface {
	Name() string
	RemoveBackground(ctx context.Context, imageRef string) (string, error)
}

// Translator turns a prompt into English. Best-effort as well.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// ModelService is the async 3D vendor: task submission returns immediately
// with a task id, status is re-derived on every call.
type ModelService interface {
	Name() string
	CreateImageTo3DTask(ctx context.Context, imageRef string) (string, error)
	CreateRemeshTask(ctx context.Context, req meshy.RemeshRequest) (string, error)
	GetImageTo3DTask(ctx context.Context, taskID string) (*meshy.TaskPayload, error)
	GetRemeshTask(ctx context.Context, taskID string) (*meshy.TaskPayload, error)
}

// Orchestrator drives the prompt → images → selection → 3D pipeline.
// It is stateless between calls: sessions live in the injected repository,
// image payloads in the injected artifact store, and task status is owned
// by the vendor.
type Orchestrator struct {
	providerA  image.Provider // slot A
	providerB  image.Provider // slot B
	remover    BackgroundRemover
	translator Translator
	models     ModelService
	artifacts  artifact.Store
	sessions   session.Repository
	metrics    *metrics.Collector
	logger     *zap.Logger

	// download fetches model files from the vendor's storage origin;
	// lazily built when nil.
	download *http.Client
}

// Options bundles the orchestrator's collaborators.
type Options struct {
	ProviderA  image.Provider
	ProviderB  image.Provider
	Remover    BackgroundRemover
	Translator Translator
	Models     ModelService
	Artifacts  artifact.Store
	Sessions   session.Repository
	// Metrics is optional; nil disables pipeline metrics.
	Metrics *metrics.Collector
	Logger  *zap.Logger
	// DownloadClient overrides the HTTP client used to fetch model files.
	DownloadClient *http.Client
}

// New creates the orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		providerA:  opts.ProviderA,
		providerB:  opts.ProviderB,
		remover:    opts.Remover,
		translator: opts.Translator,
		models:     opts.Models,
		artifacts:  opts.Artifacts,
		sessions:   opts.Sessions,
		metrics:    opts.Metrics,
		logger:     logger.With(zap.String("component", "pipeline")),
		download:   opts.DownloadClient,
	}
}

// GenerationResult is the outcome of StartGeneration.
type GenerationResult struct {
	SessionID string `json:"session_id"`
	ImageA    string `json:"image1"`
	ImageB    string `json:"image2"`
	Prompt    string `json:"prompt"`
}

// StartGeneration normalizes the prompt, asks both image providers for one
// reference image each, strips both backgrounds and stores the results
// under a fresh session.
func (o *Orchestrator) StartGeneration(ctx context.Context, prompt string) (*GenerationResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "no prompt provided").WithHTTPStatus(400)
	}

	start := time.Now()
	normalized := o.normalizePrompt(ctx, prompt)
	enhanced := EnhancePrompt(normalized.Value)

	// 两路图像生成互相独立，任一失败整个阶段失败
	var refA, refB string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, err := o.generateImage(gctx, o.providerA, enhanced)
		refA = ref
		return err
	})
	g.Go(func() error {
		ref, err := o.generateImage(gctx, o.providerB, enhanced)
		refB = ref
		return err
	})
	if err := g.Wait(); err != nil {
		o.metrics.RecordGeneration("failed", time.Since(start))
		return nil, types.NewError(types.ErrGenerationFailed, "failed to generate images").
			WithHTTPStatus(500).WithCause(err)
	}

	// 背景去除各自独立、best-effort，失败回退原图
	var wg sync.WaitGroup
	var outA, outB TransformOutcome
	wg.Add(2)
	go func() {
		defer wg.Done()
		outA = o.removeBackground(ctx, refA)
	}()
	go func() {
		defer wg.Done()
		outB = o.removeBackground(ctx, refB)
	}()
	wg.Wait()

	sessionID := uuid.NewString()
	if err := o.artifacts.Put(ctx, sessionID, types.SlotA, outA.Value); err != nil {
		return nil, types.NewError(types.ErrInternalError, "failed to store image").
			WithHTTPStatus(500).WithCause(err)
	}
	if err := o.artifacts.Put(ctx, sessionID, types.SlotB, outB.Value); err != nil {
		return nil, types.NewError(types.ErrInternalError, "failed to store image").
			WithHTTPStatus(500).WithCause(err)
	}

	if err := o.sessions.Create(ctx, &types.GenerationSession{
		ID:     sessionID,
		Prompt: normalized.Value,
	}); err != nil {
		return nil, types.NewError(types.ErrInternalError, "failed to create session").
			WithHTTPStatus(500).WithCause(err)
	}

	o.metrics.RecordGeneration("succeeded", time.Since(start))
	o.logger.Info("generation completed",
		zap.String("session_id", sessionID),
		zap.Bool("translated", normalized.Applied),
		zap.Bool("background_removed_a", outA.Applied),
		zap.Bool("background_removed_b", outB.Applied),
	)

	return &GenerationResult{
		SessionID: sessionID,
		ImageA:    outA.Value,
		ImageB:    outB.Value,
		Prompt:    normalized.Value,
	}, nil
}

func (o *Orchestrator) generateImage(ctx context.Context, p image.Provider, prompt string) (string, error) {
	start := time.Now()
	resp, err := p.Generate(ctx, &image.GenerateRequest{Prompt: prompt})
	o.metrics.RecordVendorRequest(p.Name(), "generate", err, time.Since(start))
	if err != nil {
		o.logger.Error("image synthesis failed",
			zap.String("provider", p.Name()), zap.Error(err))
		return "", err
	}
	if len(resp.Images) == 0 || resp.Images[0].Reference() == "" {
		return "", types.NewError(types.ErrUpstream, "provider returned no image").
			WithProvider(p.Name())
	}
	return resp.Images[0].Reference(), nil
}

// SelectImage promotes one of the session's two images to 3D
// reconstruction and returns the vendor task id.
func (o *Orchestrator) SelectImage(ctx context.Context, sessionID string, slot types.Slot) (string, error) {
	if !slot.Valid() {
		return "", types.NewError(types.ErrInvalidRequest, "invalid selection: "+string(slot)).
			WithHTTPStatus(400)
	}
	if sessionID == "" {
		return "", types.NewError(types.ErrSessionExpired, "session expired").WithHTTPStatus(404)
	}

	sess, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", types.NewError(types.ErrSessionExpired, "session expired").
			WithHTTPStatus(404).WithCause(err)
	}

	imageRef, err := o.artifacts.Get(ctx, sessionID, slot)
	if err != nil {
		return "", types.NewError(types.ErrSessionExpired, "image not found").
			WithHTTPStatus(404).WithCause(err)
	}

	start := time.Now()
	taskID, err := o.models.CreateImageTo3DTask(ctx, imageRef)
	o.metrics.RecordVendorRequest(o.models.Name(), "image_to_3d", err, time.Since(start))
	if err != nil {
		return "", types.NewError(types.ErrReconstructionSubmitFailed, "failed to generate 3D model").
			WithHTTPStatus(500).WithCause(err)
	}

	// 选中图单独留存，供后续复用；失败不致命，重建已在跑
	if err := o.artifacts.Put(ctx, sessionID, types.SlotSelected, imageRef); err != nil {
		o.logger.Warn("failed to persist selected image", zap.Error(err))
	}

	sess.ReconstructionTaskID = taskID
	if err := o.sessions.Update(ctx, sess); err != nil {
		o.logger.Warn("failed to record reconstruction task on session", zap.Error(err))
	}

	o.logger.Info("reconstruction submitted",
		zap.String("session_id", sessionID),
		zap.String("slot", string(slot)),
		zap.String("task_id", taskID),
	)
	return taskID, nil
}

// ReconstructionStatus queries the vendor once and normalizes the answer.
// For a succeeded task with a glb result it also derives the same-origin
// proxy path.
func (o *Orchestrator) ReconstructionStatus(ctx context.Context, taskID string) (*types.NormalizedStatus, error) {
	if taskID == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "no task ID provided").WithHTTPStatus(400)
	}

	payload, err := o.models.GetImageTo3DTask(ctx, taskID)
	o.metrics.RecordTaskPoll(string(types.TaskReconstruction), err)
	if err != nil {
		return nil, err
	}

	ns := normalizeStatus(taskID, payload)
	if ns.Status == types.TaskSucceeded && ns.ResultURLs["glb"] != "" {
		ns.ProxyURL = proxyModelPath(taskID)
	}
	return ns, nil
}

// RemeshOptions parameterize a remesh / format-export job.
type RemeshOptions struct {
	// Exactly one of InputTaskID and ModelURL must be set.
	InputTaskID string
	ModelURL    string

	TargetPolycount int
	Topology        string
	TargetFormats   []string

	// SessionID optionally ties the remesh task back to a session.
	SessionID string
}

// RequestRemesh submits a polycount-reduction / format-export job against
// an already-reconstructed model. STL export is exactly this with
// TargetFormats = ["stl"].
func (o *Orchestrator) RequestRemesh(ctx context.Context, opts RemeshOptions) (string, error) {
	if (opts.InputTaskID == "") == (opts.ModelURL == "") {
		return "", types.NewError(types.ErrInvalidRemeshRequest,
			"exactly one of input task ID and model URL must be provided").WithHTTPStatus(400)
	}

	start := time.Now()
	taskID, err := o.models.CreateRemeshTask(ctx, meshy.RemeshRequest{
		InputTaskID:     opts.InputTaskID,
		ModelURL:        opts.ModelURL,
		TargetPolycount: opts.TargetPolycount,
		Topology:        opts.Topology,
		TargetFormats:   opts.TargetFormats,
	})
	o.metrics.RecordVendorRequest(o.models.Name(), "remesh", err, time.Since(start))
	if err != nil {
		return "", types.NewError(types.ErrRemeshSubmitFailed, "failed to start remesh").
			WithHTTPStatus(500).WithCause(err)
	}

	if opts.SessionID != "" {
		if sess, err := o.sessions.Get(ctx, opts.SessionID); err == nil {
			sess.RemeshTaskID = taskID
			if err := o.sessions.Update(ctx, sess); err != nil {
				o.logger.Warn("failed to record remesh task on session", zap.Error(err))
			}
		}
	}

	o.logger.Info("remesh submitted", zap.String("task_id", taskID))
	return taskID, nil
}

// RemeshStatus queries a remesh task once and normalizes the answer.
func (o *Orchestrator) RemeshStatus(ctx context.Context, taskID string) (*types.NormalizedStatus, error) {
	if taskID == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "no task ID provided").WithHTTPStatus(400)
	}

	payload, err := o.models.GetRemeshTask(ctx, taskID)
	o.metrics.RecordTaskPoll(string(types.TaskRemesh), err)
	if err != nil {
		return nil, err
	}
	return normalizeStatus(taskID, payload), nil
}
