package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/prompt2model/internal/artifact"
	"github.com/BaSui01/prompt2model/internal/session"
	"github.com/BaSui01/prompt2model/providers/image"
	"github.com/BaSui01/prompt2model/providers/meshy"
	"github.com/BaSui01/prompt2model/types"
)

// ---- fakes -------------------------------------------------------------

type fakeImageProvider struct {
	name string
	ref  string
	err  error

	gotPrompt string
}

func (f *fakeImageProvider) Name() string { return f.name }

func (f *fakeImageProvider) Generate(_ context.Context, req *image.GenerateRequest) (*image.GenerateResponse, error) {
	f.gotPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &image.GenerateResponse{
		Provider: f.name,
		Images:   []image.ImageData{{URL: f.ref}},
	}, nil
}

type fakeRemover struct {
	err   error
	calls int
}

func (f *fakeRemover) Name() string { return "fake-removebg" }

func (f *fakeRemover) RemoveBackground(_ context.Context, ref string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return ref + "#nobg", nil
}

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Name() string { return "fake-translate" }

func (f *fakeTranslator) Translate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeModelService struct {
	submitID   string
	submitErr  error
	remeshID   string
	remeshErr  error
	reconTask  *meshy.TaskPayload
	remeshTask *meshy.TaskPayload
	statusErr  error

	gotImageRef  string
	gotRemeshReq meshy.RemeshRequest
	submits      int
}

func (f *fakeModelService) Name() string { return "fake-meshy" }

func (f *fakeModelService) CreateImageTo3DTask(_ context.Context, imageRef string) (string, error) {
	f.submits++
	f.gotImageRef = imageRef
	return f.submitID, f.submitErr
}

func (f *fakeModelService) CreateRemeshTask(_ context.Context, req meshy.RemeshRequest) (string, error) {
	f.submits++
	f.gotRemeshReq = req
	return f.remeshID, f.remeshErr
}

func (f *fakeModelService) GetImageTo3DTask(_ context.Context, _ string) (*meshy.TaskPayload, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.reconTask, nil
}

func (f *fakeModelService) GetRemeshTask(_ context.Context, _ string) (*meshy.TaskPayload, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.remeshTask, nil
}

type testFixture struct {
	orch       *Orchestrator
	providerA  *fakeImageProvider
	providerB  *fakeImageProvider
	remover    *fakeRemover
	translator *fakeTranslator
	models     *fakeModelService
	artifacts  artifact.Store
	sessions   session.Repository
}

func newFixture() *testFixture {
	f := &testFixture{
		providerA:  &fakeImageProvider{name: "openai-image", ref: "https://img/a.png"},
		providerB:  &fakeImageProvider{name: "stability", ref: "https://img/b.png"},
		remover:    &fakeRemover{},
		translator: &fakeTranslator{out: "a red wooden chair"},
		models:     &fakeModelService{submitID: "task-123", remeshID: "remesh-9"},
		artifacts:  artifact.NewMemoryStore(),
		sessions:   session.NewMemoryRepository(),
	}
	f.orch = New(Options{
		ProviderA:  f.providerA,
		ProviderB:  f.providerB,
		Remover:    f.remover,
		Translator: f.translator,
		Models:     f.models,
		Artifacts:  f.artifacts,
		Sessions:   f.sessions,
	})
	return f
}

// ---- StartGeneration ---------------------------------------------------

func TestStartGeneration_HappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)

	// english prompt: translator untouched, suffix appended for both providers
	assert.Zero(t, f.translator.calls)
	assert.Equal(t, "a red wooden chair"+EnhanceSuffix, f.providerA.gotPrompt)
	assert.Equal(t, "a red wooden chair"+EnhanceSuffix, f.providerB.gotPrompt)

	// both images went through background removal
	assert.Equal(t, "https://img/a.png#nobg", res.ImageA)
	assert.Equal(t, "https://img/b.png#nobg", res.ImageB)
	assert.Equal(t, 2, f.remover.calls)

	// artifacts stored under both slots, session created
	a, err := f.artifacts.Get(ctx, res.SessionID, types.SlotA)
	require.NoError(t, err)
	assert.Equal(t, res.ImageA, a)
	b, err := f.artifacts.Get(ctx, res.SessionID, types.SlotB)
	require.NoError(t, err)
	assert.Equal(t, res.ImageB, b)

	sess, err := f.sessions.Get(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "a red wooden chair", sess.Prompt)
}

func TestStartGeneration_EmptyPrompt(t *testing.T) {
	f := newFixture()
	_, err := f.orch.StartGeneration(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
	assert.Zero(t, f.providerA.gotPrompt)
}

func TestStartGeneration_NonEnglishTranslated(t *testing.T) {
	f := newFixture()
	f.translator.out = "a red wooden chair"

	res, err := f.orch.StartGeneration(context.Background(), "一把红色的木椅子")
	require.NoError(t, err)
	assert.Equal(t, 1, f.translator.calls)
	assert.Equal(t, "a red wooden chair", res.Prompt)
	assert.Equal(t, "a red wooden chair"+EnhanceSuffix, f.providerA.gotPrompt)
}

func TestStartGeneration_TranslationFailureFallsBack(t *testing.T) {
	f := newFixture()
	f.translator.err = errors.New("quota exceeded")

	res, err := f.orch.StartGeneration(context.Background(), "一把红色的木椅子")
	require.NoError(t, err)
	assert.Equal(t, "一把红色的木椅子", res.Prompt)
	assert.Equal(t, "一把红色的木椅子"+EnhanceSuffix, f.providerA.gotPrompt)
}

func TestStartGeneration_OneProviderFails(t *testing.T) {
	f := newFixture()
	f.providerB.err = errors.New("rate limited")

	_, err := f.orch.StartGeneration(context.Background(), "a red wooden chair")
	require.Error(t, err)
	assert.Equal(t, types.ErrGenerationFailed, types.GetErrorCode(err))

	// nothing stored: no orphan session
	_, getErr := f.artifacts.Get(context.Background(), "whatever", types.SlotA)
	assert.Error(t, getErr)
}

func TestStartGeneration_BackgroundRemovalFailureFallsBack(t *testing.T) {
	f := newFixture()
	f.remover.err = errors.New("removebg down")
	ctx := context.Background()

	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)

	// removal attempted for both images, fallback keeps the originals
	assert.Equal(t, 2, f.remover.calls)
	assert.Equal(t, "https://img/a.png", res.ImageA)
	assert.Equal(t, "https://img/b.png", res.ImageB)

	// fallback value is also what gets stored
	a, err := f.artifacts.Get(ctx, res.SessionID, types.SlotA)
	require.NoError(t, err)
	assert.Equal(t, "https://img/a.png", a)
}

// ---- SelectImage -------------------------------------------------------

func TestSelectImage_SubmitsReconstruction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)

	taskID, err := f.orch.SelectImage(ctx, res.SessionID, types.SlotB)
	require.NoError(t, err)
	assert.Equal(t, "task-123", taskID)
	assert.Equal(t, res.ImageB, f.models.gotImageRef)

	// selected image retained, task id recorded on the session
	sel, err := f.artifacts.Get(ctx, res.SessionID, types.SlotSelected)
	require.NoError(t, err)
	assert.Equal(t, res.ImageB, sel)

	sess, err := f.sessions.Get(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "task-123", sess.ReconstructionTaskID)
}

func TestSelectImage_InvalidSlotMakesNoCalls(t *testing.T) {
	f := newFixture()
	_, err := f.orch.SelectImage(context.Background(), "some-session", types.Slot("C"))
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
	assert.Zero(t, f.models.submits)
}

func TestSelectImage_UnknownSession(t *testing.T) {
	f := newFixture()
	_, err := f.orch.SelectImage(context.Background(), "nope", types.SlotA)
	require.Error(t, err)
	assert.Equal(t, types.ErrSessionExpired, types.GetErrorCode(err))
	assert.Zero(t, f.models.submits)
}

func TestSelectImage_SubmitFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)

	f.models.submitErr = errors.New("meshy 500")
	_, err = f.orch.SelectImage(ctx, res.SessionID, types.SlotA)
	require.Error(t, err)
	assert.Equal(t, types.ErrReconstructionSubmitFailed, types.GetErrorCode(err))
}

// ---- status ------------------------------------------------------------

func TestReconstructionStatus_RunningThenSucceeded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.models.reconTask = &meshy.TaskPayload{ID: "task-123", Status: "IN_PROGRESS", Progress: 40}
	ns, err := f.orch.ReconstructionStatus(ctx, "task-123")
	require.NoError(t, err)
	assert.Equal(t, types.TaskRunning, ns.Status)
	assert.Equal(t, 40, ns.Progress)
	assert.Empty(t, ns.ProxyURL)
	assert.Nil(t, ns.ResultURLs)

	f.models.reconTask = &meshy.TaskPayload{
		ID: "task-123", Status: "SUCCEEDED", Progress: 100,
		ModelURLs: map[string]string{"glb": "https://assets/m.glb"},
	}
	ns, err = f.orch.ReconstructionStatus(ctx, "task-123")
	require.NoError(t, err)
	assert.Equal(t, types.TaskSucceeded, ns.Status)
	assert.Equal(t, "/proxy-model/task-123/model.glb", ns.ProxyURL)
}

func TestReconstructionStatus_SucceededWithoutGLB(t *testing.T) {
	f := newFixture()
	f.models.reconTask = &meshy.TaskPayload{
		ID: "t", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"fbx": "https://assets/m.fbx"},
	}
	ns, err := f.orch.ReconstructionStatus(context.Background(), "t")
	require.NoError(t, err)
	assert.Empty(t, ns.ProxyURL)
}

func TestReconstructionStatus_PollTransportError(t *testing.T) {
	f := newFixture()
	f.models.statusErr = types.NewError(types.ErrPollTransport, "dial refused").WithRetryable(true)

	_, err := f.orch.ReconstructionStatus(context.Background(), "task-123")
	require.Error(t, err)
	assert.Equal(t, types.ErrPollTransport, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

// ---- remesh ------------------------------------------------------------

func TestRequestRemesh_ByTaskID(t *testing.T) {
	f := newFixture()
	taskID, err := f.orch.RequestRemesh(context.Background(), RemeshOptions{
		InputTaskID:   "task-123",
		TargetFormats: []string{"stl"},
	})
	require.NoError(t, err)
	assert.Equal(t, "remesh-9", taskID)
	assert.Equal(t, "task-123", f.models.gotRemeshReq.InputTaskID)
	assert.Equal(t, []string{"stl"}, f.models.gotRemeshReq.TargetFormats)
}

func TestRequestRemesh_SourceValidation(t *testing.T) {
	f := newFixture()

	_, err := f.orch.RequestRemesh(context.Background(), RemeshOptions{})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRemeshRequest, types.GetErrorCode(err))

	_, err = f.orch.RequestRemesh(context.Background(), RemeshOptions{
		InputTaskID: "task-123",
		ModelURL:    "https://assets/m.glb",
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRemeshRequest, types.GetErrorCode(err))
	assert.Zero(t, f.models.submits)
}

func TestRequestRemesh_RecordsOnSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)

	_, err = f.orch.RequestRemesh(ctx, RemeshOptions{
		InputTaskID: "task-123",
		SessionID:   res.SessionID,
	})
	require.NoError(t, err)

	sess, err := f.sessions.Get(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "remesh-9", sess.RemeshTaskID)
}

func TestRemeshStatus(t *testing.T) {
	f := newFixture()
	f.models.remeshTask = &meshy.TaskPayload{
		ID: "remesh-9", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"stl": "https://assets/m.stl"},
	}
	ns, err := f.orch.RemeshStatus(context.Background(), "remesh-9")
	require.NoError(t, err)
	assert.Equal(t, types.TaskSucceeded, ns.Status)
	assert.Equal(t, "https://assets/m.stl", ns.ResultURLs["stl"])
	assert.Empty(t, ns.ProxyURL)
}

// ---- downloads ---------------------------------------------------------

func TestDownloadModel_NotReady(t *testing.T) {
	f := newFixture()
	f.models.reconTask = &meshy.TaskPayload{ID: "t", Status: "IN_PROGRESS", Progress: 50}

	_, err := f.orch.DownloadModel(context.Background(), "t", "glb")
	require.Error(t, err)
	assert.Equal(t, types.ErrNotReady, types.GetErrorCode(err))
}

func TestDownloadModel_FormatUnavailable(t *testing.T) {
	f := newFixture()
	f.models.reconTask = &meshy.TaskPayload{
		ID: "t", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"glb": "https://assets/m.glb"},
	}

	_, err := f.orch.DownloadModel(context.Background(), "t", "fbx")
	require.Error(t, err)
	var appErr *types.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrFormatUnavailable, appErr.Code)
	assert.Equal(t, []string{"glb"}, appErr.AvailableFormats)
}

func TestDownloadModel_StreamsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "glTF-binary-bytes")
	}))
	defer srv.Close()

	f := newFixture()
	f.models.reconTask = &meshy.TaskPayload{
		ID: "task-123", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"glb": srv.URL + "/m.glb"},
	}

	res, err := f.orch.DownloadModel(context.Background(), "task-123", "")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "model/gltf-binary", res.ContentType)
	assert.Equal(t, "model_task-123.glb", res.Filename)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "glTF-binary-bytes", string(body))
}

func TestDownloadSTL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "solid model")
	}))
	defer srv.Close()

	f := newFixture()
	f.models.remeshTask = &meshy.TaskPayload{
		ID: "remesh-9", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"stl": srv.URL + "/m.stl"},
	}

	res, err := f.orch.DownloadSTL(context.Background(), "remesh-9")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "application/sla", res.ContentType)
	assert.Equal(t, "model_remesh-9.stl", res.Filename)
}

func TestDownloadModel_StorageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusForbidden)
	}))
	defer srv.Close()

	f := newFixture()
	f.models.reconTask = &meshy.TaskPayload{
		ID: "t", Status: "SUCCEEDED",
		ModelURLs: map[string]string{"glb": srv.URL + "/m.glb"},
	}

	_, err := f.orch.DownloadModel(context.Background(), "t", "glb")
	require.Error(t, err)
	assert.Equal(t, types.ErrUpstream, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "model/gltf-binary", contentTypeFor("glb"))
	assert.Equal(t, "text/plain", contentTypeFor("obj"))
	assert.Equal(t, "text/plain", contentTypeFor("mtl"))
	assert.Equal(t, "model/vnd.usdz+zip", contentTypeFor("usdz"))
	assert.Equal(t, "application/sla", contentTypeFor("stl"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("weird"))
}

// full flow: generate, pick B, poll to success, preview via proxy path
func TestEndToEnd_PromptToModel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.orch.StartGeneration(ctx, "a red wooden chair")
	require.NoError(t, err)

	taskID, err := f.orch.SelectImage(ctx, res.SessionID, types.SlotB)
	require.NoError(t, err)

	f.models.reconTask = &meshy.TaskPayload{ID: taskID, Status: "IN_PROGRESS", Progress: 40}
	ns, err := f.orch.ReconstructionStatus(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskRunning, ns.Status)

	f.models.reconTask = &meshy.TaskPayload{
		ID: taskID, Status: "SUCCEEDED",
		ModelURLs: map[string]string{"glb": "https://assets/m.glb"},
	}
	ns, err = f.orch.ReconstructionStatus(ctx, taskID)
	require.NoError(t, err)
	require.Equal(t, types.TaskSucceeded, ns.Status)
	assert.Equal(t, "/proxy-model/task-123/model.glb", ns.ProxyURL)
	assert.True(t, strings.HasPrefix(ns.ResultURLs["glb"], "https://"))

	// fbx was never exported for this task
	_, err = f.orch.DownloadModel(ctx, taskID, "fbx")
	var appErr *types.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"glb"}, appErr.AvailableFormats)
}
