package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphgen/infographic-api/client/api"
	"github.com/graphgen/infographic-api/client/store"
)

type fakeClient struct {
	resp      *api.GenerateResponse
	err       error
	usage     *api.UsageResponse
	calls     int
	lastInput api.GenerateInput
	block     chan struct{} // when set, Generate waits on it
}

func (f *fakeClient) Generate(_ context.Context, input api.GenerateInput) (*api.GenerateResponse, error) {
	f.calls++
	f.lastInput = input
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func (f *fakeClient) Usage(_ context.Context, _ string) (*api.UsageResponse, error) {
	if f.usage == nil {
		return &api.UsageResponse{OK: true}, nil
	}
	return f.usage, nil
}

type stubLogin struct{ session api.Session }

func (s *stubLogin) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	return &api.LoginResponse{OK: true, User: &s.session, AccessToken: "token"}, nil
}

func newAuthStore(t *testing.T, role string) *store.AuthStore {
	t.Helper()
	auth := store.NewAuthStore(store.NewMemStorage(), &stubLogin{
		session: api.Session{Username: "tester", Role: role},
	})
	_, err := auth.Login(context.Background(), "tester", "pw")
	require.NoError(t, err)
	return auth
}

func newController(t *testing.T, client *fakeClient, role string, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithStageDelay(time.Millisecond)}, opts...)
	return NewController(client, newAuthStore(t, role), opts...)
}

func layoutResponse(blocks ...api.Block) *api.GenerateResponse {
	return &api.GenerateResponse{
		OK: true,
		Infographic: &api.BlockLayout{
			Title:   "Test",
			Layout:  "vertical_steps",
			Palette: "teal",
			Blocks:  blocks,
		},
	}
}

func TestSubmitRejectsEmptyInputWithoutNetwork(t *testing.T) {
	client := &fakeClient{}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, client.calls)

	_, err = ctrl.Submit(context.Background(), Input{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, client.calls)
}

func TestSubmitRejectsWithoutSession(t *testing.T) {
	client := &fakeClient{}
	auth := store.NewAuthStore(store.NewMemStorage(), nil)
	ctrl := NewController(client, auth, WithStageDelay(time.Millisecond))

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, client.calls)
}

func TestSubmitRejectsNonPDFWithoutNetwork(t *testing.T) {
	client := &fakeClient{}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{FilePath: "notes.txt"})
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Equal(t, 0, client.calls)
}

func TestSubmitEnforcesContributorQuotaLocally(t *testing.T) {
	client := &fakeClient{resp: layoutResponse(api.Block{Heading: "A"})}
	ctrl := newController(t, client, "contributor")

	for i := 0; i < ContributorCap; i++ {
		_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
		require.NoError(t, err)
	}
	assert.Equal(t, ContributorCap, client.calls)
	assert.Equal(t, 0, ctrl.UsageRemaining())

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, ContributorCap, client.calls, "rejected submit must not reach the network")
}

func TestSubmitFailureDoesNotConsumeQuota(t *testing.T) {
	client := &fakeClient{resp: &api.GenerateResponse{OK: false, Error: "boom"}}
	ctrl := newController(t, client, "contributor")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.Error(t, err)
	assert.Equal(t, ContributorCap, ctrl.UsageRemaining())
}

func TestSubmitBackendErrorMessagePreferred(t *testing.T) {
	client := &fakeClient{resp: &api.GenerateResponse{
		OK:    false,
		Error: "Model output not valid JSON",
		Raw:   json.RawMessage(`"not json"`),
	}}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.Error(t, err)
	assert.Equal(t, "Model output not valid JSON", err.Error())
	assert.Equal(t, StageFailed, ctrl.Stage())
	assert.Equal(t, "Model output not valid JSON", ctrl.Err())
	assert.Equal(t, json.RawMessage(`"not json"`), ctrl.Raw())
}

func TestSubmitGenericFallbackMessage(t *testing.T) {
	client := &fakeClient{resp: &api.GenerateResponse{OK: false}}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.Error(t, err)
	assert.Equal(t, "Generation failed", err.Error())
	assert.Equal(t, StageFailed, ctrl.Stage())
}

func TestSubmitTransportError(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.Equal(t, StageFailed, ctrl.Stage())
}

func TestSubmitPreservesBlockOrder(t *testing.T) {
	client := &fakeClient{resp: layoutResponse(
		api.Block{ID: "b1", Heading: "First"},
		api.Block{ID: "b2", Heading: "Second"},
		api.Block{ID: "b3", Heading: "Third"},
	)}
	ctrl := newController(t, client, "admin")

	result, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.NoError(t, err)
	require.NotNil(t, result.Layout)

	var headings []string
	for _, block := range result.Layout.Blocks {
		headings = append(headings, block.Heading)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, headings)
}

func TestSubmitSingleFlight(t *testing.T) {
	client := &fakeClient{
		resp:  layoutResponse(api.Block{Heading: "A"}),
		block: make(chan struct{}),
	}
	ctrl := newController(t, client, "admin")

	firstDone := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
		firstDone <- err
	}()

	// Wait for the first submit to claim the in-flight slot.
	require.Eventually(t, func() bool {
		return ctrl.Stage() >= StageSubmitting
	}, time.Second, time.Millisecond)

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	assert.ErrorIs(t, err, ErrBusy)

	close(client.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, client.calls)
}

func TestSubmitSendsSettingsAndUsername(t *testing.T) {
	client := &fakeClient{resp: layoutResponse(api.Block{Heading: "A"})}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{
		Text: "report",
		Settings: Settings{
			Layout:      "summary_grid",
			Creativity:  "subtle",
			Palette:     "warm",
			TextDensity: "low",
			Render:      "layout",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "tester", client.lastInput.Username)
	assert.Equal(t, map[string]string{
		"layout":      "summary_grid",
		"creativity":  "subtle",
		"palette":     "warm",
		"textDensity": "low",
		"render":      "layout",
	}, client.lastInput.Settings)
}

func TestClearResetsState(t *testing.T) {
	client := &fakeClient{resp: &api.GenerateResponse{OK: false, Error: "boom"}}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.Error(t, err)

	ctrl.Clear()
	assert.Equal(t, StageIdle, ctrl.Stage())
	assert.Empty(t, ctrl.Err())
	assert.Nil(t, ctrl.Result())
	assert.Nil(t, ctrl.Raw())
}

func TestRefreshUsage(t *testing.T) {
	client := &fakeClient{usage: &api.UsageResponse{OK: true, UsageCount: 1, Limit: 2, Remaining: 1}}
	ctrl := newController(t, client, "contributor")

	require.NoError(t, ctrl.RefreshUsage(context.Background()))
	assert.Equal(t, 1, ctrl.UsageRemaining())
}

func TestUsageRemainingAdminUnlimited(t *testing.T) {
	ctrl := newController(t, &fakeClient{}, "admin")
	assert.Equal(t, -1, ctrl.UsageRemaining())
}

func TestDownloadImage(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	client := &fakeClient{resp: &api.GenerateResponse{
		OK:                    true,
		Image:                 &api.ImagePayload{Data: base64.StdEncoding.EncodeToString(payload), MIMEType: "image/png"},
		Blueprint:             json.RawMessage(`{"title":"T"}`),
		CompiledPromptPreview: "preview...",
	}}
	ctrl := newController(t, client, "admin")

	result, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.NoError(t, err)
	require.NotNil(t, result.Image)
	assert.Nil(t, result.Layout)
	assert.Equal(t, "image/png", result.Image.MIMEType)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, ctrl.Download(path))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestDownloadLayoutWritesJSON(t *testing.T) {
	client := &fakeClient{resp: layoutResponse(api.Block{ID: "b1", Heading: "A", Bullets: []string{"x"}})}
	ctrl := newController(t, client, "admin")

	_, err := ctrl.Submit(context.Background(), Input{Text: "report"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ctrl.Download(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var layout api.BlockLayout
	require.NoError(t, json.Unmarshal(data, &layout))
	assert.Equal(t, "A", layout.Blocks[0].Heading)
}

func TestDownloadWithoutResult(t *testing.T) {
	ctrl := newController(t, &fakeClient{}, "admin")
	err := ctrl.Download(filepath.Join(t.TempDir(), "out.png"))
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestEndToEndStagedGeneration(t *testing.T) {
	client := &fakeClient{resp: layoutResponse(api.Block{
		ID:      "b1",
		IconKey: "factory",
		Heading: "Causes",
		Bullets: []string{"CO2"},
	})}

	var stages []Stage
	ctrl := newController(t, client, "admin", WithStageHook(func(s Stage) {
		stages = append(stages, s)
	}))

	result, err := ctrl.Submit(context.Background(), Input{
		Text: "Climate change causes and effects",
	})
	require.NoError(t, err)

	assert.Equal(t, []Stage{
		StageSubmitting,
		StageExtractingText,
		StageBuildingBlueprint,
		StageCompilingPrompt,
		StageRendering,
		StageSucceeded,
	}, stages)

	var out bytes.Buffer
	RenderBlockLayout(&out, result.Layout)
	rendered := out.String()
	assert.Contains(t, rendered, "🏭")
	assert.Contains(t, rendered, "Causes")
	assert.Contains(t, rendered, "CO2")
}

func TestRenderTimelineAndGrid(t *testing.T) {
	blocks := []api.Block{
		{IconKey: "search", Heading: "Findings", Bullets: []string{"f1"}},
		{IconKey: "checklist", Heading: "Actions", Bullets: []string{"a1"}},
	}

	var timeline bytes.Buffer
	RenderBlockLayout(&timeline, &api.BlockLayout{Title: "T", Layout: "timeline", Blocks: blocks})
	assert.Contains(t, timeline.String(), "▼")
	assert.Contains(t, timeline.String(), "🔍")

	var grid bytes.Buffer
	RenderBlockLayout(&grid, &api.BlockLayout{Title: "T", Layout: "grid", Blocks: blocks})
	assert.Contains(t, grid.String(), "[ 🔍 Findings ]")
	assert.Contains(t, grid.String(), "[ ✅ Actions ]")
}
