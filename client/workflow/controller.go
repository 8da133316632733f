// Package workflow drives a generation from input to result: it
// validates locally, issues the single backend call, paces the staged
// progress display, and holds the outcome.
package workflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/graphgen/infographic-api/client/api"
	"github.com/graphgen/infographic-api/client/store"
)

// Stage is one step of the generation progress indicator. Stages are
// strictly increasing within a cycle.
type Stage int

const (
	StageIdle Stage = iota
	StageSubmitting
	StageExtractingText
	StageBuildingBlueprint
	StageCompilingPrompt
	StageRendering
	StageSucceeded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSubmitting:
		return "submitting"
	case StageExtractingText:
		return "extracting text"
	case StageBuildingBlueprint:
		return "building blueprint"
	case StageCompilingPrompt:
		return "compiling prompt"
	case StageRendering:
		return "rendering"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultStageDelay paces the cosmetic progress stages.
const DefaultStageDelay = 900 * time.Millisecond

// ContributorCap mirrors the server-side contributor limit. The local
// check is UX only; the server remains authoritative.
const ContributorCap = 2

// Validation failures. All are raised before any network call.
var (
	ErrBusy             = errors.New("a generation is already in progress")
	ErrNotAuthenticated = errors.New("log in to generate infographics")
	ErrEmptyInput       = errors.New("No text or file provided")
	ErrNotPDF           = errors.New("Only PDF files are supported")
	ErrQuotaExceeded    = errors.New("Usage limit reached. Contact admin for more access.")
	ErrNoResult         = errors.New("no result to export")
)

// GenerateClient is the slice of the API client the controller needs.
type GenerateClient interface {
	Generate(ctx context.Context, input api.GenerateInput) (*api.GenerateResponse, error)
	Usage(ctx context.Context, username string) (*api.UsageResponse, error)
}

// Settings are the user-selectable generation options. Zero values are
// omitted from the request; the backend applies its defaults.
type Settings struct {
	Layout      string
	Creativity  string
	Palette     string
	TextDensity string
	Tone        string
	Render      string
}

func (s Settings) values() map[string]string {
	out := make(map[string]string)
	set := func(key, val string) {
		if val != "" {
			out[key] = val
		}
	}
	set("layout", s.Layout)
	set("creativity", s.Creativity)
	set("palette", s.Palette)
	set("textDensity", s.TextDensity)
	set("tone", s.Tone)
	set("render", s.Render)
	return out
}

// Input is one submission.
type Input struct {
	Text     string
	FilePath string
	Settings Settings
}

// Controller owns the generation workflow state. One submission at a
// time: a Submit while another is in flight is rejected, not queued.
type Controller struct {
	client     GenerateClient
	auth       *store.AuthStore
	onStage    func(Stage)
	stageDelay time.Duration

	mu       sync.Mutex
	stage    Stage
	finished bool
	inFlight bool
	result   *api.Result
	raw      json.RawMessage
	errMsg   string

	used int
}

// Option configures a Controller.
type Option func(*Controller)

// WithStageHook registers a callback invoked on every stage change.
func WithStageHook(hook func(Stage)) Option {
	return func(c *Controller) { c.onStage = hook }
}

// WithStageDelay overrides the cosmetic pacing delay.
func WithStageDelay(d time.Duration) Option {
	return func(c *Controller) { c.stageDelay = d }
}

func NewController(client GenerateClient, auth *store.AuthStore, opts ...Option) *Controller {
	c := &Controller{
		client:     client,
		auth:       auth,
		stage:      StageIdle,
		stageDelay: DefaultStageDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RefreshUsage fetches the server-side usage count once, typically at
// session start. Later successes are counted locally.
func (c *Controller) RefreshUsage(ctx context.Context) error {
	session, ok := c.auth.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	resp, err := c.client.Usage(ctx, session.Username)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.used = resp.UsageCount
	c.mu.Unlock()
	return nil
}

// UsageRemaining returns the local view of remaining generations; -1
// means unlimited.
func (c *Controller) UsageRemaining() int {
	session, ok := c.auth.Current()
	if !ok {
		return 0
	}
	if session.Role == "admin" {
		return -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining := ContributorCap - c.used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Submit runs one generation cycle. Preconditions (authenticated,
// non-empty input, PDF file type, remaining quota) are checked before
// any network call; a violation returns the error with no request
// issued. Exactly one HTTP request is made per accepted submit.
func (c *Controller) Submit(ctx context.Context, input Input) (*api.Result, error) {
	session, err := c.accept(input)
	if err != nil {
		return nil, err
	}
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	var file *os.File
	genInput := api.GenerateInput{
		Text:     input.Text,
		Settings: input.Settings.values(),
		Username: session.Username,
	}
	if input.FilePath != "" {
		file, err = os.Open(input.FilePath)
		if err != nil {
			return nil, c.fail(fmt.Sprintf("opening file: %v", err), nil)
		}
		defer file.Close()
		genInput.FileName = input.FilePath
		genInput.File = file
	}

	// Cosmetic pacing only. The backend does not report incremental
	// progress; these stages advance on local timers and the finisher
	// walks any not yet reached, so the displayed order is always
	// extract, blueprint, compile, render.
	stopPacing := c.startPacing()
	defer stopPacing()

	resp, err := c.client.Generate(ctx, genInput)
	if err != nil {
		return nil, c.fail(err.Error(), nil)
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "Generation failed"
		}
		return nil, c.fail(msg, resp.Raw)
	}

	result := resp.Result()
	if result == nil {
		return nil, c.fail("Generation returned no result", resp.Raw)
	}
	c.succeed(result)
	return result, nil
}

// accept validates preconditions and claims the in-flight slot.
func (c *Controller) accept(input Input) (*api.Session, error) {
	session, loggedIn := c.auth.Current()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, ErrBusy
	}

	var err error
	switch {
	case !loggedIn:
		err = ErrNotAuthenticated
	case strings.TrimSpace(input.Text) == "" && input.FilePath == "":
		err = ErrEmptyInput
	case input.FilePath != "" && !strings.HasSuffix(strings.ToLower(input.FilePath), ".pdf"):
		err = ErrNotPDF
	case session.Role != "admin" && c.used >= ContributorCap:
		err = ErrQuotaExceeded
	}
	if err != nil {
		c.errMsg = err.Error()
		return nil, err
	}

	c.inFlight = true
	c.finished = false
	c.result = nil
	c.raw = nil
	c.errMsg = ""
	c.stage = StageIdle
	c.walkLocked(StageSubmitting)
	return session, nil
}

// startPacing advances the four cosmetic stages on fixed delays until
// the cycle finishes or all have been shown.
func (c *Controller) startPacing() (stop func()) {
	done := make(chan struct{})
	go func() {
		for next := StageExtractingText; next <= StageRendering; next++ {
			select {
			case <-done:
				return
			case <-time.After(c.stageDelay):
			}
			c.mu.Lock()
			if c.finished {
				c.mu.Unlock()
				return
			}
			c.walkLocked(next)
			c.mu.Unlock()
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// walkLocked advances one stage at a time up to target, never
// regressing or skipping. Caller holds c.mu.
func (c *Controller) walkLocked(target Stage) {
	for c.stage < target {
		c.stage++
		if c.onStage != nil {
			c.onStage(c.stage)
		}
	}
}

func (c *Controller) succeed(result *api.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The response may beat the timers; walk any stage not yet shown
	// so the sequence completes before the terminal state.
	c.walkLocked(StageRendering)
	c.finished = true
	c.result = result
	c.used++
	c.walkLocked(StageSucceeded)
}

func (c *Controller) fail(msg string, raw json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = true
	c.errMsg = msg
	c.raw = raw
	c.stage = StageFailed
	if c.onStage != nil {
		c.onStage(StageFailed)
	}
	return errors.New(msg)
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Result returns the held generation result, if any.
func (c *Controller) Result() *api.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the last user-visible error message.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Raw returns the retained debug payload from a failed generation.
func (c *Controller) Raw() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// Clear resets result, error, and stage. Pure local reset.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.result = nil
	c.raw = nil
	c.errMsg = ""
	c.stage = StageIdle
}

// Download writes the held result to path: the decoded image for a
// RenderedImage, indented JSON for a BlockLayout. A failure leaves the
// held result untouched.
func (c *Controller) Download(path string) error {
	c.mu.Lock()
	result := c.result
	c.mu.Unlock()

	if result == nil {
		return ErrNoResult
	}

	var data []byte
	var err error
	switch {
	case result.Image != nil:
		data, err = base64.StdEncoding.DecodeString(result.Image.Base64Data)
		if err != nil {
			return fmt.Errorf("decoding image: %w", err)
		}
	case result.Layout != nil:
		data, err = json.MarshalIndent(result.Layout, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding layout: %w", err)
		}
	default:
		return ErrNoResult
	}
	return os.WriteFile(path, data, 0644)
}
