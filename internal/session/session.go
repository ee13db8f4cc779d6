// Package session coordinates dictation lifecycle state, actions, and commit flow.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/priyamdev/bolo/internal/fsm"
	"github.com/priyamdev/bolo/internal/ipc"
)

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	ID                 string
	State              fsm.State
	Transcript         string
	Cancelled          bool
	Err                error
	AudioDevice        string
	BytesCaptured      int64
	Capped             bool
	APILatency         time.Duration
	RecordDuration     time.Duration
	TranscribeDuration time.Duration
	StartedAt          time.Time
	FinishedAt         time.Time
}

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	ShowRecording(context.Context)
	ShowTranscribing(context.Context)
	ShowError(context.Context, string)
	ShowSummary(context.Context, string)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowRecording(context.Context)       {}
func (noopIndicator) ShowTranscribing(context.Context)    {}
func (noopIndicator) ShowError(context.Context, string)   {}
func (noopIndicator) ShowSummary(context.Context, string) {}

// Controller orchestrates session state transitions and side effects.
type Controller struct {
	logger     *slog.Logger
	transcribe Transcriber
	commit     Committer
	indicator  Indicator
	summary    bool

	mu     sync.RWMutex
	state  fsm.State
	record *Record

	actions chan action
}

// NewController constructs a session controller with safe default fallbacks.
// When summary is set, each successful cycle ends with a popup describing
// what was transcribed and how long it took.
func NewController(
	logger *slog.Logger,
	transcriber Transcriber,
	committer Committer,
	indicator Indicator,
	summary bool,
) *Controller {
	if transcriber == nil {
		transcriber = PlaceholderTranscriber{}
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	return &Controller{
		logger:     logger,
		transcribe: transcriber,
		commit:     committer,
		indicator:  indicator,
		summary:    summary,
		state:      fsm.StateIdle,
		actions:    make(chan action, 1),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run executes one owner lifecycle from start to stop/cancel/failure completion.
func (c *Controller) Run(ctx context.Context) Result {
	record := NewRecord()
	c.mu.Lock()
	c.record = record
	c.mu.Unlock()

	result := Result{ID: record.ID, StartedAt: record.StartedAt}

	fail := func(err error) Result {
		record.AddError(err)
		result.State = c.State()
		result.Err = err
		result.FinishedAt = time.Now()
		return result
	}

	if err := c.transition(fsm.EventStart); err != nil {
		return fail(err)
	}
	record.Log("recording started")
	c.indicator.ShowRecording(ctx)

	if err := c.transcribe.Start(ctx); err != nil {
		c.indicator.ShowError(ctx, "Unable to start recording")
		c.toErrorAndReset()
		return fail(err)
	}

	select {
	case <-ctx.Done():
		_ = c.transcribe.Cancel(context.Background())
		c.toErrorAndReset()
		return fail(ctx.Err())
	case a := <-c.actions:
		switch a {
		case actionCancel:
			_ = c.transcribe.Cancel(context.Background())
			_ = c.transition(fsm.EventCancel)
			record.Log("recording cancelled")
			result.State = c.State()
			result.Cancelled = true
			result.FinishedAt = time.Now()
			return result
		case actionStop:
			return c.finishStop(ctx, record, result, fail)
		default:
			c.toErrorAndReset()
			return fail(fmt.Errorf("unknown action %d", a))
		}
	}
}

// finishStop runs the transcribe-and-paste tail of the cycle after a stop action.
func (c *Controller) finishStop(ctx context.Context, record *Record, result Result, fail func(error) Result) Result {
	recordDuration := time.Since(record.StartedAt)

	if err := c.transition(fsm.EventStop); err != nil {
		c.toErrorAndReset()
		return fail(err)
	}
	record.Log("recording stopped after %.1fs", recordDuration.Seconds())
	c.indicator.ShowTranscribing(ctx)

	transcribeStart := time.Now()
	stopResult, err := c.transcribe.StopAndTranscribe(ctx)
	transcribeDuration := time.Since(transcribeStart)

	result.AudioDevice = stopResult.AudioDevice
	result.BytesCaptured = stopResult.BytesCaptured
	result.Capped = stopResult.Capped
	result.APILatency = stopResult.APILatency
	result.RecordDuration = recordDuration
	result.TranscribeDuration = transcribeDuration

	if err != nil {
		c.indicator.ShowError(context.Background(), "Speech recognition failed")
		c.toErrorAndReset()
		return fail(err)
	}
	record.Log("transcription finished in %.1fs", transcribeDuration.Seconds())

	if strings.TrimSpace(stopResult.Transcript) == "" {
		c.indicator.ShowError(context.Background(), "No speech detected")
		c.toErrorAndReset()
		result.Transcript = stopResult.Transcript
		return fail(ErrEmptyTranscript)
	}

	if err := c.transition(fsm.EventTranscribed); err != nil {
		c.toErrorAndReset()
		result.Transcript = stopResult.Transcript
		return fail(err)
	}

	if err := c.commit.Commit(ctx, stopResult.Transcript); err != nil {
		c.indicator.ShowError(context.Background(), "Output dispatch failed")
		c.toErrorAndReset()
		result.Transcript = stopResult.Transcript
		return fail(err)
	}
	record.Log("transcript committed")

	if err := c.transition(fsm.EventPasted); err != nil {
		c.toErrorAndReset()
		result.Transcript = stopResult.Transcript
		return fail(err)
	}

	record.Finish(stopResult.Transcript, recordDuration, transcribeDuration, true)
	if c.summary {
		c.indicator.ShowSummary(context.Background(), record.Summary())
	}

	result.State = c.State()
	result.Transcript = stopResult.Transcript
	result.FinishedAt = time.Now()
	return result
}

// SessionLog returns the current record's log entries with any recorded
// failures appended. Empty before the first Run.
func (c *Controller) SessionLog() []string {
	c.mu.RLock()
	record := c.record
	c.mu.RUnlock()
	if record == nil {
		return nil
	}

	lines := record.Logs()
	for _, failure := range record.Errors() {
		lines = append(lines, "error: "+failure)
	}
	return lines
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status", Logs: c.SessionLog()}
	case "toggle":
		return c.requestStop("toggle")
	case "stop":
		return c.requestStop("stop")
	case "cancel":
		return c.requestCancel()
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestStop enqueues a stop action when state permits it.
func (c *Controller) requestStop(source string) ipc.Response {
	state := c.State()
	if state == fsm.StateTranscribing || state == fsm.StatePasting {
		return ipc.Response{OK: false, State: string(state), Error: "already transcribing"}
	}
	if state != fsm.StateRecording {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot %s from state %s", source, state)}
	}

	select {
	case c.actions <- actionStop:
		return ipc.Response{OK: true, State: string(state), Message: "stop requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "stop already requested"}
	}
}

// requestCancel enqueues a cancel action when state permits it.
func (c *Controller) requestCancel() ipc.Response {
	state := c.State()
	if state == fsm.StateTranscribing || state == fsm.StatePasting {
		return ipc.Response{OK: false, State: string(state), Error: "cannot cancel while transcribing"}
	}
	if state != fsm.StateRecording {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
	}

	select {
	case c.actions <- actionCancel:
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "cancel already requested"}
	}
}

// toErrorAndReset transitions to error and back to idle best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

// IsPipelineUnavailable reports whether an error represents missing pipeline wiring.
func IsPipelineUnavailable(err error) bool {
	return errors.Is(err, ErrPipelineUnavailable)
}
