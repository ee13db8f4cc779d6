package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/priyamdev/bolo/internal/fsm"
	"github.com/priyamdev/bolo/internal/ipc"
)

type fakeIndicator struct {
	mu          sync.Mutex
	recordings  int
	transcribes int
	errorTexts  []string
	summaries   []string
}

func (f *fakeIndicator) ShowRecording(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordings++
}

func (f *fakeIndicator) ShowTranscribing(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcribes++
}

func (f *fakeIndicator) ShowError(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorTexts = append(f.errorTexts, text)
}

func (f *fakeIndicator) ShowSummary(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, text)
}

func (f *fakeIndicator) lastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errorTexts) == 0 {
		return ""
	}
	return f.errorTexts[len(f.errorTexts)-1]
}

func (f *fakeIndicator) summaryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.summaries)
}

type fakeTranscriber struct {
	startErr    error
	transcript  string
	stopErr     error
	capped      bool
	cancelCalls atomic.Int32
}

func (f *fakeTranscriber) Start(context.Context) error {
	return f.startErr
}

func (f *fakeTranscriber) StopAndTranscribe(context.Context) (StopResult, error) {
	return StopResult{
		Transcript:    f.transcript,
		AudioDevice:   "test mic",
		BytesCaptured: 3200,
		Capped:        f.capped,
		APILatency:    200 * time.Millisecond,
	}, f.stopErr
}

func (f *fakeTranscriber) Cancel(context.Context) error {
	f.cancelCalls.Add(1)
	return nil
}

func TestControllerCancel(t *testing.T) {
	transcriber := &fakeTranscriber{}
	ind := &fakeIndicator{}
	ctrl := NewController(nil, transcriber, nil, ind, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	resp := ctrl.Handle(ctx, ipc.Request{Command: "cancel"})
	if !resp.OK {
		t.Fatalf("cancel response not OK: %+v", resp)
	}

	result := <-resultCh
	if !result.Cancelled {
		t.Fatalf("expected cancelled result, got %+v", result)
	}
	if state := ctrl.State(); state != fsm.StateIdle {
		t.Fatalf("expected idle state after cancel, got %s", state)
	}
	if transcriber.cancelCalls.Load() == 0 {
		t.Fatalf("expected cancel to propagate to transcriber")
	}
	if ind.summaryCount() != 0 {
		t.Fatalf("expected no summary popup on cancel")
	}
}

func TestControllerStopCommitsTranscript(t *testing.T) {
	var committed atomic.Bool
	ind := &fakeIndicator{}
	ctrl := NewController(
		nil,
		&fakeTranscriber{transcript: "chai peene chalein kya"},
		CommitFunc(func(context.Context, string) error {
			committed.Store(true)
			return nil
		}),
		ind,
		true,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	resp := ctrl.Handle(ctx, ipc.Request{Command: "stop"})
	if !resp.OK {
		t.Fatalf("stop response not OK: %+v", resp)
	}

	result := <-resultCh
	if result.Err != nil {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if result.Transcript != "chai peene chalein kya" {
		t.Fatalf("unexpected transcript: %q", result.Transcript)
	}
	if result.AudioDevice != "test mic" {
		t.Fatalf("unexpected audio device: %q", result.AudioDevice)
	}
	if result.BytesCaptured != 3200 {
		t.Fatalf("unexpected bytes captured: %d", result.BytesCaptured)
	}
	if result.ID == "" {
		t.Fatalf("expected a session id on result")
	}
	if !committed.Load() {
		t.Fatalf("expected committer to run")
	}
	if ind.summaryCount() != 1 {
		t.Fatalf("expected one summary popup, got %d", ind.summaryCount())
	}
	if !strings.Contains(ind.summaries[0], "4 words") {
		t.Fatalf("unexpected summary text: %q", ind.summaries[0])
	}
}

func TestControllerSummaryDisabled(t *testing.T) {
	ind := &fakeIndicator{}
	ctrl := NewController(nil, &fakeTranscriber{transcript: "hello"}, nil, ind, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	ctrl.Handle(ctx, ipc.Request{Command: "stop"})

	result := <-resultCh
	if result.Err != nil {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if ind.summaryCount() != 0 {
		t.Fatalf("expected no summary popup when disabled")
	}
}

func TestControllerStopPipelineError(t *testing.T) {
	ind := &fakeIndicator{}
	ctrl := NewController(nil, &fakeTranscriber{stopErr: ErrPipelineUnavailable}, nil, ind, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	resp := ctrl.Handle(ctx, ipc.Request{Command: "toggle"})
	if !resp.OK {
		t.Fatalf("toggle response not OK: %+v", resp)
	}

	result := <-resultCh
	if !errors.Is(result.Err, ErrPipelineUnavailable) {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if state := ctrl.State(); state != fsm.StateIdle {
		t.Fatalf("expected idle after error reset, got %s", state)
	}
	if ind.lastError() != "Speech recognition failed" {
		t.Fatalf("unexpected error popup: %q", ind.lastError())
	}
}

func TestControllerStopEmptyTranscriptReturnsError(t *testing.T) {
	var committed atomic.Bool
	ind := &fakeIndicator{}
	ctrl := NewController(
		nil,
		&fakeTranscriber{transcript: "   "},
		CommitFunc(func(context.Context, string) error {
			committed.Store(true)
			return nil
		}),
		ind,
		true,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	resp := ctrl.Handle(ctx, ipc.Request{Command: "stop"})
	if !resp.OK {
		t.Fatalf("stop response not OK: %+v", resp)
	}

	result := <-resultCh
	if !errors.Is(result.Err, ErrEmptyTranscript) {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if committed.Load() {
		t.Fatalf("expected committer not to run for empty transcript")
	}
	if state := ctrl.State(); state != fsm.StateIdle {
		t.Fatalf("expected idle after empty transcript error reset, got %s", state)
	}
	if ind.lastError() != "No speech detected" {
		t.Fatalf("unexpected error popup: %q", ind.lastError())
	}
	if ind.summaryCount() != 0 {
		t.Fatalf("expected no summary popup on failure")
	}
}

func TestControllerCommitFailure(t *testing.T) {
	commitErr := errors.New("clipboard busy")
	ind := &fakeIndicator{}
	ctrl := NewController(
		nil,
		&fakeTranscriber{transcript: "hello"},
		CommitFunc(func(context.Context, string) error { return commitErr }),
		ind,
		true,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- ctrl.Run(ctx)
	}()

	waitForState(t, ctrl, fsm.StateRecording)
	ctrl.Handle(ctx, ipc.Request{Command: "stop"})

	result := <-resultCh
	if !errors.Is(result.Err, commitErr) {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if result.Transcript != "hello" {
		t.Fatalf("expected transcript on result even when commit fails, got %q", result.Transcript)
	}
	if ind.lastError() != "Output dispatch failed" {
		t.Fatalf("unexpected error popup: %q", ind.lastError())
	}
	if state := ctrl.State(); state != fsm.StateIdle {
		t.Fatalf("expected idle after commit failure reset, got %s", state)
	}
}

func TestControllerStartFailure(t *testing.T) {
	startErr := errors.New("no input devices")
	ind := &fakeIndicator{}
	ctrl := NewController(nil, &fakeTranscriber{startErr: startErr}, nil, ind, true)

	result := ctrl.Run(context.Background())
	if !errors.Is(result.Err, startErr) {
		t.Fatalf("unexpected result error: %v", result.Err)
	}
	if state := ctrl.State(); state != fsm.StateIdle {
		t.Fatalf("expected idle after start failure reset, got %s", state)
	}
	if ind.lastError() != "Unable to start recording" {
		t.Fatalf("unexpected error popup: %q", ind.lastError())
	}
}

func waitForState(t *testing.T, ctrl *Controller, desired fsm.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.State() == desired {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s (current=%s)", desired, ctrl.State())
}
