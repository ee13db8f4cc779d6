// Package pipeline owns the capture -> upload -> transcript flow for the
// cloud transcription path.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/priyamdev/bolo/internal/audio"
	"github.com/priyamdev/bolo/internal/config"
	"github.com/priyamdev/bolo/internal/session"
	"github.com/priyamdev/bolo/internal/transcript"
	"github.com/priyamdev/bolo/internal/whisper"
)

// Transcriber records from one input device and submits the whole take as
// a single WAV upload on stop. One instance serves one session cycle.
type Transcriber struct {
	settings config.Settings
	logger   *slog.Logger
	client   *whisper.Client

	mu        sync.Mutex
	started   bool
	selection audio.Selection
	capture   *audio.Capture
}

// NewTranscriber constructs a pipeline transcriber from runtime settings.
func NewTranscriber(settings config.Settings, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		settings: settings,
		logger:   logger,
		client:   whisper.NewClient(settings.APIKey),
	}
}

// Start resolves device selection and begins capture.
func (t *Transcriber) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transcriber already started")
	}

	selection, err := audio.SelectDevice(ctx, t.settings.Audio.Input)
	if err != nil {
		return err
	}
	t.selection = selection
	if selection.Warning != "" {
		t.logWarn(selection.Warning)
	}

	maxDuration := time.Duration(t.settings.Audio.MaxSeconds) * time.Second
	capture, err := audio.StartCapture(ctx, selection.Device, maxDuration)
	if err != nil {
		return err
	}
	t.capture = capture

	t.started = true
	return nil
}

// StopAndTranscribe stops capture, uploads the recording, and returns the
// normalized transcript.
func (t *Transcriber) StopAndTranscribe(ctx context.Context) (session.StopResult, error) {
	t.mu.Lock()
	started := t.started
	capture := t.capture
	selection := t.selection
	t.mu.Unlock()

	if !started || capture == nil {
		return session.StopResult{}, session.ErrPipelineUnavailable
	}

	_ = capture.Stop()

	result := session.StopResult{
		AudioDevice:   selection.Device.Name,
		BytesCaptured: capture.BytesCaptured(),
		Capped:        capture.Capped(),
	}
	if result.Capped {
		t.logWarn(fmt.Sprintf("recording hit the %ds cap; trailing audio was dropped", t.settings.Audio.MaxSeconds))
	}

	samples := capture.Samples()
	if len(samples) == 0 {
		return result, nil
	}

	wavPath, err := audio.WriteTempWAV(samples)
	if err != nil {
		return result, err
	}
	defer func() { _ = os.Remove(wavPath) }()

	preset, _ := transcript.Resolve(t.settings.Mode, t.settings.Language)

	uploadStart := time.Now()
	text, err := t.client.Transcribe(ctx, whisper.Request{
		AudioPath: wavPath,
		Language:  preset.Language,
		Prompt:    preset.Prompt,
	})
	result.APILatency = time.Since(uploadStart)
	if err != nil {
		return result, fmt.Errorf("transcribe recording: %w", err)
	}

	result.Transcript = transcript.Assemble([]string{text}, transcript.Options{TrailingSpace: true})
	return result, nil
}

// Cancel stops capture and discards the recording.
func (t *Transcriber) Cancel(context.Context) error {
	t.mu.Lock()
	capture := t.capture
	t.mu.Unlock()

	if capture != nil {
		return capture.Stop()
	}
	return nil
}

func (t *Transcriber) logWarn(msg string) {
	if t.logger != nil {
		t.logger.Warn(msg)
	}
}
