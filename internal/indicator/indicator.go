// Package indicator surfaces dictation state through desktop notifications.
package indicator

import (
	"context"
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appTitle = "bolo"

// Desktop is the notification-backed indicator used by runtime sessions.
type Desktop struct {
	logger   *slog.Logger
	messages messages

	// Seams for tests.
	notify func(title, message, icon string) error
	alert  func(title, message, icon string) error
}

// NewDesktop creates a desktop-notification indicator.
func NewDesktop(logger *slog.Logger) *Desktop {
	return &Desktop{
		logger:   logger,
		messages: indicatorMessagesFromEnv(),
		notify:   beeep.Notify,
		alert:    beeep.Alert,
	}
}

// ShowRecording signals recording start.
func (d *Desktop) ShowRecording(context.Context) {
	d.dispatch(d.notify, d.messages.recording)
}

// ShowTranscribing signals the post-capture transcription state.
func (d *Desktop) ShowTranscribing(context.Context) {
	d.dispatch(d.notify, d.messages.processing)
}

// ShowError raises an alert-level notification.
func (d *Desktop) ShowError(_ context.Context, text string) {
	if text == "" {
		text = d.messages.errorText
	}
	d.dispatch(d.alert, text)
}

// ShowSummary displays the end-of-session summary popup.
func (d *Desktop) ShowSummary(_ context.Context, summary string) {
	d.dispatch(d.notify, summary)
}

func (d *Desktop) dispatch(fn func(title, message, icon string) error, message string) {
	if err := fn(appTitle, message, ""); err != nil {
		d.log("indicator dispatch failed", err)
	}
}

// log emits debug-only indicator failures to the runtime logger.
func (d *Desktop) log(message string, err error) {
	if d.logger == nil || err == nil {
		return
	}
	d.logger.Debug(message, "error", err.Error())
}
