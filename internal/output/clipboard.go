// Package output applies transcript commit side effects (clipboard and paste).
package output

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/priyamdev/bolo/internal/config"
)

// Committer applies transcript output side effects (clipboard + optional paste).
type Committer struct {
	settings config.Settings
	logger   *slog.Logger

	// Seams for tests; production wiring uses the package defaults.
	writeClipboard func(string) error
	readClipboard  func() (string, error)
	sendPaste      func(shortcut string) error
}

// NewCommitter constructs a transcript committer from runtime settings.
func NewCommitter(settings config.Settings, logger *slog.Logger) *Committer {
	return &Committer{
		settings:       settings,
		logger:         logger,
		writeClipboard: clipboard.WriteAll,
		readClipboard:  clipboard.ReadAll,
		sendPaste:      sendPasteChord,
	}
}

// Commit writes transcript text to the clipboard and optionally dispatches
// the paste chord. Clipboard failure fails the commit; paste failure is
// logged and the clipboard remains set.
func (c *Committer) Commit(ctx context.Context, transcript string) error {
	if transcript == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.writeClipboard(transcript); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}

	// A mismatch here means another clipboard manager raced us; surface
	// it rather than pasting someone else's content.
	if stored, err := c.readClipboard(); err == nil && stored != transcript {
		return fmt.Errorf("clipboard content changed before paste")
	}

	if !c.settings.Paste.Enable {
		return nil
	}

	if err := c.sendPaste(c.settings.Paste.Shortcut); err != nil {
		c.logPasteFailure(err)
	}
	return nil
}

// logPasteFailure records paste errors while preserving clipboard success semantics.
func (c *Committer) logPasteFailure(err error) {
	if c.logger == nil || err == nil {
		return
	}
	c.logger.Error("paste dispatch failed; clipboard remains set", "error", err.Error())
}
