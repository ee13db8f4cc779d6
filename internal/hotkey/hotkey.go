// Package hotkey registers the global dictation chord and dispatches presses.
package hotkey

import (
	"context"
	"fmt"
	"log/slog"

	"golang.design/x/hotkey"
)

// Chord is a parsed modifier+key combination ready for registration.
type Chord struct {
	Mods  []hotkey.Modifier
	Key   hotkey.Key
	label string
}

// String returns the normalized chord spelling, e.g. "ctrl+shift+space".
func (c Chord) String() string {
	return c.label
}

// Listener owns one registered global chord and its event loop.
type Listener struct {
	chord  Chord
	logger *slog.Logger
	hk     *hotkey.Hotkey
}

// NewListener builds an unregistered listener for the chord.
func NewListener(chord Chord, logger *slog.Logger) *Listener {
	return &Listener{chord: chord, logger: logger}
}

// Register claims the chord with the window system.
func (l *Listener) Register() error {
	hk := hotkey.New(l.chord.Mods, l.chord.Key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w", l.chord, err)
	}
	l.hk = hk
	return nil
}

// Unregister releases the chord. Safe to call when never registered.
func (l *Listener) Unregister() {
	if l.hk != nil {
		_ = l.hk.Unregister()
		l.hk = nil
	}
}

// Listen dispatches onPress for each keydown until ctx ends. Dispatch is
// synchronous, so a slow handler naturally debounces repeat presses; any
// keydowns the OS queued meanwhile are drained before listening resumes.
func (l *Listener) Listen(ctx context.Context, onPress func(context.Context)) error {
	if l.hk == nil {
		return fmt.Errorf("hotkey %s is not registered", l.chord)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hk.Keydown():
			onPress(ctx)

		drain:
			for {
				select {
				case <-l.hk.Keydown():
					if l.logger != nil {
						l.logger.Debug("drained queued hotkey press", "chord", l.chord.String())
					}
				default:
					break drain
				}
			}
		}
	}
}
