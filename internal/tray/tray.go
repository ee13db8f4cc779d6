// Package tray runs the system tray surface: status icon, toggle entry,
// and the menu that opens the browser speech panel.
package tray

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getlantern/systray"
)

// Callbacks connect menu activations to application behavior. Nil
// callbacks render their entries inert.
type Callbacks struct {
	// OnToggle starts or stops a dictation session.
	OnToggle func()
	// OnOpenPanel opens the browser speech panel.
	OnOpenPanel func()
	// OnDebugToggle flips the debug panel setting.
	OnDebugToggle func(enabled bool)
}

// Tray owns the system tray icon and menu for one process.
type Tray struct {
	logger    *slog.Logger
	hotkey    string
	debug     bool
	callbacks Callbacks

	toggleItem *systray.MenuItem
}

// New builds an unstarted tray surface.
func New(logger *slog.Logger, hotkey string, debug bool, callbacks Callbacks) *Tray {
	return &Tray{
		logger:    logger,
		hotkey:    hotkey,
		debug:     debug,
		callbacks: callbacks,
	}
}

// Run blocks on the tray main loop until ctx ends or Quit is chosen.
// Systray insists on owning the calling goroutine.
func (t *Tray) Run(ctx context.Context) {
	systray.Run(func() { t.onReady(ctx) }, func() {
		t.logger.Info("tray exited")
	})
}

// SetRecording switches the icon and toggle entry between states.
func (t *Tray) SetRecording(recording bool) {
	if recording {
		systray.SetIcon(IconRecording())
		systray.SetTooltip("bolo: recording")
		if t.toggleItem != nil {
			t.toggleItem.SetTitle(t.toggleTitle("Stop Recording"))
		}
		return
	}
	systray.SetIcon(IconIdle())
	systray.SetTooltip("bolo: idle")
	if t.toggleItem != nil {
		t.toggleItem.SetTitle(t.toggleTitle("Start Recording"))
	}
}

func (t *Tray) toggleTitle(action string) string {
	return fmt.Sprintf("%s (%s)", action, t.hotkey)
}

func (t *Tray) onReady(ctx context.Context) {
	systray.SetIcon(IconIdle())
	systray.SetTitle("bolo")
	systray.SetTooltip("bolo: idle")

	t.toggleItem = systray.AddMenuItem(t.toggleTitle("Start Recording"), "Toggle dictation")
	panelItem := systray.AddMenuItem("Open Web Panel", "Open the browser speech panel")
	debugItem := systray.AddMenuItemCheckbox("Debug Panel", "Show debug info on the speech page", t.debug)
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Exit bolo")

	go func() {
		for {
			select {
			case <-ctx.Done():
				systray.Quit()
				return
			case <-t.toggleItem.ClickedCh:
				if t.callbacks.OnToggle != nil {
					t.callbacks.OnToggle()
				}
			case <-panelItem.ClickedCh:
				if t.callbacks.OnOpenPanel != nil {
					t.callbacks.OnOpenPanel()
				}
			case <-debugItem.ClickedCh:
				t.debug = !t.debug
				if t.debug {
					debugItem.Check()
				} else {
					debugItem.Uncheck()
				}
				if t.callbacks.OnDebugToggle != nil {
					t.callbacks.OnDebugToggle(t.debug)
				}
			case <-quitItem.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}
