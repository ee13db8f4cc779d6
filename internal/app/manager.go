package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/priyamdev/bolo/internal/config"
	"github.com/priyamdev/bolo/internal/fsm"
	"github.com/priyamdev/bolo/internal/indicator"
	"github.com/priyamdev/bolo/internal/ipc"
	"github.com/priyamdev/bolo/internal/output"
	"github.com/priyamdev/bolo/internal/pipeline"
	"github.com/priyamdev/bolo/internal/session"
)

// manager runs dictation sessions inside a long-lived process (tray mode).
// Each toggle spins up one controller for one cycle; the manager tracks
// the active one so hotkey presses, menu clicks, and IPC commands all hit
// the same session.
type manager struct {
	// runCtx bounds session lifetimes to the owning process, not to the
	// hotkey callback or IPC connection that triggered the toggle.
	runCtx  context.Context
	logger  *slog.Logger
	onState func(recording bool)

	mu         sync.Mutex
	settings   config.Settings
	controller *session.Controller
}

func newManager(runCtx context.Context, logger *slog.Logger, settings config.Settings, onState func(bool)) *manager {
	if onState == nil {
		onState = func(bool) {}
	}
	return &manager{runCtx: runCtx, logger: logger, settings: settings, onState: onState}
}

// Settings returns a snapshot of the current settings.
func (m *manager) Settings() config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// SetDebugPanel flips the debug panel flag for subsequently served pages.
func (m *manager) SetDebugPanel(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.DebugPanel = enabled
}

// State reports the active session state for /status and the tray icon.
func (m *manager) State() (string, bool) {
	m.mu.Lock()
	controller := m.controller
	m.mu.Unlock()

	if controller == nil {
		return string(fsm.StateIdle), false
	}
	state := controller.State()
	return string(state), state == fsm.StateRecording
}

// Toggle starts a session when idle, or requests stop on the active one.
func (m *manager) Toggle(ctx context.Context) {
	m.mu.Lock()
	controller := m.controller
	if controller != nil {
		m.mu.Unlock()
		resp := controller.Handle(ctx, ipc.Request{Command: "toggle"})
		if !resp.OK {
			m.logger.Warn("toggle rejected", "state", resp.State, "error", resp.Error)
		}
		return
	}

	controller = m.newControllerLocked()
	m.controller = controller
	m.mu.Unlock()

	m.onState(true)
	go func() {
		result := controller.Run(m.runCtx)
		logSessionResult(m.logger, result)

		m.mu.Lock()
		m.controller = nil
		m.mu.Unlock()
		m.onState(false)
	}()
}

// Handle serves IPC commands, starting a session when toggle arrives idle.
func (m *manager) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	m.mu.Lock()
	controller := m.controller
	m.mu.Unlock()

	if controller != nil {
		return controller.Handle(ctx, req)
	}

	switch req.Command {
	case "status":
		state, _ := m.State()
		return ipc.Response{OK: true, State: state, Message: "status"}
	case "toggle":
		m.Toggle(ctx)
		return ipc.Response{OK: true, State: string(fsm.StateRecording), Message: "recording started"}
	default:
		state, _ := m.State()
		return ipc.Response{OK: false, State: state, Error: "no active session"}
	}
}

// newControllerLocked builds one single-cycle controller. Caller holds mu.
func (m *manager) newControllerLocked() *session.Controller {
	return session.NewController(
		m.logger,
		pipeline.NewTranscriber(m.settings, m.logger),
		output.NewCommitter(m.settings, m.logger),
		indicator.NewDesktop(m.logger),
		m.settings.SessionSummary,
	)
}
