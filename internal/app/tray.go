package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/priyamdev/bolo/internal/config"
	"github.com/priyamdev/bolo/internal/hotkey"
	"github.com/priyamdev/bolo/internal/ipc"
	"github.com/priyamdev/bolo/internal/logging"
	"github.com/priyamdev/bolo/internal/output"
	"github.com/priyamdev/bolo/internal/tray"
	"github.com/priyamdev/bolo/internal/web"
)

// commandTray runs the long-lived surface: tray icon, global hotkey,
// speech server supervisor, and the IPC socket so one-shot CLI commands
// reach the same sessions.
func (r Runner) commandTray(ctx context.Context, loaded config.Loaded, logRuntime logging.Runtime, logger *slog.Logger) int {
	settings := loaded.Settings

	chord, err := hotkey.ParseChord(settings.Hotkey)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: another bolo instance owns the control socket")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = listener.Close() }()

	trayCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := newManager(trayCtx, logger, settings, nil)

	surfaceCallbacks := tray.Callbacks{
		OnToggle: func() { mgr.Toggle(trayCtx) },
		OnOpenPanel: func() {
			url := web.OpenBrowserURL(settings.Server.Host, settings.Server.Port)
			if err := openBrowser(url); err != nil {
				logger.Error("open web panel", "url", url, "error", err)
			}
		},
		OnDebugToggle: func(enabled bool) {
			mgr.SetDebugPanel(enabled)
			logRuntime.SetDebug(enabled)
			persisted := mgr.Settings()
			// Never write an env-resolved credential into the file.
			persisted.APIKey = loaded.FileAPIKey
			if err := config.Save(loaded.Path, persisted); err != nil {
				logger.Error("persist debug panel setting", "error", err)
			}
		},
	}
	surface := tray.New(logger, settings.Hotkey, settings.DebugPanel, surfaceCallbacks)
	mgr.onState = surface.SetRecording

	go func() {
		if err := ipc.Serve(trayCtx, listener, ipc.HandlerFunc(mgr.Handle)); err != nil {
			logger.Error("ipc server failed", "error", err)
		}
	}()

	supervisor := web.NewSupervisor(logger, func() *web.Server {
		current := mgr.Settings()
		return web.New(current, logger, output.NewCommitter(current, logger), mgr.State, logRuntime.Tail.Lines)
	})
	go func() {
		if err := supervisor.Run(trayCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("speech server supervisor exited", "error", err)
		}
	}()

	keyListener := hotkey.NewListener(chord, logger)
	if err := keyListener.Register(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer keyListener.Unregister()
	go func() {
		_ = keyListener.Listen(trayCtx, mgr.Toggle)
	}()

	logger.Info("tray running", "hotkey", chord.String(), "socket", socketPath)
	surface.Run(trayCtx)
	cancel()
	return 0
}

// commandWeb runs only the browser speech-engine server with its
// health-check supervisor.
func (r Runner) commandWeb(ctx context.Context, settings config.Settings, logRuntime logging.Runtime, logger *slog.Logger) int {
	supervisor := web.NewSupervisor(logger, func() *web.Server {
		return web.New(settings, logger, output.NewCommitter(settings, logger), nil, logRuntime.Tail.Lines)
	})

	fmt.Fprintf(r.Stdout, "speech server at http://%s:%d\n", settings.Server.Host, settings.Server.Port)
	if err := supervisor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func openBrowser(url string) error {
	return exec.Command("xdg-open", url).Start()
}
