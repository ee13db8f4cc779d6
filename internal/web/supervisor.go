package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultProbeInterval = time.Second
	defaultFailLimit     = 3
	restartBackoff       = time.Second
)

// Supervisor keeps one speech server alive: it probes /healthz every
// interval and restarts the server after consecutive probe failures or an
// unexpected exit.
type Supervisor struct {
	logger    *slog.Logger
	newServer func() *Server

	// Interval and FailLimit tune the probe loop; zero values take the
	// defaults.
	Interval  time.Duration
	FailLimit int
}

// NewSupervisor wires a restart loop around servers produced by newServer.
func NewSupervisor(logger *slog.Logger, newServer func() *Server) *Supervisor {
	return &Supervisor{logger: logger, newServer: newServer}
}

// Run supervises until ctx ends.
func (s *Supervisor) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	failLimit := s.FailLimit
	if failLimit <= 0 {
		failLimit = defaultFailLimit
	}

	for {
		if err := s.runOnce(ctx, interval, failLimit); err != nil {
			return err
		}

		s.logger.Warn("speech server restarting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(restartBackoff):
		}
	}
}

// runOnce serves one server instance until it dies or fails health checks.
// A nil return means restart; context errors propagate.
func (s *Supervisor) runOnce(ctx context.Context, interval time.Duration, failLimit int) error {
	server := s.newServer()

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- server.Run(serverCtx)
	}()

	probeURL := server.URL() + "/healthz"
	probeClient := &http.Client{Timeout: interval}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return ctx.Err()
		case err := <-done:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("speech server exited unexpectedly", "error", err)
			return nil
		case <-ticker.C:
			if probe(probeClient, probeURL) {
				failures = 0
				continue
			}
			failures++
			s.logger.Warn("speech server health probe failed", "failures", failures)
			if failures >= failLimit {
				cancel()
				<-done
				return nil
			}
		}
	}
}

func probe(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	return true
}

// OpenBrowserURL is the page address with recording auto-started, used by
// the tray's "Open Web Panel" entry.
func OpenBrowserURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d/?action=start", host, port)
}
