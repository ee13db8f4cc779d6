// Package web serves the browser speech-engine variant: a localhost page
// running two overlapping recognition instances that stream final segments
// back over /transcript.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/priyamdev/bolo/internal/config"
	"github.com/priyamdev/bolo/internal/session"
	"github.com/priyamdev/bolo/internal/transcript"
)

// StateFunc reports the current dictation state for /status.
type StateFunc func() (state string, recording bool)

// LogsFunc supplies recent log lines for /status when the debug panel
// is enabled.
type LogsFunc func() []string

// Server hosts the speech page and its transcript ingestion endpoints.
type Server struct {
	settings config.Settings
	logger   *slog.Logger
	commit   session.Committer
	state    StateFunc
	logs     LogsFunc

	engine *gin.Engine
	http   *http.Server
}

// New builds the server. commit receives one call per final recognition
// segment; state feeds the /status endpoint and may be nil, as may logs.
func New(settings config.Settings, logger *slog.Logger, commit session.Committer, state StateFunc, logs LogsFunc) *Server {
	if commit == nil {
		commit = session.CommitFunc(func(context.Context, string) error { return nil })
	}
	if state == nil {
		state = func() (string, bool) { return "idle", false }
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		settings: settings,
		logger:   logger,
		commit:   commit,
		state:    state,
		logs:     logs,
		engine:   engine,
	}

	engine.GET("/", s.handlePage)
	engine.GET("/transcript", s.handleTranscript)
	engine.GET("/status", s.handleStatus)
	engine.GET("/healthz", s.handleHealthz)

	s.http = &http.Server{
		Addr:         s.Addr(),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the host:port the server binds.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.settings.Server.Host, s.settings.Server.Port)
}

// URL returns the browser-facing base URL.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	s.logger.Info("speech server listening", "url", s.URL())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown speech server: %w", err)
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("speech server: %w", err)
	}
}

func (s *Server) handlePage(c *gin.Context) {
	preset, _ := transcript.Resolve(s.settings.Mode, s.settings.Language)

	data := pageData{
		Language:       preset.BCP47,
		Hotkey:         s.settings.Hotkey,
		SessionMS:      s.settings.Speech.SessionMS,
		OverlapMS:      s.settings.Speech.OverlapMS,
		RestartDelayMS: s.settings.Speech.RestartDelayMS,
		DebugPanel:     s.settings.DebugPanel,
		AutoStart:      c.Query("action") == "start",
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.logger.Error("render speech page", "error", err)
		c.String(http.StatusInternalServerError, "could not render speech page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleTranscript ingests one final recognition segment. Each segment is
// committed immediately so text lands at the focus as it is spoken.
func (s *Server) handleTranscript(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.String(http.StatusBadRequest, "no transcript text provided")
		return
	}

	normalized := transcript.Assemble([]string{text}, transcript.Options{TrailingSpace: true})
	if err := s.commit.Commit(c.Request.Context(), normalized); err != nil {
		s.logger.Error("commit transcript segment", "error", err, "chars", len(text))
		c.String(http.StatusInternalServerError, "failed to process transcript")
		return
	}

	s.logger.Info("transcript segment committed", "chars", len(text))
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleStatus(c *gin.Context) {
	state, recording := s.state()
	payload := gin.H{
		"status":    "running",
		"state":     state,
		"recording": recording,
	}
	if s.settings.DebugPanel && s.logs != nil {
		payload["log"] = s.logs()
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
