// Package doctor runs runtime readiness diagnostics for config, audio,
// the hotkey, and the transcription API.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/priyamdev/bolo/internal/audio"
	"github.com/priyamdev/bolo/internal/config"
	"github.com/priyamdev/bolo/internal/hotkey"
	"github.com/priyamdev/bolo/internal/transcript"
	"github.com/priyamdev/bolo/internal/whisper"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for loaded settings.
func Run(loaded config.Loaded) Report {
	checks := []Check{
		checkConfig(loaded),
		checkCredential(loaded.Settings),
		checkMode(loaded.Settings),
		checkHotkey(loaded.Settings),
		checkClipboard(),
		checkAudioSelection(loaded.Settings),
		checkAPIReachable(),
	}
	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	if !loaded.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("no file at %q; defaults in effect", loaded.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", loaded.Path)}
}

func checkCredential(settings config.Settings) Check {
	if strings.TrimSpace(settings.APIKey) == "" {
		return Check{Name: "api_key", Pass: false, Message: "no credential; set api_key or OPENAI_API_KEY"}
	}
	return Check{Name: "api_key", Pass: true, Message: "credential is set"}
}

func checkMode(settings config.Settings) Check {
	preset, known := transcript.Resolve(settings.Mode, settings.Language)
	if known {
		return Check{Name: "mode", Pass: true, Message: fmt.Sprintf("%q preset (browser language %s)", settings.Mode, preset.BCP47)}
	}
	return Check{Name: "mode", Pass: true, Message: fmt.Sprintf("%q passed through as a language code", settings.Mode)}
}

func checkHotkey(settings config.Settings) Check {
	chord, err := hotkey.ParseChord(settings.Hotkey)
	if err != nil {
		return Check{Name: "hotkey", Pass: false, Message: err.Error()}
	}
	return Check{Name: "hotkey", Pass: true, Message: fmt.Sprintf("chord %s parses", chord)}
}

func checkClipboard() Check {
	if clipboard.Unsupported {
		return Check{Name: "clipboard", Pass: false, Message: "no clipboard backend; install xclip or xsel"}
	}
	return Check{Name: "clipboard", Pass: true, Message: "clipboard backend available"}
}

// checkAudioSelection runs live device selection to surface device issues.
func checkAudioSelection(settings config.Settings) Check {
	selection, err := audio.SelectDevice(context.Background(), settings.Audio.Input)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.Name)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkAPIReachable probes the transcription endpoint without spending a
// request; any HTTP response at all proves the network path.
func checkAPIReachable() Check {
	client := http.Client{Timeout: 3 * time.Second}
	resp, err := client.Head(whisper.DefaultEndpoint)
	if err != nil {
		return Check{Name: "api.reachable", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	return Check{Name: "api.reachable", Pass: true, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, whisper.DefaultEndpoint)}
}
