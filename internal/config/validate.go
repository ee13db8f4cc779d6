package config

import (
	"fmt"
	"strings"
)

// Validate enforces settings invariants and returns non-fatal warnings.
func Validate(settings Settings) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(settings.Mode) == "" {
		return nil, fmt.Errorf("mode must not be empty")
	}
	if strings.TrimSpace(settings.Hotkey) == "" {
		return nil, fmt.Errorf("hotkey must not be empty")
	}
	if settings.Audio.MaxSeconds <= 0 {
		return nil, fmt.Errorf("audio.max_seconds must be > 0")
	}
	if strings.TrimSpace(settings.Server.Host) == "" {
		return nil, fmt.Errorf("server.host must not be empty")
	}
	if settings.Server.Port <= 0 || settings.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port must be in 1..65535")
	}
	if settings.Speech.SessionMS <= 0 {
		return nil, fmt.Errorf("speech.session_ms must be > 0")
	}
	if settings.Speech.OverlapMS < 0 {
		return nil, fmt.Errorf("speech.overlap_ms must be >= 0")
	}
	if settings.Speech.OverlapMS >= settings.Speech.SessionMS {
		return nil, fmt.Errorf("speech.overlap_ms must be shorter than speech.session_ms")
	}
	if settings.Speech.RestartDelayMS < 0 {
		return nil, fmt.Errorf("speech.restart_delay_ms must be >= 0")
	}
	if settings.Paste.Enable && strings.TrimSpace(settings.Paste.Shortcut) == "" {
		return nil, fmt.Errorf("paste.shortcut must not be empty when paste.enable=true")
	}

	if settings.Speech.SessionMS > 58000 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("speech.session_ms=%d leaves little headroom below the 60s engine cap", settings.Speech.SessionMS),
		})
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		warnings = append(warnings, Warning{
			Message: "api_key is empty; cloud transcription will fail until one is set",
		})
	}

	return warnings, nil
}
