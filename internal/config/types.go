// Package config loads, validates, and persists the bolo settings file.
package config

// Settings is the fully materialized runtime configuration used by bolo.
// It maps 1:1 onto the flat JSON settings file and is written back
// wholesale on every change.
type Settings struct {
	// Mode is a free-form output-mode tag ("hinglish", "english", ...).
	// It selects the language hint and prompt preset for transcription.
	Mode string `json:"mode"`
	// APIKey is the transcription API credential. The OPENAI_API_KEY
	// environment variable overrides it.
	APIKey         string `json:"api_key"`
	DebugPanel     bool   `json:"debug_panel"`
	SessionSummary bool   `json:"session_summary"`
	Hotkey         string `json:"hotkey"`
	// Language overrides the mode preset's language hint when set.
	Language string `json:"language,omitempty"`

	Audio  AudioSettings  `json:"audio"`
	Paste  PasteSettings  `json:"paste"`
	Server ServerSettings `json:"server"`
	Speech SpeechSettings `json:"speech"`
}

// AudioSettings controls input-device selection and the recording cap.
type AudioSettings struct {
	Input      string `json:"input"`
	MaxSeconds int    `json:"max_seconds"`
}

// PasteSettings controls post-commit paste behavior.
type PasteSettings struct {
	Enable   bool   `json:"enable"`
	Shortcut string `json:"shortcut"`
}

// ServerSettings locates the localhost server for the browser variant.
type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SpeechSettings tunes the browser engine's dual-instance handoff. The
// vendor caps one recognition session at 60 seconds; SessionMS schedules
// the switch below that, OverlapMS keeps both instances live across it.
type SpeechSettings struct {
	SessionMS      int `json:"session_ms"`
	OverlapMS      int `json:"overlap_ms"`
	RestartDelayMS int `json:"restart_delay_ms"`
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Message string
}

// Default returns the canonical settings used when no file is present.
func Default() Settings {
	return Settings{
		Mode:           "hinglish",
		SessionSummary: true,
		Hotkey:         "ctrl+shift+space",
		Audio: AudioSettings{
			Input:      "default",
			MaxSeconds: 120,
		},
		Paste: PasteSettings{
			Enable:   true,
			Shortcut: "ctrl+v",
		},
		Server: ServerSettings{
			Host: "localhost",
			Port: 8899,
		},
		Speech: SpeechSettings{
			SessionMS:      55000,
			OverlapMS:      2000,
			RestartDelayMS: 50,
		},
	}
}
