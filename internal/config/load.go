package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Loaded captures the resolved settings path, parsed values, and
// non-fatal warnings.
type Loaded struct {
	Path     string
	Settings Settings
	Warnings []Warning
	Exists   bool
	// FileAPIKey is the credential as stored in the settings file, before
	// any environment override. Writers persist this value so an
	// env-injected key never lands on disk.
	FileAPIKey string
}

// Load resolves, reads, parses, and validates the settings file. A
// missing file is not an error; defaults apply with a warning. An
// OPENAI_API_KEY in the environment (or a .env in the working
// directory) overrides the file credential.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{Path: resolvedPath, Settings: Default()}

	content, err := os.ReadFile(resolvedPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		loaded.Warnings = append(loaded.Warnings, Warning{
			Message: fmt.Sprintf("settings file %q not found; using defaults", resolvedPath),
		})
	case err != nil:
		return Loaded{}, fmt.Errorf("read settings %q: %w", resolvedPath, err)
	default:
		settings, warnings, perr := Parse(content, loaded.Settings)
		if perr != nil {
			return Loaded{}, fmt.Errorf("parse settings %q: %w", resolvedPath, perr)
		}
		loaded.Settings = settings
		loaded.Warnings = append(loaded.Warnings, warnings...)
		loaded.Exists = true
	}

	loaded.FileAPIKey = loaded.Settings.APIKey
	applyEnvCredential(&loaded.Settings)

	validationWarnings, err := Validate(loaded.Settings)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Warnings = append(loaded.Warnings, validationWarnings...)

	return loaded, nil
}

// Parse decodes settings JSON over the supplied base. Unknown top-level
// keys produce warnings, never failures; users carry stale keys across
// versions and should not be locked out over one.
func Parse(content []byte, base Settings) (Settings, []Warning, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return base, nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Settings{}, nil, fmt.Errorf("settings must be a JSON object: %w", err)
	}

	warnings := warnUnknownKeys(raw)

	settings := base
	if err := json.Unmarshal([]byte(trimmed), &settings); err != nil {
		return Settings{}, nil, err
	}
	return settings, warnings, nil
}

var knownKeys = map[string]struct{}{
	"mode":            {},
	"api_key":         {},
	"debug_panel":     {},
	"session_summary": {},
	"hotkey":          {},
	"language":        {},
	"audio":           {},
	"paste":           {},
	"server":          {},
	"speech":          {},
}

func warnUnknownKeys(raw map[string]json.RawMessage) []Warning {
	var unknown []string
	for key := range raw {
		if _, ok := knownKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	warnings := make([]Warning, 0, len(unknown))
	for _, key := range unknown {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("unknown settings key %q ignored", key)})
	}
	return warnings
}

func applyEnvCredential(settings *Settings) {
	// Best effort; a missing .env is the common case.
	_ = godotenv.Load()

	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		settings.APIKey = key
	}
}
