package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the settings file wholesale. There is no merge step: the
// file is the serialized Settings struct, matching load semantics.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ensure settings dir: %w", err)
	}

	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	payload = append(payload, '\n')

	// The file holds a credential; keep it owner-only.
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write settings %q: %w", path, err)
	}
	return nil
}
