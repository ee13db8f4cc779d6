package output

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// sendPasteChord synthesizes the configured paste shortcut at the OS
// input focus.
func sendPasteChord(shortcut string) error {
	key, modifiers, err := parseShortcut(shortcut)
	if err != nil {
		return err
	}

	args := make([]interface{}, 0, len(modifiers))
	for _, modifier := range modifiers {
		args = append(args, modifier)
	}
	if err := robotgo.KeyTap(key, args...); err != nil {
		return fmt.Errorf("send paste chord %q: %w", shortcut, err)
	}
	return nil
}

// parseShortcut splits "ctrl+shift+v" into the terminal key and its
// modifier list, normalized to robotgo names.
func parseShortcut(shortcut string) (string, []string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(shortcut)), "+")

	var key string
	var modifiers []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "ctrl", "control":
			modifiers = append(modifiers, "ctrl")
		case "shift":
			modifiers = append(modifiers, "shift")
		case "alt":
			modifiers = append(modifiers, "alt")
		case "cmd", "super", "meta", "win":
			modifiers = append(modifiers, "cmd")
		default:
			if key != "" {
				return "", nil, fmt.Errorf("shortcut %q has more than one non-modifier key", shortcut)
			}
			key = part
		}
	}

	if key == "" {
		return "", nil, fmt.Errorf("shortcut %q has no non-modifier key", shortcut)
	}
	return key, modifiers, nil
}
