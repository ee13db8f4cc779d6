package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// namedKeys covers the non-alphanumeric keys accepted in chord specs.
var namedKeys = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}

var letterKeys = map[rune]hotkey.Key{
	'a': hotkey.KeyA, 'b': hotkey.KeyB, 'c': hotkey.KeyC, 'd': hotkey.KeyD,
	'e': hotkey.KeyE, 'f': hotkey.KeyF, 'g': hotkey.KeyG, 'h': hotkey.KeyH,
	'i': hotkey.KeyI, 'j': hotkey.KeyJ, 'k': hotkey.KeyK, 'l': hotkey.KeyL,
	'm': hotkey.KeyM, 'n': hotkey.KeyN, 'o': hotkey.KeyO, 'p': hotkey.KeyP,
	'q': hotkey.KeyQ, 'r': hotkey.KeyR, 's': hotkey.KeyS, 't': hotkey.KeyT,
	'u': hotkey.KeyU, 'v': hotkey.KeyV, 'w': hotkey.KeyW, 'x': hotkey.KeyX,
	'y': hotkey.KeyY, 'z': hotkey.KeyZ,
	'0': hotkey.Key0, '1': hotkey.Key1, '2': hotkey.Key2, '3': hotkey.Key3,
	'4': hotkey.Key4, '5': hotkey.Key5, '6': hotkey.Key6, '7': hotkey.Key7,
	'8': hotkey.Key8, '9': hotkey.Key9,
}

// ParseChord turns a "+"-joined spec like "ctrl+shift+space" into a Chord.
// Exactly one non-modifier key is required.
func ParseChord(spec string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")

	var (
		mods     []hotkey.Modifier
		modNames []string
		key      hotkey.Key
		keyName  string
		haveKey  bool
	)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Chord{}, fmt.Errorf("hotkey %q has an empty segment", spec)
		}

		if mod, ok := parseModifier(part); ok {
			mods = append(mods, mod)
			modNames = append(modNames, part)
			continue
		}

		parsed, err := parseKey(part)
		if err != nil {
			return Chord{}, fmt.Errorf("hotkey %q: %w", spec, err)
		}
		if haveKey {
			return Chord{}, fmt.Errorf("hotkey %q names more than one key", spec)
		}
		key = parsed
		keyName = part
		haveKey = true
	}

	if !haveKey {
		return Chord{}, fmt.Errorf("hotkey %q has no non-modifier key", spec)
	}

	label := strings.Join(append(modNames, keyName), "+")
	return Chord{Mods: mods, Key: key, label: label}, nil
}

func parseModifier(name string) (hotkey.Modifier, bool) {
	switch name {
	case "ctrl", "control":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt":
		return hotkey.Mod1, true
	case "super", "meta", "cmd":
		return hotkey.Mod4, true
	default:
		return 0, false
	}
}

func parseKey(name string) (hotkey.Key, error) {
	if key, ok := namedKeys[name]; ok {
		return key, nil
	}
	runes := []rune(name)
	if len(runes) == 1 {
		if key, ok := letterKeys[runes[0]]; ok {
			return key, nil
		}
	}
	return 0, fmt.Errorf("unsupported key %q", name)
}
