// Package transcript maps output modes to engine hints and normalizes
// recognized text.
package transcript

import "strings"

// Preset carries the per-mode hints handed to the transcription engines:
// an ISO language code for the cloud API, a BCP-47 tag for the browser
// engine, and a steering prompt.
type Preset struct {
	// Language is the cloud API language hint; empty lets the model detect.
	Language string
	// BCP47 is the browser engine recognition language.
	BCP47 string
	// Prompt steers the cloud model's output style and script.
	Prompt string
}

const hinglishPrompt = "Yeh ek casual baat-cheet hai jisme Hindi aur English mix hoti hai. " +
	"Transcript Roman script mein likho, Devanagari mein nahi. " +
	"Jaise: aaj meeting cancel ho gayi, kal same time pe milte hain."

// PresetFor resolves an output-mode tag. Unknown tags pass through as a
// language code so users can set mode to e.g. "ta" or "bn" directly; the
// second return reports whether the tag was a named preset.
func PresetFor(mode string) (Preset, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "hinglish":
		// No language constraint: forcing "hi" makes the API emit
		// Devanagari, the prompt alone keeps it romanized.
		return Preset{BCP47: "hi-IN", Prompt: hinglishPrompt}, true
	case "english", "en":
		return Preset{Language: "en", BCP47: "en-IN"}, true
	default:
		tag := strings.TrimSpace(mode)
		return Preset{Language: tag, BCP47: tag}, false
	}
}

// Resolve applies an explicit language override on top of the mode preset.
func Resolve(mode string, languageOverride string) (Preset, bool) {
	preset, known := PresetFor(mode)
	if override := strings.TrimSpace(languageOverride); override != "" {
		preset.Language = override
		preset.BCP47 = override
	}
	return preset, known
}
