package indicator

import (
	"os"
	"strings"
)

type locale string

const (
	localeEnglish locale = "en"
	localeHindi   locale = "hi"
)

type messages struct {
	recording  string
	processing string
	errorText  string
}

func indicatorMessagesFromEnv() messages {
	return indicatorMessages(resolveLocale(os.Getenv("LANG")))
}

func resolveLocale(raw string) locale {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "hi") {
		return localeHindi
	}
	return localeEnglish
}

func indicatorMessages(tag locale) messages {
	switch tag {
	case localeHindi:
		return messages{
			recording:  "Sun raha hoon…",
			processing: "Likh raha hoon…",
			errorText:  "Speech recognition mein error aayi",
		}
	default:
		return messages{
			recording:  "Recording…",
			processing: "Transcribing…",
			errorText:  "Speech recognition error",
		}
	}
}
