package web

import (
	_ "embed"
	"html/template"
)

//go:embed page.tmpl
var pageSource string

var pageTmpl = template.Must(template.New("page").Parse(pageSource))

// pageData parameterizes the speech page. Session timings implement the
// handoff around the engine's 60-second per-session ceiling: a fresh
// instance starts SessionMS into the session and both listen for
// OverlapMS so no words fall into the gap.
type pageData struct {
	Language       string
	Hotkey         string
	SessionMS      int
	OverlapMS      int
	RestartDelayMS int
	DebugPanel     bool
	AutoStart      bool
}
