// Package ipc provides the unix-socket control channel between bolo
// invocations. The first `toggle` owns the session; later invocations
// forward commands to it.
package ipc

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// Logs carries the active session's capped log tail on status
	// responses; consumers show it only when the debug panel is on.
	Logs []string `json:"logs,omitempty"`
}
