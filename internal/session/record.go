package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const recordLogCap = 100

// Record is the transient per-cycle session record. It exists in memory
// for one record-transcribe-paste cycle and is discarded after its
// summary is shown.
type Record struct {
	ID        string
	StartedAt time.Time

	mu                 sync.Mutex
	finishedAt         time.Time
	recordDuration     time.Duration
	transcribeDuration time.Duration
	transcript         string
	success            bool
	errors             []string
	logs               []string
}

// NewRecord starts a session record with a fresh id.
func NewRecord() *Record {
	return &Record{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Log appends one entry to the capped session log.
func (r *Record) Log(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
	if len(r.logs) > recordLogCap {
		r.logs = r.logs[len(r.logs)-recordLogCap:]
	}
}

// AddError records one failure encountered during the cycle.
func (r *Record) AddError(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err.Error())
}

// Finish closes the record with the cycle outcome.
func (r *Record) Finish(transcript string, recordDuration, transcribeDuration time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishedAt = time.Now()
	r.transcript = transcript
	r.recordDuration = recordDuration
	r.transcribeDuration = transcribeDuration
	r.success = success
}

// Logs returns a snapshot of the session log entries.
func (r *Record) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}

// Errors returns a snapshot of recorded failures.
func (r *Record) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

// Summary renders the end-of-cycle popup text.
func (r *Record) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.success {
		reason := "cancelled"
		if len(r.errors) > 0 {
			reason = r.errors[len(r.errors)-1]
		}
		return fmt.Sprintf("Session failed: %s", reason)
	}

	words := len(strings.Fields(r.transcript))
	return fmt.Sprintf(
		"%d words in %.1fs (transcribe %.1fs)",
		words,
		r.recordDuration.Seconds(),
		r.transcribeDuration.Seconds(),
	)
}
