package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	captureSampleRate = 16000
	captureChannels   = 1
	framesPerBuffer   = 1024
)

// Capture accumulates 16kHz mono s16 samples from one input device until
// Stop or the configured cap. It never streams; the cloud engine takes a
// whole WAV per request.
type Capture struct {
	device     Device
	maxSamples int

	stream *portaudio.Stream
	done   chan struct{}

	mu        sync.Mutex
	samples   []int16
	capped    bool
	stopped   bool
	startedAt time.Time
	stoppedAt time.Time
}

// StartCapture opens and starts a record stream for the selected device.
// maxDuration bounds how much audio is kept; excess frames are dropped.
func StartCapture(ctx context.Context, selected Device, maxDuration time.Duration) (*Capture, error) {
	if maxDuration <= 0 {
		return nil, fmt.Errorf("capture max duration must be positive")
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	capture := &Capture{
		device:     selected,
		maxSamples: int(maxDuration.Seconds() * captureSampleRate),
		done:       make(chan struct{}),
		startedAt:  time.Now(),
	}

	infos, err := portaudio.Devices()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("resolve device %q: %w", selected.Name, err)
	}
	if selected.Index < 0 || selected.Index >= len(infos) {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("device %q index %d out of range", selected.Name, selected.Index)
	}
	info := infos[selected.Index]

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: captureChannels,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      captureSampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, capture.ingest)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open record stream on %q: %w", selected.Name, err)
	}
	capture.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start record stream: %w", err)
	}

	go capture.watchCancel(ctx)

	return capture, nil
}

// watchCancel stops the capture when ctx ends. A normal Stop closes done
// so the watcher exits instead of outliving the take; in a resident
// process ctx is the process lifetime.
func (c *Capture) watchCancel(ctx context.Context) {
	select {
	case <-ctx.Done():
		_ = c.Stop()
	case <-c.done:
	}
}

// ingest is the PortAudio callback; it appends frames until the cap.
func (c *Capture) ingest(in []int16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.capped {
		return
	}

	room := c.maxSamples - len(c.samples)
	if room <= 0 {
		c.capped = true
		return
	}
	if len(in) > room {
		in = in[:room]
		c.capped = true
	}
	c.samples = append(c.samples, in...)
}

// Stop halts the stream exactly once and records the stop time.
func (c *Capture) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	c.stoppedAt = time.Now()
	stream := c.stream
	c.mu.Unlock()

	if c.done != nil {
		close(c.done)
	}

	if stream == nil {
		return nil
	}
	_ = stream.Stop()
	_ = stream.Close()
	return portaudio.Terminate()
}

// Device returns capture metadata for logging and diagnostics.
func (c *Capture) Device() Device {
	return c.device
}

// Samples returns a snapshot of the captured PCM.
func (c *Capture) Samples() []int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int16, len(c.samples))
	copy(out, c.samples)
	return out
}

// BytesCaptured reports total PCM bytes kept.
func (c *Capture) BytesCaptured() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.samples) * 2)
}

// Capped reports whether the max-duration cap truncated the recording.
func (c *Capture) Capped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capped
}

// Duration reports wall time between start and stop (or now while live).
func (c *Capture) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return c.stoppedAt.Sub(c.startedAt)
	}
	return time.Since(c.startedAt)
}

// newCaptureForTest builds an unstarted capture for callback-level tests.
func newCaptureForTest(maxSamples int) *Capture {
	return &Capture{maxSamples: maxSamples, done: make(chan struct{}), startedAt: time.Now()}
}
