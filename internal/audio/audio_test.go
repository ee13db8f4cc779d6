package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelectDeviceFromListDefault(t *testing.T) {
	devices := []Device{
		{Index: 0, Name: "Monitor of Speakers"},
		{Index: 2, Name: "USB Condenser Mic", Default: true},
	}

	selection, err := selectDeviceFromList(devices, "default")
	require.NoError(t, err)
	require.Equal(t, 2, selection.Device.Index)
	require.Empty(t, selection.Warning)
}

func TestSelectDeviceFromListSubstringMatch(t *testing.T) {
	devices := []Device{
		{Index: 0, Name: "Built-in Microphone", Default: true},
		{Index: 3, Name: "Elgato Wave:3"},
	}

	selection, err := selectDeviceFromList(devices, "elgato")
	require.NoError(t, err)
	require.Equal(t, 3, selection.Device.Index)
}

func TestSelectDeviceFromListNoDefaultWarns(t *testing.T) {
	devices := []Device{{Index: 1, Name: "Webcam Mic"}}

	selection, err := selectDeviceFromList(devices, "")
	require.NoError(t, err)
	require.Equal(t, 1, selection.Device.Index)
	require.Contains(t, selection.Warning, "no default input device")
}

func TestSelectDeviceFromListNoMatchFails(t *testing.T) {
	devices := []Device{{Index: 0, Name: "Built-in Microphone", Default: true}}

	_, err := selectDeviceFromList(devices, "yeti")
	require.Error(t, err)
	require.Contains(t, err.Error(), "yeti")
}

func TestSelectDeviceFromListEmpty(t *testing.T) {
	_, err := selectDeviceFromList(nil, "default")
	require.Error(t, err)
}

func TestCaptureIngestRespectsCap(t *testing.T) {
	capture := newCaptureForTest(5)

	capture.ingest([]int16{1, 2, 3})
	require.False(t, capture.Capped())
	require.EqualValues(t, 6, capture.BytesCaptured())

	capture.ingest([]int16{4, 5, 6, 7})
	require.True(t, capture.Capped())
	require.Equal(t, []int16{1, 2, 3, 4, 5}, capture.Samples())

	// Further frames are dropped once capped.
	capture.ingest([]int16{8})
	require.EqualValues(t, 10, capture.BytesCaptured())
}

func TestCaptureIngestAfterStopIsDropped(t *testing.T) {
	capture := newCaptureForTest(100)
	capture.ingest([]int16{1})

	capture.mu.Lock()
	capture.stopped = true
	capture.mu.Unlock()

	capture.ingest([]int16{2})
	require.Equal(t, []int16{1}, capture.Samples())
}

func TestStopReleasesCancelWatcher(t *testing.T) {
	capture := newCaptureForTest(10)

	watcherDone := make(chan struct{})
	go func() {
		capture.watchCancel(context.Background())
		close(watcherDone)
	}()

	require.NoError(t, capture.Stop())

	select {
	case <-watcherDone:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel watcher still running after Stop")
	}
}

func TestCancelWatcherStopsCapture(t *testing.T) {
	capture := newCaptureForTest(10)

	ctx, cancel := context.WithCancel(context.Background())
	go capture.watchCancel(ctx)
	cancel()

	require.Eventually(t, func() bool {
		capture.mu.Lock()
		defer capture.mu.Unlock()
		return capture.stopped
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEncodeWAVHeader(t *testing.T) {
	var buf bytes.Buffer
	samples := []int16{0, 16384, -16384}
	require.NoError(t, EncodeWAV(&buf, samples, 16000, 1))

	raw := buf.Bytes()
	require.Len(t, raw, 44+len(samples)*2)

	require.Equal(t, "RIFF", string(raw[0:4]))
	require.Equal(t, "WAVE", string(raw[8:12]))
	require.Equal(t, "fmt ", string(raw[12:16]))
	require.Equal(t, "data", string(raw[36:40]))

	require.EqualValues(t, 36+6, binary.LittleEndian.Uint32(raw[4:8]))
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(raw[20:22]), "PCM format")
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(raw[22:24]), "mono")
	require.EqualValues(t, 16000, binary.LittleEndian.Uint32(raw[24:28]))
	require.EqualValues(t, 32000, binary.LittleEndian.Uint32(raw[28:32]), "byte rate")
	require.EqualValues(t, 16, binary.LittleEndian.Uint16(raw[34:36]), "bit depth")
	require.EqualValues(t, 6, binary.LittleEndian.Uint32(raw[40:44]), "data size")

	require.EqualValues(t, 16384, int16(binary.LittleEndian.Uint16(raw[46:48])))
	require.EqualValues(t, -16384, int16(binary.LittleEndian.Uint16(raw[48:50])))
}
