// Package audio handles input-device discovery, selection, and PCM capture.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Device describes one PortAudio input device surfaced to bolo.
type Device struct {
	Index      int
	Name       string
	HostAPI    string
	Channels   int
	SampleRate float64
	Default    bool
}

// Selection is the resolved capture source plus optional warning context.
type Selection struct {
	Device  Device
	Warning string
}

// ListDevices returns available input devices with default metadata.
func ListDevices(_ context.Context) ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list portaudio devices: %w", err)
	}

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		defaultInput = nil
	}

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		hostAPI := ""
		if info.HostApi != nil {
			hostAPI = info.HostApi.Name
		}
		devices = append(devices, Device{
			Index:      i,
			Name:       info.Name,
			HostAPI:    hostAPI,
			Channels:   info.MaxInputChannels,
			SampleRate: info.DefaultSampleRate,
			Default:    defaultInput != nil && info.Name == defaultInput.Name,
		})
	}
	return devices, nil
}

// SelectDevice resolves the audio.input preference against live devices.
func SelectDevice(ctx context.Context, input string) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectDeviceFromList(devices, input)
}

// selectDeviceFromList applies selection policy to a pre-fetched device list.
func selectDeviceFromList(devices []Device, input string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, errors.New("no audio input devices found")
	}

	input = strings.TrimSpace(strings.ToLower(input))

	var defaultDevice *Device
	for i := range devices {
		if devices[i].Default {
			defaultDevice = &devices[i]
			break
		}
	}

	if input == "" || input == "default" {
		if defaultDevice != nil {
			return Selection{Device: *defaultDevice}, nil
		}
		// No declared default; first input device stands in for it.
		return Selection{
			Device:  devices[0],
			Warning: fmt.Sprintf("no default input device; using %q", devices[0].Name),
		}, nil
	}

	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), input) {
			return Selection{Device: devices[i]}, nil
		}
	}

	return Selection{}, fmt.Errorf("audio.input %q did not match any device", input)
}
