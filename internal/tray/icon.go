package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 22

var (
	iconOnce      sync.Once
	idleIcon      []byte
	recordingIcon []byte
)

// IconIdle is the gray dot shown while no session is active.
func IconIdle() []byte {
	renderIcons()
	return idleIcon
}

// IconRecording is the red dot shown while recording.
func IconRecording() []byte {
	renderIcons()
	return recordingIcon
}

func renderIcons() {
	iconOnce.Do(func() {
		idleIcon = renderDot(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
		recordingIcon = renderDot(color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff})
	})
}

// renderDot draws a filled circle on a transparent square and encodes it
// as PNG. The icon is generated at startup so no asset files ship with
// the binary.
func renderDot(fill color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	center := float64(iconSize) / 2
	radius := float64(iconSize)/2 - 3

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image cannot fail.
		panic(err)
	}
	return buf.Bytes()
}
