// audio_output.go - Abstract contract between the player and the host audio device.

package main

import (
	"fmt"
	"os"
	"strings"
)

// AudioProcessor is the pull side of the realtime contract: the device
// backend calls Process with an interleaved float32 buffer sized to
// frames * channels, on its realtime thread.
type AudioProcessor interface {
	Process(out []float32, frames int)
}

// AudioOutput is what the player requires from a host audio backend.
type AudioOutput interface {
	Start() error
	Stop()
	Close()
	IsStarted() bool
}

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_SDL
)

// NewAudioOutput opens the requested backend at the given rate and channel
// count (1 or 2), wired to pull from proc.
func NewAudioOutput(backend int, sampleRate, channels int, proc AudioProcessor) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return newOtoOutput(sampleRate, channels, proc)
	case AUDIO_BACKEND_SDL:
		return newSDLOutput(sampleRate, channels, proc)
	}
	return nil, fmt.Errorf("unknown audio backend %d", backend)
}

// AudioBackendFromEnv selects the backend from AYM_AUDIO_BACKEND, defaulting
// to oto.
func AudioBackendFromEnv() int {
	switch strings.ToLower(os.Getenv("AYM_AUDIO_BACKEND")) {
	case "sdl":
		return AUDIO_BACKEND_SDL
	default:
		return AUDIO_BACKEND_OTO
	}
}
