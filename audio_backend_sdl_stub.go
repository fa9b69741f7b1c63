//go:build !sdl || headless

// audio_backend_sdl_stub.go - Stub for builds without SDL2 support.

package main

import "fmt"

func newSDLOutput(sampleRate, channels int, proc AudioProcessor) (AudioOutput, error) {
	return nil, fmt.Errorf("sdl audio backend requires building with the sdl tag")
}
