//go:build sdl && !headless

// audio_backend_sdl.go - SDL2 queued audio output implementation.

package main

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlBufferFrames is the render granularity. Small enough to keep the queue
// responsive to Stop, large enough that QueueAudio is not called constantly.
const sdlBufferFrames = 1024

type SDLOutput struct {
	dev        sdl.AudioDeviceID
	proc       AudioProcessor
	channels   int
	sampleRate int
	stop       chan struct{}
	done       chan struct{}
	started    bool
	mutex      sync.Mutex
}

func newSDLOutput(sampleRate, channels int, proc AudioProcessor) (*SDLOutput, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl audio init: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32SYS,
		Channels: uint8(channels),
		Samples:  sdlBufferFrames,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("sdl open audio device: %w", err)
	}

	return &SDLOutput{
		dev:        dev,
		proc:       proc,
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

func (s *SDLOutput) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return nil
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.feed(s.stop, s.done)
	sdl.PauseAudioDevice(s.dev, false)
	s.started = true
	return nil
}

// feed renders buffers ahead of the device, keeping roughly four buffers
// queued.
func (s *SDLOutput) feed(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	samples := make([]float32, sdlBufferFrames*s.channels)
	bytes := sdlBufferFrames * s.channels * 4
	highWater := uint32(bytes * 4)

	for {
		select {
		case <-stop:
			return
		default:
		}

		if sdl.GetQueuedAudioSize(s.dev) > highWater {
			time.Sleep(5 * time.Millisecond)
			continue
		}

		s.proc.Process(samples, sdlBufferFrames)
		buf := (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:bytes]
		if err := sdl.QueueAudio(s.dev, buf); err != nil {
			return
		}
	}
}

func (s *SDLOutput) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		return
	}
	close(s.stop)
	<-s.done
	sdl.PauseAudioDevice(s.dev, true)
	sdl.ClearQueuedAudio(s.dev)
	s.started = false
}

func (s *SDLOutput) Close() {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sdl.CloseAudioDevice(s.dev)
}

func (s *SDLOutput) IsStarted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.started
}
