//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation.

package main

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

type OtoOutput struct {
	ctx       *oto.Context
	player    *oto.Player
	proc      AudioProcessor
	channels  int
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex
}

func newOtoOutput(sampleRate, channels int, proc AudioProcessor) (*OtoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoOutput{
		ctx:       ctx,
		proc:      proc,
		channels:  channels,
		sampleBuf: make([]float32, 4096),
	}, nil
}

// Read is oto's pull callback, invoked on the realtime thread. It renders
// whole frames through the processor and hands the bytes back to oto.
func (o *OtoOutput) Read(p []byte) (int, error) {
	frames := len(p) / (4 * o.channels)
	if frames == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	need := frames * o.channels
	if len(o.sampleBuf) < need {
		o.sampleBuf = make([]float32, need)
	}
	samples := o.sampleBuf[:need]

	o.proc.Process(samples, frames)

	n := need * 4
	copy(p[:n], (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:n])
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (o *OtoOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.started {
		if o.player == nil {
			o.player = o.ctx.NewPlayer(o)
		}
		o.player.Play()
		o.started = true
	}
	return nil
}

func (o *OtoOutput) Stop() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.started && o.player != nil {
		o.player.Close()
		o.player = nil
		o.started = false
	}
}

func (o *OtoOutput) Close() {
	o.Stop()
}

func (o *OtoOutput) IsStarted() bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.started
}
