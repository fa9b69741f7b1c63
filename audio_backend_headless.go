//go:build headless

// audio_backend_headless.go - Null audio output for headless builds.

package main

type OtoOutput struct {
	started bool
}

func newOtoOutput(sampleRate, channels int, proc AudioProcessor) (*OtoOutput, error) {
	return &OtoOutput{}, nil
}

func (o *OtoOutput) Start() error {
	o.started = true
	return nil
}

func (o *OtoOutput) Stop() {
	o.started = false
}

func (o *OtoOutput) Close() {
	o.started = false
}

func (o *OtoOutput) IsStarted() bool {
	return o.started
}
