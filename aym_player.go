// aym_player.go - Drives the chip from a decoded archive and mixes output.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// aymClock is a fractional accumulator: ticks gains clock once per output
// frame and sheds samplerate on every consumption, so events land at their
// recorded rate regardless of the device rate.
type aymClock struct {
	ticks uint32
	clock uint32
	index uint32
	count uint32
}

// AYMPlayer replays a YM archive through an AYMChip. Load runs on the
// control thread; Process runs on the realtime audio thread. One mutex
// serializes the two, held for a whole output buffer at a time.
type AYMPlayer struct {
	mutex      sync.Mutex
	archive    *YMArchive
	chip       *AYMChip
	channels   int
	sampleRate int
	music      aymClock
	sound      aymClock
}

// NewAYMPlayer builds a player for the configured chip, channel count and
// device sample rate. The archive starts empty; Playing reports false until
// a Load succeeds.
func NewAYMPlayer(settings *Settings) *AYMPlayer {
	return &AYMPlayer{
		archive:    NewYMArchive(),
		chip:       NewAYMChip(settings.Chip, nil),
		channels:   settings.Channels,
		sampleRate: settings.SampleRate,
	}
}

// Load decodes the file at path into the player. A file that does not carry
// a YM magic is treated as an LHA container: the first member is extracted
// to a temporary file and decoded from there. The temporary file is removed
// on success and failure alike. On any error the previous archive stays
// playable.
func (p *AYMPlayer) Load(path string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	archive := NewYMArchive()
	decoder := NewYMDecoder(NewByteReader(data), archive)
	if decoder.Probe() {
		if err := decoder.Read(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		p.install(archive)
		return nil
	}
	if err := p.loadCompressed(path, archive); err != nil {
		return err
	}
	p.install(archive)
	return nil
}

// loadCompressed extracts the first LHA member to a temporary file and
// decodes that.
func (p *AYMPlayer) loadCompressed(path string, archive *YMArchive) error {
	tmp, err := os.CreateTemp("", "aym-player-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer removeQuiet(tmpPath)

	stream, err := OpenLHAStream(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	defer stream.Close()

	if !stream.Next() {
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err := stream.Extract(tmpPath); err != nil {
		return fmt.Errorf("%s: extract: %w", path, err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("%s: %w", tmpPath, err)
	}
	if err := NewYMDecoder(NewByteReader(data), archive).Read(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func removeQuiet(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		alertln("remove %s: %v", path, err)
	}
}

// install swaps in the freshly decoded archive and rearms the accumulators.
func (p *AYMPlayer) install(archive *YMArchive) {
	p.archive = archive
	p.music.ticks = 0
	p.music.clock = uint32(archive.Header.Framerate)
	p.music.index = 0
	p.music.count = archive.Header.Frames
	p.sound.ticks = 0
	p.sound.clock = archive.Header.Frequency
}

// Playing reports whether frames remain to be consumed.
func (p *AYMPlayer) Playing() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.music.index < p.music.count
}

// Infos returns the loaded track metadata.
func (p *AYMPlayer) Infos() YMInfos {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.archive.Infos
}

// Header returns a copy of the loaded archive header.
func (p *AYMPlayer) Header() YMHeader {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.archive.Header
}

// Process renders frames output frames into out, interleaved when stereo.
// It allocates nothing and never fails; the only blocking point is the
// player mutex, contended only by Load on the control thread.
func (p *AYMPlayer) Process(out []float32, frames int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	samplerate := uint32(p.sampleRate)
	psg := &p.chip.output

	for index := 0; index < frames; index++ {
		p.music.ticks += p.music.clock
		if p.music.ticks >= samplerate {
			for {
				p.clockMusic()
				p.music.ticks -= samplerate
				if p.music.ticks < samplerate {
					break
				}
			}
		}

		p.sound.ticks += p.sound.clock
		if p.sound.ticks >= samplerate {
			for {
				p.chip.Clock()
				p.sound.ticks -= samplerate
				if p.sound.ticks < samplerate {
					break
				}
			}
		}

		switch p.channels {
		case 1:
			out[index] = (psg.Channel0 + psg.Channel1 + psg.Channel2) / 3.0
		case 2:
			left := psg.Channel0*0.75 + psg.Channel1*0.50 + psg.Channel2*0.25
			right := psg.Channel0*0.25 + psg.Channel1*0.50 + psg.Channel2*0.75
			out[index*2+0] = left / 1.5
			out[index*2+1] = right / 1.5
		}
	}
}

// clockMusic consumes one music frame: the next register dump is pushed
// into the chip, and running off the end resets the chip once.
func (p *AYMPlayer) clockMusic() {
	if p.music.index >= p.music.count {
		return
	}
	p.music.index++
	if p.music.index < p.music.count {
		frame := &p.archive.Frames[p.music.index]
		for reg := 0; reg < YM_LIVE_REGISTERS; reg++ {
			value := frame.Data[reg]
			// 0xFF in the envelope-shape slot is the YM sentinel for
			// "leave the shape alone"; rewriting it would restart the
			// envelope every frame.
			if reg == AYM_ENVELOPE_SHAPE && value == 0xff {
				continue
			}
			p.chip.SetIndex(uint8(reg))
			p.chip.SetValue(value)
		}
	} else {
		p.chip.Reset()
	}
}
