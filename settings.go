// settings.go - Playback configuration assembled from the command line.

package main

import "fmt"

const (
	DEFAULT_CHANNELS    = 2
	DEFAULT_SAMPLE_RATE = 44100
)

// Settings carries the chip type, channel count and device sample rate.
// Each field may be given at most once on the command line; Finalize fills
// in whatever was left unset.
type Settings struct {
	Chip       ChipType
	Channels   int
	SampleRate int
}

func (s *Settings) SetChip(chip ChipType) error {
	if s.Chip != CHIP_DEFAULT {
		return fmt.Errorf("the chip type has already been given")
	}
	s.Chip = chip
	return nil
}

func (s *Settings) SetChannels(channels int) error {
	if s.Channels != 0 {
		return fmt.Errorf("the number of channels has already been given")
	}
	s.Channels = channels
	return nil
}

func (s *Settings) SetSampleRate(samplerate int) error {
	if s.SampleRate != 0 {
		return fmt.Errorf("the sample rate has already been given")
	}
	s.SampleRate = samplerate
	return nil
}

func (s *Settings) Finalize() {
	if s.Chip == CHIP_DEFAULT {
		s.Chip = CHIP_AY8910
	}
	if s.Channels == 0 {
		s.Channels = DEFAULT_CHANNELS
	}
	if s.SampleRate == 0 {
		s.SampleRate = DEFAULT_SAMPLE_RATE
	}
}

// ChipName returns the command-line word for a chip type.
func ChipName(chip ChipType) string {
	switch chip {
	case CHIP_AY8910:
		return "ay8910"
	case CHIP_AY8912:
		return "ay8912"
	case CHIP_AY8913:
		return "ay8913"
	case CHIP_YM2149:
		return "ym2149"
	}
	return "default"
}
