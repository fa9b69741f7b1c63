// aym_player_test.go - Tests for the playback processor.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestPlayer installs a handcrafted archive without going through a file.
func newTestPlayer(channels, sampleRate int, frames [][]byte, framerate uint16, frequency uint32) *AYMPlayer {
	settings := &Settings{Chip: CHIP_AY8910, Channels: channels, SampleRate: sampleRate}
	player := NewAYMPlayer(settings)

	archive := NewYMArchive()
	archive.Header.Frames = uint32(len(frames))
	archive.Header.Framerate = framerate
	archive.Header.Frequency = frequency
	for i, frame := range frames {
		copy(archive.Frames[i].Data[:], frame)
	}
	player.install(archive)
	return player
}

func zeroFrames(count int) [][]byte {
	frames := make([][]byte, count)
	for i := range frames {
		frames[i] = make([]byte, YM_FRAME_SIZE)
	}
	return frames
}

func TestPlayerLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.ym")
	if err := os.WriteFile(path, buildYM5Data(testFrames(4), false, "Song", "Someone", ""), 0o644); err != nil {
		t.Fatal(err)
	}

	player := NewAYMPlayer(&Settings{Chip: CHIP_AY8910, Channels: 1, SampleRate: 44100})
	if player.Playing() {
		t.Fatal("Playing before any load")
	}
	if err := player.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !player.Playing() {
		t.Fatal("Playing = false after load")
	}
	if infos := player.Infos(); infos.Title != "Song" || infos.Author != "Someone" {
		t.Fatalf("infos = %+v", infos)
	}
	if header := player.Header(); header.Frames != 4 {
		t.Fatalf("frames = %d, want 4", header.Frames)
	}
}

func TestPlayerLoadFailureKeepsArchive(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ym")
	bad := filepath.Join(dir, "bad.ym")
	goodData := buildYM5Data(testFrames(4), false, "Keep", "", "")
	badData := buildYM5Data(testFrames(4), false, "Drop", "", "")
	copy(badData[len(badData)-4:], "Stop")
	if err := os.WriteFile(good, goodData, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, badData, 0o644); err != nil {
		t.Fatal(err)
	}

	player := NewAYMPlayer(&Settings{Chip: CHIP_AY8910, Channels: 1, SampleRate: 44100})
	if err := player.Load(good); err != nil {
		t.Fatalf("Load(good) failed: %v", err)
	}
	if err := player.Load(bad); !errors.Is(err, ErrBadFooter) {
		t.Fatalf("Load(bad) = %v, want ErrBadFooter", err)
	}
	if !player.Playing() {
		t.Fatal("previous archive lost after failed load")
	}
	if infos := player.Infos(); infos.Title != "Keep" {
		t.Fatalf("title = %q, want previous archive's %q", infos.Title, "Keep")
	}
}

func TestPlayerLoadUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(path, []byte("definitely not a register dump"), 0o644); err != nil {
		t.Fatal(err)
	}

	player := NewAYMPlayer(&Settings{Chip: CHIP_AY8910, Channels: 1, SampleRate: 44100})
	if err := player.Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Load = %v, want ErrUnknownFormat", err)
	}
}

func TestPlayerFirstCrossingSkipsFrameZero(t *testing.T) {
	frames := zeroFrames(3)
	frames[0][0] = 0x11
	frames[1][0] = 0x22
	frames[2][0] = 0x33

	// Device rate equal to the frame rate: one music frame per output frame.
	player := newTestPlayer(1, 50, frames, 50, 0)

	out := make([]float32, 1)
	player.Process(out, 1)
	if player.music.index != 1 {
		t.Fatalf("index = %d, want 1", player.music.index)
	}
	if got := player.chip.regs[0]; got != 0x22 {
		t.Fatalf("reg 0 = %#02x, want frame 1's 0x22 (frame 0 is never emitted)", got)
	}
}

func TestPlayerRegister13Sentinel(t *testing.T) {
	frames := zeroFrames(4)
	frames[1][13] = 0x0e
	frames[2][13] = 0xff

	player := newTestPlayer(1, 50, frames, 50, 0)
	out := make([]float32, 1)

	player.Process(out, 1)
	if player.chip.envelope.shape != 0x0e {
		t.Fatalf("shape = %#02x after frame 1, want 0x0e", player.chip.envelope.shape)
	}

	// Mark the envelope state; the 0xFF sentinel must leave all of it alone.
	player.chip.envelope.amplitude = 0x15
	player.chip.envelope.phase = 1

	player.Process(out, 1)
	if player.chip.envelope.shape != 0x0e {
		t.Fatalf("shape = %#02x after sentinel frame, want 0x0e", player.chip.envelope.shape)
	}
	if player.chip.envelope.amplitude != 0x15 || player.chip.envelope.phase != 1 {
		t.Fatalf("envelope reseeded by sentinel: amplitude %#02x phase %d",
			player.chip.envelope.amplitude, player.chip.envelope.phase)
	}
	if player.chip.regs[13] != 0x0e {
		t.Fatalf("reg 13 = %#02x, want 0x0e", player.chip.regs[13])
	}
}

func TestPlayerEndOfTrackResetsOnce(t *testing.T) {
	player := newTestPlayer(1, 50, zeroFrames(3), 50, 0)
	out := make([]float32, 1)

	player.Process(out, 1)
	player.Process(out, 1)
	if !player.Playing() {
		t.Fatal("Playing = false before the last frame")
	}

	player.chip.regs[1] = 0x05
	player.Process(out, 1)
	if player.Playing() {
		t.Fatal("Playing = true past the end")
	}
	if player.chip.regs[1] != 0 {
		t.Fatal("chip was not reset at end of track")
	}

	// Later calls must not reset again.
	player.chip.regs[1] = 0x07
	player.Process(out, 1)
	if player.chip.regs[1] != 0x07 {
		t.Fatal("chip reset more than once")
	}
}

func TestPlayerMusicAccumulatorFractional(t *testing.T) {
	// 30 frames/sec against a 50 Hz device rate: 30 music frames per 50
	// output frames, spread by the accumulator.
	player := newTestPlayer(1, 50, zeroFrames(40), 30, 0)

	out := make([]float32, 50)
	player.Process(out, 50)
	if player.music.index != 30 {
		t.Fatalf("index = %d after one second, want 30", player.music.index)
	}
}

func TestPlayerSoundAccumulator(t *testing.T) {
	// Chip clock of 8x the device rate: exactly 8 ticks (one sub-tick) per
	// output frame.
	player := newTestPlayer(1, 100, zeroFrames(4), 0, 800)

	out := make([]float32, 10)
	player.Process(out, 10)
	if player.chip.ticks != 80 {
		t.Fatalf("chip ticks = %d, want 80", player.chip.ticks)
	}
}

func TestPlayerMonoMix(t *testing.T) {
	player := newTestPlayer(1, 50, zeroFrames(4), 0, 0)
	player.chip.output = AYMOutput{Channel0: 0.9, Channel1: 0.6, Channel2: 0.3}

	out := make([]float32, 1)
	player.Process(out, 1)

	psg := player.chip.output
	want := (psg.Channel0 + psg.Channel1 + psg.Channel2) / 3.0
	if out[0] != want {
		t.Fatalf("mono = %v, want %v", out[0], want)
	}
}

func TestPlayerStereoMix(t *testing.T) {
	player := newTestPlayer(2, 50, zeroFrames(4), 0, 0)
	player.chip.output = AYMOutput{Channel0: 0.9, Channel1: 0.6, Channel2: 0.3}

	out := make([]float32, 2)
	player.Process(out, 1)

	psg := player.chip.output
	wantLeft := (psg.Channel0*0.75 + psg.Channel1*0.50 + psg.Channel2*0.25) / 1.5
	wantRight := (psg.Channel0*0.25 + psg.Channel1*0.50 + psg.Channel2*0.75) / 1.5
	if out[0] != wantLeft || out[1] != wantRight {
		t.Fatalf("stereo = %v/%v, want %v/%v", out[0], out[1], wantLeft, wantRight)
	}
}
