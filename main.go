// main.go - Command line entry point for the AYM player.

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

const (
	COMMAND_DFLT = iota
	COMMAND_PLAY
	COMMAND_DUMP
)

func main() {
	if err := run(os.Args); err != nil {
		errorln("error: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := COMMAND_DFLT
	settings := &Settings{}
	playlist := &Playlist{}

	setCommand := func(cmd int) error {
		if command != COMMAND_DFLT {
			return fmt.Errorf("the command has already been given")
		}
		command = cmd
		return nil
	}

	for _, arg := range args[1:] {
		var err error
		switch arg {
		case "help":
			printHelp(args[0])
			return nil
		case "play":
			err = setCommand(COMMAND_PLAY)
		case "dump":
			err = setCommand(COMMAND_DUMP)
		case "ay8910":
			err = settings.SetChip(CHIP_AY8910)
		case "ay8912":
			err = settings.SetChip(CHIP_AY8912)
		case "ay8913":
			err = settings.SetChip(CHIP_AY8913)
		case "ym2149":
			err = settings.SetChip(CHIP_YM2149)
		case "mono":
			err = settings.SetChannels(1)
		case "stereo":
			err = settings.SetChannels(2)
		case "8000", "11025", "16000", "22050", "32000", "44100", "48000", "96000":
			err = settings.SetSampleRate(atoiRate(arg))
		default:
			if fileExists(arg) {
				playlist.Add(arg)
			} else {
				err = fmt.Errorf("invalid argument <%s>", arg)
			}
		}
		if err != nil {
			return err
		}
	}
	settings.Finalize()

	switch command {
	case COMMAND_DUMP:
		return runDump(settings, playlist)
	default:
		return runPlay(settings, playlist)
	}
}

func atoiRate(arg string) int {
	rate := 0
	for _, c := range arg {
		rate = rate*10 + int(c-'0')
	}
	return rate
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// runPlay drives the audio device, polling the processor once per second
// and advancing the playlist when a track ends. Single keys on a terminal
// control the transport: n (next), p (prev), q (quit).
func runPlay(settings *Settings, playlist *Playlist) error {
	player := NewAYMPlayer(settings)
	output, err := NewAudioOutput(AudioBackendFromEnv(), settings.SampleRate, settings.Channels, player)
	if err != nil {
		return err
	}
	defer output.Close()

	keys, restore := startKeyLoop()
	defer restore()

	load := func(path string) error {
		if err := player.Load(path); err != nil {
			return err
		}
		printNowPlaying(path, player.Infos(), player.Header(), settings)
		return nil
	}

	if path, ok := playlist.Current(); ok {
		if err := load(path); err != nil {
			return err
		}
	}

	if err := output.Start(); err != nil {
		return err
	}
	defer output.Stop()

	for {
		if !player.Playing() {
			path, ok := playlist.Next()
			if !ok {
				return nil
			}
			if err := load(path); err != nil {
				return err
			}
			continue
		}

		select {
		case key := <-keys:
			switch key {
			case KEY_QUIT, 0x03:
				return nil
			case KEY_NEXT:
				path, ok := playlist.Next()
				if !ok {
					return nil
				}
				if err := load(path); err != nil {
					return err
				}
			case KEY_PREV:
				if path, ok := playlist.Prev(); ok {
					if err := load(path); err != nil {
						return err
					}
				}
			}
		case <-time.After(time.Second):
		}
	}
}

// dumpBufferFrames is the offline render granularity.
const dumpBufferFrames = 16384

// runDump renders the playlist offline. The default sink is raw float32
// little-endian frames on stdout; setting AYM_DUMP_WAV to a path writes a
// 16-bit WAV file there instead.
func runDump(settings *Settings, playlist *Playlist) error {
	player := NewAYMPlayer(settings)

	wavPath := os.Getenv("AYM_DUMP_WAV")
	var collected []float32

	buffer := make([]float32, dumpBufferFrames*settings.Channels)
	raw := make([]byte, len(buffer)*4)

	if path, ok := playlist.Current(); ok {
		if err := player.Load(path); err != nil {
			return err
		}
	}

	for {
		if !player.Playing() {
			path, ok := playlist.Next()
			if !ok {
				break
			}
			if err := player.Load(path); err != nil {
				return err
			}
			continue
		}

		player.Process(buffer, dumpBufferFrames)
		if wavPath != "" {
			collected = append(collected, buffer...)
			continue
		}
		float32BytesLE(buffer, raw)
		if _, err := os.Stdout.Write(raw); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}

	if wavPath != "" {
		return WriteWAV(wavPath, collected, settings.SampleRate, settings.Channels)
	}
	return nil
}

func float32BytesLE(samples []float32, dst []byte) {
	for i, sample := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(sample))
	}
}

func printHelp(arg0 string) {
	program := filepath.Base(arg0)

	println("Usage: %s [OPTION...] [FILE...]", program)
	println("")
	println("Action:")
	println("")
	println("    help                display this help")
	println("    play                play audio")
	println("    dump                dump audio to stdout")
	println("")
	println("Chip-Type:")
	println("")
	println("    ay8910              AY-3-8910")
	println("    ay8912              AY-3-8912")
	println("    ay8913              AY-3-8913")
	println("    ym2149              YM2149")
	println("")
	println("Channels:")
	println("")
	println("    mono                mono output")
	println("    stereo              stereo output")
	println("")
	println("Sample-Rate:")
	println("")
	println("    8000                phone quality")
	println("    16000               cassette quality")
	println("    32000               broadcast quality")
	println("    11025               AM quality")
	println("    22050               FM quality")
	println("    44100               CD quality")
	println("    48000               DVD quality")
	println("    96000               BRD quality")
	println("")
	println("Environment:")
	println("")
	println("    AYM_AUDIO_BACKEND   oto (default) or sdl")
	println("    AYM_DUMP_WAV        dump to this WAV file instead of stdout")
	println("    AYM_DEBUG           print decoder diagnostics")
	println("")
}
