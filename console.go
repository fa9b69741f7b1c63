// console.go - Styled terminal output and transport keys for the player.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type consoleStyles struct {
	banner lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	err    lipgloss.Style
}

func newConsoleStyles() consoleStyles {
	return consoleStyles{
		banner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(13)),
		label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		value:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(9)),
	}
}

var consoleTheme = newConsoleStyles()

// consoleRawMode switches line endings to CRLF while the terminal is raw.
// Only the mainloop goroutine prints, so a plain bool is enough.
var consoleRawMode bool

func println(format string, args ...any) {
	eol := "\n"
	if consoleRawMode {
		eol = "\r\n"
	}
	fmt.Fprintf(os.Stdout, format+eol, args...)
}

func alertln(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func errorln(format string, args ...any) {
	fmt.Fprintln(os.Stderr, consoleTheme.err.Render(fmt.Sprintf(format, args...)))
}

// consoleRule prints a separator sized to the terminal, or a short fixed one
// when stdout is not a terminal.
func consoleRule() {
	width := 40
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
			width = w
		}
	}
	println("%s", strings.Repeat("-", width))
}

// printNowPlaying shows the loaded track's metadata and the playback
// configuration.
func printNowPlaying(path string, infos YMInfos, header YMHeader, settings *Settings) {
	channels := "stereo"
	if settings.Channels == 1 {
		channels = "mono"
	}
	consoleRule()
	println("%s %s", consoleTheme.banner.Render("playing"), consoleTheme.value.Render(path))
	if infos.Title != "" {
		println("%s    %s", consoleTheme.label.Render("title"), consoleTheme.value.Render(infos.Title))
	}
	if infos.Author != "" {
		println("%s   %s", consoleTheme.label.Render("author"), consoleTheme.value.Render(infos.Author))
	}
	if infos.Comments != "" {
		println("%s %s", consoleTheme.label.Render("comments"), consoleTheme.value.Render(infos.Comments))
	}
	println("%s     %s, %d frames at %d Hz, %s @ %d Hz",
		consoleTheme.label.Render("chip"),
		ChipName(settings.Chip), header.Frames, header.Framerate,
		channels, settings.SampleRate)
}

// Transport keys read from a raw-mode terminal.
const (
	KEY_NEXT = 'n'
	KEY_PREV = 'p'
	KEY_QUIT = 'q'
)

// startKeyLoop switches stdin to raw mode and forwards single keypresses on
// the returned channel. The restore function puts the terminal back; it is
// safe to call when stdin is not a terminal (the channel then never fires).
func startKeyLoop() (<-chan byte, func()) {
	keys := make(chan byte, 4)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return keys, func() {}
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return keys, func() {}
	}
	consoleRawMode = true
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				select {
				case keys <- buf[0]:
				default:
				}
			}
		}
	}()
	return keys, func() {
		consoleRawMode = false
		_ = term.Restore(fd, oldState)
	}
}
