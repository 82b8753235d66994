package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PICO-8 palette entries used for terminal accents.
const (
	colorRed    = "#ff004d"
	colorOrange = "#ffa300"
	colorYellow = "#ffec27"
	colorGreen  = "#00e436"
	colorBlue   = "#29adff"
	colorLilac  = "#83769c"
)

// PrintBanner writes the picograph banner, one palette colour per line.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{"        _                               _    ", colorRed},
		{"  _ __ (_) ___ ___   __ _ _ __ __ _ _ __ | |__ ", colorOrange},
		{" | '_ \\| |/ __/ _ \\ / _` | '__/ _` | '_ \\| '_ \\", colorYellow},
		{" | |_) | | (_| (_) | (_| | | | (_| | |_) | | | |", colorGreen},
		{" | .__/|_|\\___\\___/ \\__, |_|  \\__,_| .__/|_| |_|", colorBlue},
		{" |_|                |___/          |_|          ", colorLilac},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status formats a one-line outcome, green for success and red for failure.
func Status(p termenv.Profile, ok bool, msg string) string {
	mark, color := "✔", colorGreen
	if !ok {
		mark, color = "✘", colorRed
	}
	return termenv.String(mark + " " + msg).Foreground(p.Color(color)).String()
}
