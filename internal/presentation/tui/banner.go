package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`                   __ _   `, "#818cf8"},
	{`   __ _ _ __ __ _ / _| |_ `, "#a78bfa"},
	{`  / _' | '__/ _' | |_| __|`, "#c084fc"},
	{` | (_| | | | (_| |  _| |_ `, "#e879f9"},
	{`  \__, |_|  \__,_|_|  \__|`, "#f472b6"},
	{`  |___/                   `, "#fb7185"},
}

// PrintBanner writes the graft banner to w, colored for w's terminal profile.
func PrintBanner(w io.Writer, opts ...termenv.OutputOption) {
	out := termenv.NewOutput(w, opts...)
	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out)
}
