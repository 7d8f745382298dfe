package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
)

// Axis formats a signed axis value, negative values in yellow.
func Axis(v float64) string {
	s := White(formatFloat(v))
	if v < 0 {
		s = Yellow(formatFloat(v))
	}
	return s
}
