package console

import "strconv"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
