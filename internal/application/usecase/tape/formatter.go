package tape

import "strings"

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

type RenderMode int

const (
	RenderLive RenderMode = iota
	RenderSnapshot
)

// Render builds a one-line tape: each asset's last price colored by its
// most recent move direction.
func Render(st *State, mode RenderMode) string {
	var sb strings.Builder
	if mode == RenderLive {
		sb.WriteString("\r")
	}

	sb.WriteString(colorize("[TAPE] ", ansiDim))

	for i, asset := range st.Assets() {
		if i > 0 {
			sb.WriteString(colorize("  |  ", ansiDim))
		}

		px := "--"
		col := ansiYellow
		if str, dir, ok := st.Display(asset); ok && str != "" {
			px = str
			switch dir {
			case DirUp:
				col = ansiGreen
			case DirDown:
				col = ansiRed
			}
		}

		sb.WriteString(asset)
		sb.WriteString(" ")
		sb.WriteString(colorize(px, col))
	}

	if mode == RenderLive {
		sb.WriteString(ansiClearEOL)
	}
	return sb.String()
}
