package draw

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a palette entry for one sub-pixel. ColorNone leaves the cell empty.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGreen
	ColorLime
	ColorRed
	ColorYellow
	ColorOrange
	ColorDimGreen
	ColorDimOrange
	ColorGray
)

// ansi256 maps palette entries to xterm 256-colour indices.
var ansi256 = [...]int{
	ColorNone:      0,
	ColorWhite:     15,
	ColorGreen:     34,
	ColorLime:      46,
	ColorRed:       196,
	ColorYellow:    226,
	ColorOrange:    208,
	ColorDimGreen:  22,
	ColorDimOrange: 130,
	ColorGray:      244,
}

// ANSI returns the xterm 256-colour index of c.
func (c Color) ANSI() int {
	if int(c) < len(ansi256) {
		return ansi256[c]
	}
	return 15
}

// ColorReset restores the terminal's default colours.
const ColorReset = "\033[0m"
