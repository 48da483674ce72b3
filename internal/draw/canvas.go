package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// cell is the rendered state of one terminal cell: two stacked sub-pixels.
type cell struct {
	top    Color
	bottom Color
}

// span is a run of overlay text written over the canvas.
type span struct {
	col, row, width int
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels and only
// repaints cells that changed since the previous Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	// Logical coordinate space mapped onto the terminal pixels
	logicalWidth  float64
	logicalHeight float64

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	prev      []cell // What the terminal currently shows
	prevValid []bool
	redraw    bool // Clear the terminal and repaint everything on the next Render

	textSpans []span // Overlay text written since the last Render
	oldSpans  []span

	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}

	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	c.prev = make([]cell, termWidth*termHeight)
	c.prevValid = make([]bool, termWidth*termHeight)
	c.redraw = true
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.redraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render clear the terminal and repaint every cell.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the colour at terminal sub-pixel (x, y).
func (c *Canvas) Pixel(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// toPX scales a logical x to terminal pixels.
func (c *Canvas) toPX(x float64) float64 {
	return x * float64(c.termWidth) / c.logicalWidth
}

// toPY scales a logical y to terminal sub-pixels.
func (c *Canvas) toPY(y float64) float64 {
	return y * float64(c.subPixelHeight) / c.logicalHeight
}

// Set sets a pixel at logical coordinates (applies scaling).
func (c *Canvas) Set(x, y float64, col Color) {
	c.setPixel(int(math.Floor(c.toPX(x))), int(math.Floor(c.toPY(y))), col)
}

// FillRect fills the logical rectangle (x, y, w, h). Every rectangle covers at
// least one sub-pixel so thin objects stay visible when scaled down.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0 := int(math.Floor(c.toPX(x)))
	y0 := int(math.Floor(c.toPY(y)))
	x1 := int(math.Ceil(c.toPX(x + w)))
	y1 := int(math.Ceil(c.toPY(y + h)))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
}

// FillCircle fills a logical circle, sampling at sub-pixel centres.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	if r <= 0 {
		return
	}
	x0 := int(math.Floor(c.toPX(cx - r)))
	x1 := int(math.Ceil(c.toPX(cx + r)))
	y0 := int(math.Floor(c.toPY(cy - r)))
	y1 := int(math.Ceil(c.toPY(cy + r)))
	r2 := r * r
	unitX := c.logicalWidth / float64(c.termWidth)
	unitY := c.logicalHeight / float64(c.subPixelHeight)

	hit := false
	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)*unitY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)*unitX - cx
			if lx*lx+ly*ly <= r2 {
				c.setPixel(px, py, col)
				hit = true
			}
		}
	}
	// Small circles still show as a dot.
	if !hit {
		c.Set(cx, cy, col)
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render, plus the cells
// under last frame's overlay text.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	if c.redraw {
		c.renderBuf.WriteString("\033[H\033[2J")
		clear(c.prevValid)
	}
	for _, s := range c.oldSpans {
		c.invalidate(s)
	}
	c.oldSpans = append(c.oldSpans[:0], c.textSpans...)
	c.textSpans = c.textSpans[:0]

	fg, bg := -1, -1
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if c.prevValid[idx] && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur
			c.prevValid[idx] = true
			if c.redraw && cur == (cell{}) {
				continue // Screen was just cleared
			}

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			c.writeCell(cur, &fg, &bg)
		}
	}
	c.redraw = false

	if fg != -1 || bg != -1 {
		c.renderBuf.WriteString(ColorReset)
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// writeCell emits one half-block cell, switching colours only when needed.
func (c *Canvas) writeCell(cur cell, fg, bg *int) {
	setFG := func(col Color) {
		if n := col.ANSI(); *fg != n {
			fmt.Fprintf(&c.renderBuf, "\033[38;5;%dm", n)
			*fg = n
		}
	}
	setBG := func(col Color) {
		if col == ColorNone {
			if *bg != 0 {
				c.renderBuf.WriteString("\033[49m")
				*bg = 0
			}
			return
		}
		if n := col.ANSI(); *bg != n+1 {
			fmt.Fprintf(&c.renderBuf, "\033[48;5;%dm", n)
			*bg = n + 1
		}
	}

	switch {
	case cur.top == ColorNone && cur.bottom == ColorNone:
		setBG(ColorNone)
		c.renderBuf.WriteByte(' ')
	case cur.top == cur.bottom:
		setFG(cur.top)
		setBG(ColorNone)
		c.renderBuf.WriteRune(BlockFull)
	case cur.top == ColorNone:
		setFG(cur.bottom)
		setBG(ColorNone)
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		setFG(cur.top)
		setBG(cur.bottom)
		c.renderBuf.WriteRune(BlockUpperHalf)
	}
}

// MarkText records overlay text written at 1-based canvas position (col, row)
// spanning width cells, so those cells are repainted once the text goes away.
func (c *Canvas) MarkText(col, row, width int) {
	if width > 0 {
		c.textSpans = append(c.textSpans, span{col: col - 1, row: row - 1, width: width})
	}
}

func (c *Canvas) invalidate(s span) {
	if s.row < 0 || s.row >= c.termHeight {
		return
	}
	from := max(s.col, 0)
	to := min(s.col+s.width, c.termWidth)
	for col := from; col < to; col++ {
		c.prevValid[s.row*c.termWidth+col] = false
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(c.toPX(x)))
	py := int(math.Floor(c.toPY(y)))
	return px + 1, py/2 + 1
}
