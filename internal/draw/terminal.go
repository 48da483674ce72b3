package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1000h\033[?1006h" // Button presses, SGR encoding
	seqMouseOff    = "\033[?1006l\033[?1000l"
	frameWriteSize = 8192
)

// Frame collects everything one tick writes to the terminal: the canvas diff,
// the border and overlay text. Overlay text is positioned in 1-based canvas
// cells and shifted by the canvas offset; each span is reported to the canvas
// so it repaints those cells once the text is gone. Flush sends the frame in
// maxChunkSize pieces.
type Frame struct {
	canvas *Canvas
	out    *bufio.Writer
	buf    strings.Builder
	num    [20]byte
}

// NewFrame creates a frame writer for canvas that flushes to w.
func NewFrame(w io.Writer, canvas *Canvas) *Frame {
	return &Frame{canvas: canvas, out: bufio.NewWriterSize(w, frameWriteSize)}
}

// Write queues raw output; Canvas.Render and RenderBorder write through it.
func (f *Frame) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// Clear queues a full terminal clear and makes the next render repaint every cell.
func (f *Frame) Clear() {
	f.buf.WriteString(seqClear)
	f.canvas.ForceRedraw()
}

// Text places s, width cells wide, at canvas cell (col, row). Text that would
// fall outside the canvas is dropped and Text reports false.
func (f *Frame) Text(col, row, width int, s string) bool {
	if row < 1 || row > f.canvas.TerminalHeight() || col < 1 || col+width-1 > f.canvas.TerminalWidth() {
		return false
	}
	f.buf.WriteString("\033[")
	f.buf.Write(strconv.AppendInt(f.num[:0], int64(row+f.canvas.OffsetRow()), 10))
	f.buf.WriteByte(';')
	f.buf.Write(strconv.AppendInt(f.num[:0], int64(col+f.canvas.OffsetCol()), 10))
	f.buf.WriteByte('H')
	f.buf.WriteString(s)
	f.canvas.MarkText(col, row, width)
	return true
}

// Flush writes the queued frame and resets it.
func (f *Frame) Flush() error {
	data := f.buf.String()
	f.buf.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := f.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return f.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterGame hides the cursor, turns on mouse reporting and clears the screen.
func EnterGame(w io.Writer) {
	io.WriteString(w, seqHideCursor+seqMouseOn+seqClear)
}

// LeaveGame undoes EnterGame and leaves a clean screen behind.
func LeaveGame(w io.Writer) {
	io.WriteString(w, seqMouseOff+seqShowCursor+seqClear)
}
