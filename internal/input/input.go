// Package input turns raw terminal bytes into per-frame key state and game intents.
package input

import (
	"bufio"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// keyHoldDuration is how long a movement key is considered "held" after its last
// press. Terminals send no key-up events, only auto-repeat.
const keyHoldDuration = 80 * time.Millisecond

// Click is a mouse press at a 0-based terminal cell.
type Click struct {
	Col int
	Row int
}

// Input represents the current frame's input state.
type Input struct {
	Left      bool // Held
	Right     bool // Held
	Fire      int  // Space presses this frame
	Enter     bool
	Backspace bool
	Escape    bool
	Quit      bool // 'q'
	Interrupt bool // Ctrl+C
	Text      []rune
	Clicks    []Click
	Closed    bool // Reader hit EOF
	Pressed   []byte
}

// keyState tracks the last time each movement key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	done   chan struct{}
	once   sync.Once
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine ends at EOF, on a read error or once Close is called and it next
// has a byte to deliver.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:   make(chan byte, 128),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Close stops delivery. Later reads report the stream as closed.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.closed = true
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

// ResetKeyInput forgets held keys, e.g. when switching screens.
func (s *Stream) ResetKeyInput() {
	s.state = keyState{}
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, now)
	in.Closed = s.closed
	return in
}

// parse updates key state from buf and builds the frame's input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); {
		b := buf[i]

		if b == '\x1b' {
			if n, ok := s.parseEscape(buf[i:], now, &in); ok {
				i += n
				continue
			}
			in.Escape = true
			i++
			continue
		}

		if b >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				in.Text = append(in.Text, r)
			}
			i += size
			continue
		}

		s.applyByte(b, now, &in)
		i++
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}

// parseEscape handles CSI/SS3 arrow keys and SGR mouse reports at the start of seq.
// Returns the number of bytes consumed.
func (s *Stream) parseEscape(seq []byte, now time.Time, in *Input) (int, bool) {
	if len(seq) < 3 || (seq[1] != '[' && seq[1] != 'O') {
		return 0, false
	}

	switch seq[2] {
	case 'A', 'B':
		return 3, true
	case 'C':
		s.state.right = now
		return 3, true
	case 'D':
		s.state.left = now
		return 3, true
	case '<':
		if seq[1] != '[' {
			return 0, false
		}
		n, click, press, ok := parseSGRMouse(seq)
		if !ok {
			return 0, false
		}
		if press {
			in.Clicks = append(in.Clicks, click)
		}
		return n, true
	}
	return 0, false
}

// parseSGRMouse parses "ESC [ < b ; x ; y M|m". press is true for a left-button
// press; releases, motion and other buttons are consumed but not reported.
func parseSGRMouse(seq []byte) (n int, click Click, press bool, ok bool) {
	var fields [3]int
	field := 0
	digits := 0
	for i := 3; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c >= '0' && c <= '9':
			fields[field] = fields[field]*10 + int(c-'0')
			digits++
		case c == ';':
			if digits == 0 || field == 2 {
				return 0, Click{}, false, false
			}
			field++
			digits = 0
		case c == 'M' || c == 'm':
			if field != 2 || digits == 0 {
				return 0, Click{}, false, false
			}
			button := fields[0]
			click = Click{Col: fields[1] - 1, Row: fields[2] - 1}
			return i + 1, click, c == 'M' && button == 0, true
		default:
			return 0, Click{}, false, false
		}
	}
	return 0, Click{}, false, false
}

// applyByte updates the key state and frame input for a single byte.
func (s *Stream) applyByte(b byte, now time.Time, in *Input) {
	switch b {
	case 'a', 'A', 'j', 'J':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case 'q', 'Q':
		in.Quit = true
	case ' ':
		in.Fire++
	case '\n', '\r':
		in.Enter = true
	case '\b', '\x7f':
		in.Backspace = true
	case '\x03':
		in.Interrupt = true
	}

	if b >= 0x20 && b < 0x7f {
		in.Text = append(in.Text, rune(b))
	}
}
