package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

//go:embed sprites/*.txt
var spriteFS embed.FS

var (
	ErrEmptySprite  = errors.New("sprite has no rows")
	ErrRaggedSprite = errors.New("sprite rows differ in width")
)

// spritePalette maps sprite characters to canvas colours. '.' and ' ' are transparent.
var spritePalette = map[byte]draw.Color{
	'W': draw.ColorWhite,
	'G': draw.ColorGreen,
	'L': draw.ColorLime,
	'R': draw.ColorRed,
	'Y': draw.ColorYellow,
	'O': draw.ColorOrange,
}

// Sprite is a small colour bitmap stretched over an entity's box.
type Sprite struct {
	W, H  int
	cells []draw.Color // Row-major, ColorNone is transparent
}

// ParseSprite reads an ASCII bitmap: one line per row, one character per cell.
func ParseSprite(data []byte) (*Sprite, error) {
	lines := bytes.Split(bytes.TrimRight(data, "\r\n"), []byte("\n"))
	if len(lines) == 0 || len(bytes.TrimSpace(lines[0])) == 0 {
		return nil, ErrEmptySprite
	}

	s := &Sprite{W: len(bytes.TrimRight(lines[0], "\r")), H: len(lines)}
	s.cells = make([]draw.Color, 0, s.W*s.H)
	for i, line := range lines {
		line = bytes.TrimRight(line, "\r")
		if len(line) != s.W {
			return nil, fmt.Errorf("row %d: %w", i, ErrRaggedSprite)
		}
		for _, ch := range line {
			s.cells = append(s.cells, spritePalette[ch])
		}
	}
	return s, nil
}

// LoadSprite parses an embedded sprite by name (without extension).
func LoadSprite(name string) (*Sprite, error) {
	data, err := spriteFS.ReadFile("sprites/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("load sprite %q: %w", name, err)
	}
	s, err := ParseSprite(data)
	if err != nil {
		return nil, fmt.Errorf("parse sprite %q: %w", name, err)
	}
	return s, nil
}

// At returns the colour of cell (x, y).
func (s *Sprite) At(x, y int) draw.Color {
	return s.cells[y*s.W+x]
}

// DrawSprite stretches s over box. A nil sprite is drawn as a solid box in fallback.
func DrawSprite(c *draw.Canvas, s *Sprite, box physics.Rect, fallback draw.Color) {
	if s == nil {
		c.FillRect(box.X, box.Y, box.W, box.H, fallback)
		return
	}

	cw := box.W / float64(s.W)
	ch := box.H / float64(s.H)
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			col := s.At(x, y)
			if col == draw.ColorNone {
				continue
			}
			c.FillRect(box.X+float64(x)*cw, box.Y+float64(y)*ch, cw, ch, col)
		}
	}
}
