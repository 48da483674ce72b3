package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop/world"
	"github.com/tomz197/invaders/internal/physics"
)

func TestParseSprite(t *testing.T) {
	s, err := ParseSprite([]byte("R.R\n.G.\n"))
	if err != nil {
		t.Fatalf("ParseSprite: %v", err)
	}
	if s.W != 3 || s.H != 2 {
		t.Fatalf("size = %dx%d, want 3x2", s.W, s.H)
	}
	if s.At(0, 0) != draw.ColorRed || s.At(1, 0) != draw.ColorNone || s.At(1, 1) != draw.ColorGreen {
		t.Fatalf("cells decoded wrongly")
	}

	if _, err := ParseSprite([]byte("RR\nR\n")); !errors.Is(err, ErrRaggedSprite) {
		t.Fatalf("ragged sprite error = %v", err)
	}
	if _, err := ParseSprite(nil); !errors.Is(err, ErrEmptySprite) {
		t.Fatalf("empty sprite error = %v", err)
	}
}

func TestEmbeddedSpritesLoad(t *testing.T) {
	for _, name := range []string{"player", "enemy"} {
		if _, err := LoadSprite(name); err != nil {
			t.Fatalf("LoadSprite(%q): %v", name, err)
		}
	}
	if _, err := LoadSprite("mothership"); err == nil {
		t.Fatalf("missing sprite should fail to load")
	}
}

func TestDrawSpriteFallback(t *testing.T) {
	c := draw.NewScaledCanvas(80, 30, 800, 600)
	DrawSprite(c, nil, physics.Rect{X: 100, Y: 100, W: 40, H: 30}, draw.ColorRed)
	for x := 10; x < 14; x++ {
		for y := 10; y < 13; y++ {
			if c.Pixel(x, y) != draw.ColorRed {
				t.Fatalf("placeholder pixel (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestSceneDrawsEntities(t *testing.T) {
	r := New(nil, log.New(io.Discard))
	s := world.New()
	s.Fire(0)

	c := draw.NewScaledCanvas(80, 30, 800, 600)
	r.Scene(c, s)

	// First enemy occupies (50,50)-(90,80).
	found := false
	for x := 5; x < 9 && !found; x++ {
		for y := 5; y < 8; y++ {
			if c.Pixel(x, y) == draw.ColorRed {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("first enemy not drawn")
	}

	b := s.Bullets[0]
	if c.Pixel(int(b.X/10), int(b.Y/10)) != draw.ColorWhite {
		t.Fatalf("bullet not drawn")
	}
}

func newText(w, h int) (Text, *bytes.Buffer) {
	var buf bytes.Buffer
	c := draw.NewScaledCanvas(w, h, 800, 600)
	return Text{Canvas: c, Out: draw.NewFrame(&buf, c)}, &buf
}

func TestTextClipsToCanvas(t *testing.T) {
	txt, buf := newText(10, 5)
	txt.At(8, 1, "toolong")
	txt.At(1, 6, "below")
	txt.At(1, 1, "ok")
	txt.Out.Flush()
	if got := buf.String(); got != "\033[1;1Hok" {
		t.Fatalf("output = %q, want only the fitting text", got)
	}
}

func TestHUD(t *testing.T) {
	r := New(nil, log.New(io.Discard))
	s := world.New()
	s.Score = 40

	txt, buf := newText(80, 30)
	r.HUD(txt, s)
	txt.Out.Flush()
	out := buf.String()
	for _, want := range []string{"Score: 40", "Level: 1", "Lives: 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("HUD missing %q in %q", want, out)
		}
	}
}

func TestGameOverButtonOnlyWhenSaved(t *testing.T) {
	r := New(nil, log.New(io.Discard))

	txt, buf := newText(80, 30)
	btn := r.GameOver(txt, OverView{Score: 90, FormVisible: true, Name: "Ada", Message: "Please enter your name!"})
	txt.Out.Flush()
	if btn.Width != 0 {
		t.Fatalf("play again shown before the score was saved")
	}
	out := buf.String()
	for _, want := range []string{"GAME OVER", "Final Score: 90", "Your name:", "Please enter your name!", "No scores yet"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overlay missing %q", want)
		}
	}

	txt, buf = newText(80, 30)
	board := []leaderboard.Entry{{Name: "Ada", Score: 90}}
	btn = r.GameOver(txt, OverView{Score: 90, Saved: true, Board: board})
	txt.Out.Flush()
	if btn.Width == 0 {
		t.Fatalf("play again missing after save")
	}
	if !btn.Contains(btn.Col, btn.Row) || btn.Contains(btn.Col+btn.Width, btn.Row) || btn.Contains(btn.Col, btn.Row+1) {
		t.Fatalf("button hit test wrong: %+v", btn)
	}
	if !strings.Contains(buf.String(), "Ada") {
		t.Fatalf("leaderboard entry missing")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Zoë the Destroyer of Worlds", 5); got != "Zoë t" {
		t.Fatalf("truncate = %q", got)
	}
}
