package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop/world"
)

// Button is a clickable span of overlay text in 1-based canvas cells.
type Button struct {
	Col, Row, Width int
}

// Contains reports whether the 1-based canvas cell (col, row) is on the button.
func (b Button) Contains(col, row int) bool {
	return b.Width > 0 && row == b.Row && col >= b.Col && col < b.Col+b.Width
}

// Text places styled overlay strings on a frame.
type Text struct {
	Canvas *draw.Canvas
	Out    *draw.Frame
}

// At writes s at 1-based canvas position (col, row). Strings that do not fit are dropped.
func (t Text) At(col, row int, s string) {
	t.Out.Text(col, row, lipgloss.Width(s), s)
}

// Centered writes s horizontally centred on row and returns its start column.
func (t Text) Centered(row int, s string) int {
	col := (t.Canvas.TerminalWidth()-lipgloss.Width(s))/2 + 1
	t.At(col, row, s)
	return col
}

// HUD draws score, level and lives in the corners.
func (r *Renderer) HUD(t Text, s *world.State) {
	st := r.styles.HUD
	t.At(2, 1, st.Render("Score: "+strconv.Itoa(s.Score)))

	level := st.Render("Level: " + strconv.Itoa(s.Level))
	t.At(t.Canvas.TerminalWidth()-lipgloss.Width(level), 1, level)

	t.At(2, t.Canvas.TerminalHeight(), st.Render("Lives: "+strconv.Itoa(s.Player.Lives)))
}

// Title draws the start screen with the leaderboard below.
func (r *Renderer) Title(t Text, board []leaderboard.Entry) {
	mid := t.Canvas.TerminalHeight()/2 + 1
	row := max(mid-8, 1)

	t.Centered(row, r.styles.Title.Render("SPACE INVADERS"))
	t.Centered(row+2, r.styles.Prompt.Render("Press SPACE to start"))
	t.Centered(row+3, r.styles.Hint.Render("←/→ or A/D move · SPACE fire · Q quit"))

	r.Board(t, row+5, board)
}

// OverView is what the game over overlay shows.
type OverView struct {
	Score       int
	FormVisible bool
	Name        string
	Message     string // Validation or failure message
	Submitting  bool
	Saved       bool
	Board       []leaderboard.Entry
}

// GameOver draws the game over overlay and returns the Play Again button, which has
// zero width until the score is saved.
func (r *Renderer) GameOver(t Text, v OverView) Button {
	st := r.styles
	mid := t.Canvas.TerminalHeight()/2 + 1
	row := max(mid-9, 1)

	t.Centered(row, st.GameOver.Render("GAME OVER"))
	t.Centered(row+2, st.Score.Render(fmt.Sprintf("Final Score: %d", v.Score)))

	switch {
	case v.Saved:
		t.Centered(row+4, st.Status.Render("Score saved!"))
	case v.Submitting:
		t.Centered(row+4, st.Status.Render("Submitting..."))
	case v.FormVisible:
		name := st.Input.Render(fmt.Sprintf("%-16s", v.Name))
		t.Centered(row+4, st.Prompt.Render("Your name: ")+name)
		t.Centered(row+5, st.Hint.Render("ENTER submit"))
	}
	if v.Message != "" {
		t.Centered(row+6, st.Error.Render(v.Message))
	}

	var btn Button
	if v.Saved {
		label := st.Button.Render("[ Play Again ]")
		col := t.Centered(row+8, label)
		btn = Button{Col: col, Row: row + 8, Width: lipgloss.Width(label)}
	}

	r.Board(t, row+10, v.Board)
	return btn
}

// Board draws the leaderboard panel starting at row.
func (r *Renderer) Board(t Text, row int, board []leaderboard.Entry) {
	t.Centered(row, r.styles.BoardTop.Render("TOP 10"))
	if len(board) == 0 {
		t.Centered(row+1, r.styles.Hint.Render("No scores yet"))
		return
	}
	for i, e := range board {
		line := fmt.Sprintf("%2d. %-16s %6d", i+1, truncate(e.Name, 16), e.Score)
		t.Centered(row+1+i, r.styles.Board.Render(line))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
