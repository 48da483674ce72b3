// Package render draws the game state onto a draw.Canvas and lays out the text
// overlays (HUD, title, game over form and leaderboard) on top of it.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/world"
	"github.com/tomz197/invaders/internal/object"
)

// Styles holds the lipgloss styles for overlay text.
type Styles struct {
	HUD      lipgloss.Style
	Title    lipgloss.Style
	Hint     lipgloss.Style
	GameOver lipgloss.Style
	Score    lipgloss.Style
	Prompt   lipgloss.Style
	Input    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Button   lipgloss.Style
	Board    lipgloss.Style
	BoardTop lipgloss.Style
}

// NewStyles builds the overlay styles for a lipgloss renderer (nil for the default).
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		HUD:      r.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		Title:    r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		Hint:     r.NewStyle().Foreground(lipgloss.Color("244")),
		GameOver: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Score:    r.NewStyle().Foreground(lipgloss.Color("15")),
		Prompt:   r.NewStyle().Foreground(lipgloss.Color("226")),
		Input:    r.NewStyle().Foreground(lipgloss.Color("15")).Underline(true),
		Error:    r.NewStyle().Foreground(lipgloss.Color("196")),
		Status:   r.NewStyle().Foreground(lipgloss.Color("46")),
		Button:   r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("46")).Bold(true),
		Board:    r.NewStyle().Foreground(lipgloss.Color("250")),
		BoardTop: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	}
}

// Renderer draws scenes and overlays for one session.
type Renderer struct {
	styles Styles
	player *Sprite
	enemy  *Sprite
}

// New creates a renderer. Sprites that fail to load are logged and drawn as
// solid placeholders.
func New(lr *lipgloss.Renderer, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	r := &Renderer{styles: NewStyles(lr)}

	var err error
	if r.player, err = LoadSprite("player"); err != nil {
		logger.Warn("Using placeholder", "sprite", "player", "error", err)
	}
	if r.enemy, err = LoadSprite("enemy"); err != nil {
		logger.Warn("Using placeholder", "sprite", "enemy", "error", err)
	}
	return r
}

// Styles returns the overlay styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Scene clears the canvas and draws every entity of s.
func (r *Renderer) Scene(c *draw.Canvas, s *world.State) {
	c.Clear()

	for _, e := range s.Enemies {
		DrawSprite(c, r.enemy, e.Rect(), draw.ColorRed)
	}
	DrawSprite(c, r.player, s.Player.Rect(), draw.ColorGreen)

	for _, b := range s.Bullets {
		c.FillRect(b.X, b.Y, b.Width, b.Height, draw.ColorWhite)
	}
	for _, b := range s.EnemyBullets {
		c.FillRect(b.X, b.Y, b.Width, b.Height, draw.ColorYellow)
	}

	for _, ex := range s.Explosions {
		c.FillCircle(ex.X, ex.Y, ex.Radius, explosionColor(ex))
	}
}

func explosionColor(ex *object.Explosion) draw.Color {
	faded := ex.Alpha < 0.5
	switch {
	case ex.Faction == object.FactionEnemy && faded:
		return draw.ColorDimGreen
	case ex.Faction == object.FactionEnemy:
		return draw.ColorLime
	case faded:
		return draw.ColorDimOrange
	default:
		return draw.ColorOrange
	}
}
