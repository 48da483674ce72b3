package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Enemy is one invader of the formation.
type Enemy struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
	Row, Col      int // Grid slot the enemy was created in
	destroyed     bool
}

// NewEnemy creates an enemy in the given grid slot.
func NewEnemy(row, col int) *Enemy {
	return &Enemy{
		X:      float64(col*config.EnemySpacingX + config.EnemyOffsetX),
		Y:      float64(row*config.EnemySpacingY + config.EnemyOffsetY),
		Width:  config.EnemyWidth,
		Height: config.EnemyHeight,
		Row:    row,
		Col:    col,
	}
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// Rect returns the enemy's hitbox.
func (e *Enemy) Rect() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Center returns the centre of the hitbox.
func (e *Enemy) Center() (float64, float64) {
	return e.Rect().Center()
}

// Bottom returns the y-coordinate of the enemy's bottom edge.
func (e *Enemy) Bottom() float64 {
	return e.Rect().Bottom()
}
