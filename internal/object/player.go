package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Moving holds the player's held movement intents.
type Moving struct {
	Left  bool
	Right bool
}

// Player is the cannon at the bottom of the playfield.
type Player struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
	Speed         float64 // Units per tick
	Moving        Moving
	Lives         int
}

// NewPlayer creates a player centred at the bottom of the field.
func NewPlayer(field Screen) *Player {
	p := &Player{
		Y:      float64(field.Height - config.PlayerBottom),
		Width:  config.PlayerWidth,
		Height: config.PlayerHeight,
		Speed:  config.PlayerSpeed,
		Lives:  config.InitialLives,
	}
	p.Recenter(field)
	return p
}

// Recenter moves the player back to the horizontal centre of the field.
func (p *Player) Recenter(field Screen) {
	p.X = float64(field.CenterX) - p.Width/2
}

// Move applies held intents, keeping the player inside the field.
func (p *Player) Move(field Screen) {
	maxX := float64(field.Width) - p.Width
	if p.Moving.Left {
		p.X -= p.Speed
	}
	if p.Moving.Right {
		p.X += p.Speed
	}
	p.X = physics.Clamp(p.X, 0, maxX)
}

// Hit removes one life, never going below zero. Returns the remaining lives.
func (p *Player) Hit() int {
	if p.Lives > 0 {
		p.Lives--
	}
	return p.Lives
}

// Rect returns the player's hitbox.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Center returns the centre of the hitbox.
func (p *Player) Center() (float64, float64) {
	return p.Rect().Center()
}
