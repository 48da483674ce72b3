package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Bullet is a projectile moving vertically. Player bullets travel up (negative VY),
// enemy bullets travel down.
type Bullet struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
	VY            float64 // Units per tick
	destroyed     bool
}

// NewPlayerBullet spawns a bullet from the middle of the player's top edge.
func NewPlayerBullet(p *Player) *Bullet {
	return &Bullet{
		X:      p.X + p.Width/2 - config.BulletWidth/2.0,
		Y:      p.Y,
		Width:  config.BulletWidth,
		Height: config.BulletHeight,
		VY:     -config.BulletSpeed,
	}
}

// NewEnemyBullet spawns a bullet from the middle of the enemy's bottom edge.
func NewEnemyBullet(e *Enemy) *Bullet {
	return &Bullet{
		X:      e.X + e.Width/2,
		Y:      e.Y + e.Height,
		Width:  config.BulletWidth,
		Height: config.BulletHeight,
		VY:     config.EnemyShotSpeed,
	}
}

// Update moves the bullet one tick. Returns true once it has left the field:
// past the top edge when moving up, past the bottom edge when moving down.
func (b *Bullet) Update(field Screen) bool {
	b.Y += b.VY
	if b.VY < 0 {
		return b.Y < 0
	}
	return b.Y > float64(field.Height)
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Rect returns the bullet's hitbox.
func (b *Bullet) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}
