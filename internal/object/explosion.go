package object

import (
	"sync"

	"github.com/tomz197/invaders/internal/loop/config"
)

// explosionPool is a sync.Pool for reusing Explosion objects to reduce allocations.
var explosionPool = sync.Pool{
	New: func() any {
		return &Explosion{}
	},
}

// Explosion is a short-lived expanding, fading circle.
type Explosion struct {
	X, Y      float64 // Centre
	Radius    float64
	MaxRadius float64
	Alpha     float64 // Opacity, 0..1
	Faction   Faction
	destroyed bool
}

// NewExplosion creates an explosion from the pool.
func NewExplosion(x, y float64, faction Faction) *Explosion {
	e := explosionPool.Get().(*Explosion)
	*e = Explosion{
		X:         x,
		Y:         y,
		Radius:    config.ExplosionStartRadius,
		MaxRadius: config.ExplosionMaxRadius,
		Alpha:     1,
		Faction:   faction,
	}
	return e
}

// Release returns the explosion to the pool for reuse.
func (e *Explosion) Release() {
	explosionPool.Put(e)
}

// Update grows and fades the explosion by one tick.
// Returns true once it is fully expanded or transparent.
func (e *Explosion) Update() bool {
	e.Radius += config.ExplosionGrowth
	e.Alpha -= config.ExplosionFade
	if e.Alpha < 0 {
		e.Alpha = 0
	}
	if e.Radius >= e.MaxRadius || e.Alpha <= 0 {
		e.destroyed = true
	}
	return e.destroyed
}

// MarkDestroyed marks the explosion for removal.
func (e *Explosion) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the explosion is marked for destruction.
func (e *Explosion) IsDestroyed() bool {
	return e.destroyed
}
