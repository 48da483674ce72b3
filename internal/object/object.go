// Package object holds the plain entity records of the game: player, bullets,
// enemies and explosions.
package object

// Screen represents playfield dimensions in logical units.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a Screen with its centre precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Faction tags who an explosion belongs to.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the current pass.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// Compact removes destroyed entries in place, reusing the backing array,
// and releases pooled ones.
func Compact[T Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if it.IsDestroyed() {
			if r, ok := any(it).(Releasable); ok {
				r.Release()
			}
			continue
		}
		kept = append(kept, it)
	}
	// Drop references held past the new length.
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}
