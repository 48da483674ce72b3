package world

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Formation moves the enemy grid in lockstep: a horizontal sweep that reverses
// and descends whenever a member touches a side of the field.
type Formation struct {
	Direction float64 // +1 right, -1 left
	Speed     float64 // Units per tick
	Rows      int
	Cols      int
	Drop      float64 // Descent per reversal
}

// NewFormation returns a formation at the base speed moving right.
func NewFormation() Formation {
	return Formation{
		Direction: 1,
		Speed:     config.EnemyBaseSpeed,
		Rows:      config.EnemyRows,
		Cols:      config.EnemyCols,
		Drop:      config.EnemyDropDistance,
	}
}

// InitFormation builds a full rows x cols grid of enemies, row-major.
func InitFormation(rows, cols int) []*object.Enemy {
	enemies := make([]*object.Enemy, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			enemies = append(enemies, object.NewEnemy(r, c))
		}
	}
	return enemies
}

// Advance sweeps every enemy by Speed*Direction. If any enemy ends the sweep on or
// past a side bound, the direction flips once and the whole formation drops by Drop.
// Returns true if the formation reversed.
func (f *Formation) Advance(enemies []*object.Enemy, width float64) bool {
	if len(enemies) == 0 {
		return false
	}

	dx := f.Speed * f.Direction
	reverse := false
	for _, e := range enemies {
		e.X += dx
		if e.X <= 0 || e.X >= width-e.Width {
			reverse = true
		}
	}

	if !reverse {
		return false
	}

	f.Direction = -f.Direction
	for _, e := range enemies {
		e.Y += f.Drop
	}
	return true
}
