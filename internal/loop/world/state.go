// Package world holds the single-episode game state and the per-tick simulation:
// formation movement, collisions, level progression and the game-over machine.
package world

import (
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// Phase is the episode phase.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseOver
)

func (p Phase) String() string {
	if p == PhaseOver {
		return "over"
	}
	return "active"
}

// SubmitState tracks score submission within one episode.
type SubmitState int

const (
	SubmitLocked  SubmitState = iota // Episode still running
	SubmitArmed                      // Over; waiting for the player to confirm a name
	SubmitPending                    // Submission in flight
	SubmitDone                       // Score recorded
)

// gridCellSize covers the largest entity box (enemy 40x30, player 50x30).
const gridCellSize = 60

// State is the authoritative aggregate for one game: entities, score, level and
// lives, the episode phase and pending events. It is owned by a single goroutine.
type State struct {
	Field        object.Screen
	Player       *object.Player
	Bullets      []*object.Bullet
	EnemyBullets []*object.Bullet
	Enemies      []*object.Enemy
	Explosions   []*object.Explosion
	Formation    Formation

	Score   int
	Level   int
	Phase   Phase
	Episode int
	Frame   uint64
	Submit  SubmitState

	lastFire time.Duration
	fired    bool

	events  []Event
	drained []Event
	grid    *physics.SpatialGrid
}

// New creates a state on the standard playfield with the first episode started.
func New() *State {
	return NewWithField(object.NewScreen(config.FieldWidth, config.FieldHeight))
}

// NewWithField creates a state on a custom playfield with the first episode started.
func NewWithField(field object.Screen) *State {
	s := &State{
		Field:  field,
		Player: object.NewPlayer(field),
		grid:   physics.NewSpatialGrid(float64(field.Width), float64(field.Height), gridCellSize),
	}
	s.Reset()
	return s
}

// Width returns the playfield width as a float.
func (s *State) Width() float64 {
	return float64(s.Field.Width)
}

// Active reports whether the episode is still being played.
func (s *State) Active() bool {
	return s.Phase == PhaseActive
}
