package world

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Rand is the random source used for enemy fire. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Step advances an active episode by one tick. It is a no-op once the episode is over.
//
// Order: player movement, explosion decay, bullet flight, formation sweep, enemy
// fire, collisions, level advance, and the terminal check on every
// config.TerminalCheckN-th frame. Explosions decay before collisions so a new one
// is first drawn at its start size.
func Step(s *State, frame uint64, rng Rand) {
	s.Frame = frame
	if s.Phase != PhaseActive {
		return
	}

	s.Player.Move(s.Field)

	for _, e := range s.Explosions {
		e.Update()
	}
	s.Explosions = object.Compact(s.Explosions)

	for _, b := range s.Bullets {
		if b.Update(s.Field) {
			b.MarkDestroyed()
		}
	}
	s.Bullets = object.Compact(s.Bullets)

	for _, b := range s.EnemyBullets {
		if b.Update(s.Field) {
			b.MarkDestroyed()
		}
	}
	s.EnemyBullets = object.Compact(s.EnemyBullets)

	s.Formation.Advance(s.Enemies, s.Width())

	enemyFire(s, rng)

	ResolvePlayerBullets(s)
	ResolveEnemyBullets(s)

	if s.Phase == PhaseActive && len(s.Enemies) == 0 {
		s.NextLevel()
	}

	if frame%config.TerminalCheckN == 0 {
		s.CheckTerminal()
	}
}

// enemyFire spawns at most one enemy bullet, from a uniformly chosen live enemy.
func enemyFire(s *State, rng Rand) {
	if rng == nil || len(s.Enemies) == 0 {
		return
	}
	if rng.Float64() >= config.EnemyFireChance {
		return
	}
	shooter := s.Enemies[rng.IntN(len(s.Enemies))]
	s.EnemyBullets = append(s.EnemyBullets, object.NewEnemyBullet(shooter))
}
