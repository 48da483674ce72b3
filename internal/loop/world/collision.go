package world

import (
	"slices"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// ResolvePlayerBullets consumes every player bullet that overlaps a live enemy.
// A bullet destroys at most one enemy and an enemy absorbs at most one bullet.
// Each hit scores, spawns an enemy explosion and emits EventEnemyHit.
// Returns the number of enemies destroyed.
func ResolvePlayerBullets(s *State) int {
	if len(s.Bullets) == 0 || len(s.Enemies) == 0 {
		return 0
	}

	s.grid.Clear()
	for i, e := range s.Enemies {
		s.grid.Insert(e.X, e.Y, i)
	}

	hits := 0
	for _, b := range s.Bullets {
		if b.IsDestroyed() {
			continue
		}
		br := b.Rect()
		s.grid.QueryAround(br.X, br.Y, func(idx int) bool {
			e := s.Enemies[idx]
			if e.IsDestroyed() || !br.Overlaps(e.Rect()) {
				return false
			}

			b.MarkDestroyed()
			e.MarkDestroyed()
			s.Score += config.ScorePerEnemy
			x, y := e.Center()
			s.Explosions = append(s.Explosions, object.NewExplosion(x, y, object.FactionEnemy))
			s.emit(EventEnemyHit)
			hits++
			return true
		})
	}

	s.Bullets = object.Compact(s.Bullets)
	s.Enemies = object.Compact(s.Enemies)
	return hits
}

// ResolveEnemyBullets removes the first enemy bullet overlapping the player and
// takes one life. The player is hit at most once per call; further overlapping
// bullets stay in flight. Lives reaching zero ends the episode.
// Returns true if the player was hit.
func ResolveEnemyBullets(s *State) bool {
	pr := s.Player.Rect()
	for i, b := range s.EnemyBullets {
		if !pr.Overlaps(b.Rect()) {
			continue
		}

		s.EnemyBullets = slices.Delete(s.EnemyBullets, i, i+1)
		s.Player.Hit()
		x, y := s.Player.Center()
		s.Explosions = append(s.Explosions, object.NewExplosion(x, y, object.FactionPlayer))
		s.emit(EventPlayerHit)

		if s.Player.Lives == 0 {
			s.enterOver()
		}
		return true
	}
	return false
}
