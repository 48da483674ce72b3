package world

import (
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Direction is a horizontal movement intent.
type Direction int

const (
	Left Direction = iota
	Right
)

// CheckTerminal ends the episode when the player is out of lives or any enemy
// has reached the player's row. Safe to call repeatedly: the Over side effects
// run once per episode. Returns true if the episode is over.
func (s *State) CheckTerminal() bool {
	if s.Phase == PhaseOver {
		return true
	}

	if s.Player.Lives == 0 {
		s.enterOver()
		return true
	}
	for _, e := range s.Enemies {
		if e.Bottom() >= s.Player.Y {
			s.enterOver()
			return true
		}
	}
	return false
}

func (s *State) enterOver() {
	if s.Phase == PhaseOver {
		return
	}
	s.Phase = PhaseOver
	s.Player.Moving = object.Moving{}
	if s.Submit == SubmitLocked {
		s.Submit = SubmitArmed
	}
	s.emit(EventGameOver)
	s.emit(EventBackgroundLoopStop)
}

// NextLevel rebuilds a faster formation and clears the bullets. Score and lives carry over.
func (s *State) NextLevel() {
	s.Level++
	s.Formation.Speed += config.EnemySpeedPerLevel
	s.Enemies = InitFormation(s.Formation.Rows, s.Formation.Cols)
	s.Bullets = s.Bullets[:0]
	s.EnemyBullets = s.EnemyBullets[:0]
	s.Player.Recenter(s.Field)
	s.emit(EventLevelUp)
}

// Reset starts a new episode from scratch.
func (s *State) Reset() {
	s.Player.Lives = config.InitialLives
	s.Player.Moving = object.Moving{}
	s.Player.Recenter(s.Field)

	s.Score = 0
	s.Level = 1
	s.Formation = NewFormation()
	s.Enemies = InitFormation(s.Formation.Rows, s.Formation.Cols)
	s.Bullets = s.Bullets[:0]
	s.EnemyBullets = s.EnemyBullets[:0]
	for _, e := range s.Explosions {
		e.MarkDestroyed()
	}
	s.Explosions = object.Compact(s.Explosions)

	s.Phase = PhaseActive
	s.Submit = SubmitLocked
	s.Episode++
	s.fired = false
	s.emit(EventBackgroundLoopStart)
}

// CanSubmit reports whether the name form accepts a confirmation.
func (s *State) CanSubmit() bool {
	return s.Phase == PhaseOver && s.Submit == SubmitArmed
}

// BeginSubmit claims the episode's single submission. It returns false if the
// episode is still running or a submission is already in flight or done.
func (s *State) BeginSubmit() bool {
	if !s.CanSubmit() {
		return false
	}
	s.Submit = SubmitPending
	return true
}

// FinishSubmit settles an in-flight submission. A failed submission re-arms the
// form so the player can retry.
func (s *State) FinishSubmit(err error) {
	if s.Submit != SubmitPending {
		return
	}
	if err != nil {
		s.Submit = SubmitArmed
		return
	}
	s.Submit = SubmitDone
}

// PlayAgain resets the game once the episode is over and its score is recorded.
func (s *State) PlayAgain() bool {
	if s.Phase != PhaseOver || s.Submit != SubmitDone {
		return false
	}
	s.Reset()
	return true
}

// Fire spawns a player bullet unless the cooldown since the last shot has not
// elapsed. now is the scheduler's monotonic time.
func (s *State) Fire(now time.Duration) bool {
	if s.Phase != PhaseActive {
		return false
	}
	if s.fired && now-s.lastFire < config.FireCooldown {
		return false
	}
	s.fired = true
	s.lastFire = now
	s.Bullets = append(s.Bullets, object.NewPlayerBullet(s.Player))
	s.emit(EventShoot)
	return true
}

// SetMove sets or clears a held movement intent.
func (s *State) SetMove(dir Direction, on bool) {
	switch dir {
	case Left:
		s.Player.Moving.Left = on
	case Right:
		s.Player.Moving.Right = on
	}
}
