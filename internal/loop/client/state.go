package client

import (
	"time"

	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/render"
)

// Screen is what the session is currently showing.
type Screen int

const (
	ScreenTitle    Screen = iota // Title and leaderboard
	ScreenGame                   // Playing or game over
	ScreenShutdown               // Host is going away
)

func (s Screen) String() string {
	switch s {
	case ScreenTitle:
		return "title"
	case ScreenGame:
		return "game"
	case ScreenShutdown:
		return "shutdown"
	}
	return "unknown"
}

// ClientState holds per-session UI state around the world simulation.
type ClientState struct {
	Screen  Screen
	Running bool

	// Game over form
	FormVisible bool
	Name        []rune
	Message     string
	reveal      *loop.Deferred
	button      render.Button

	Board []leaderboard.Entry

	lastInput   time.Duration // Scheduler time of the last key press
	isInactive  bool
	shutdownAt  time.Duration
	prevScreen  Screen
	wasInactive bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenTitle,
		Running:    true,
		prevScreen: ScreenTitle,
	}
}

// resetForm hides and clears the game over form.
func (s *ClientState) resetForm() {
	s.FormVisible = false
	s.Name = s.Name[:0]
	s.Message = ""
	s.reveal = nil
	s.button = render.Button{}
}
