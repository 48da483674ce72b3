// Package audio plays synthesised effects for gameplay events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/invaders/internal/loop/world"
)

const (
	sampleRate = beep.SampleRate(48000)

	backgroundVolume = 0.4
	effectVolume     = 0.8
)

// effect is the sound played for an event.
type effect int

const (
	effectNone effect = iota
	effectShoot
	effectEnemyHit
	effectPlayerHit
	effectGameOver
	effectLevelUp
	effectBackgroundStart
	effectBackgroundStop
)

func effectFor(kind world.EventKind) effect {
	switch kind {
	case world.EventShoot:
		return effectShoot
	case world.EventEnemyHit:
		return effectEnemyHit
	case world.EventPlayerHit:
		return effectPlayerHit
	case world.EventGameOver:
		return effectGameOver
	case world.EventLevelUp:
		return effectLevelUp
	case world.EventBackgroundLoopStart:
		return effectBackgroundStart
	case world.EventBackgroundLoopStop:
		return effectBackgroundStop
	}
	return effectNone
}

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	background  *beep.Ctrl
	initialized bool
	muted       bool
	logger      *log.Logger
}

// NewSoundManager creates a new sound manager
func NewSoundManager(logger *log.Logger) *SoundManager {
	if logger == nil {
		logger = log.Default()
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.logger.Debug("audio initialized", "rate", int(sampleRate))
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.background != nil {
		sm.background.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()

	sm.background = nil
	sm.initialized = false
}

// SetMuted silences new effects and pauses the background loop.
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = muted
	if sm.initialized && sm.background != nil {
		speaker.Lock()
		sm.background.Paused = muted
		speaker.Unlock()
	}
}

// Muted reports whether the manager is muted.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// OnEvent plays the effect for ev. It never blocks on playback.
func (sm *SoundManager) OnEvent(ev world.Event) {
	switch e := effectFor(ev.Kind); e {
	case effectNone:
	case effectBackgroundStart:
		sm.StartBackground()
	case effectBackgroundStop:
		sm.StopBackground()
	default:
		sm.play(e)
	}
}

// StartBackground starts the looping bass line if it isn't already playing.
func (sm *SoundManager) StartBackground() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if sm.background != nil {
		return
	}

	ctrl := &beep.Ctrl{Streamer: newVolume(newMarch(sampleRate), backgroundVolume), Paused: sm.muted}
	sm.background = ctrl
	speaker.Lock()
	sm.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopBackground stops the bass line.
func (sm *SoundManager) StopBackground() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.background == nil {
		return
	}

	// A stopped Ctrl is dropped by the mixer once it reports no samples.
	speaker.Lock()
	sm.background.Paused = true
	sm.background.Streamer = nil
	speaker.Unlock()
	sm.background = nil
}

func (sm *SoundManager) play(e effect) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}

	s := newEffect(e)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// newEffect builds a one-shot streamer for e.
func newEffect(e effect) beep.Streamer {
	switch e {
	case effectShoot:
		return newVolume(newBlip(sampleRate, 880, 90*time.Millisecond), effectVolume)
	case effectEnemyHit:
		return newVolume(newBoom(sampleRate, 180*time.Millisecond, 0.35), effectVolume)
	case effectPlayerHit:
		return newVolume(newBoom(sampleRate, 450*time.Millisecond, 0.08), effectVolume)
	case effectGameOver:
		return newVolume(beep.Seq(
			newSweep(sampleRate, 440, 330, 250*time.Millisecond),
			newSweep(sampleRate, 330, 220, 250*time.Millisecond),
			newSweep(sampleRate, 220, 110, 500*time.Millisecond),
		), effectVolume)
	case effectLevelUp:
		return newVolume(beep.Seq(
			newBlip(sampleRate, 660, 80*time.Millisecond),
			newBlip(sampleRate, 990, 120*time.Millisecond),
		), effectVolume)
	}
	return nil
}

// newVolume wraps s in a volume effect; math.Log2(0) is -Inf so 0 is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
