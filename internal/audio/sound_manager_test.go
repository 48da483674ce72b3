package audio

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/tomz197/invaders/internal/loop/world"
)

func quietManager() *SoundManager {
	return NewSoundManager(log.New(io.Discard))
}

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := quietManager()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	for kind := world.EventShoot; kind <= world.EventLevelUp; kind++ {
		sm.OnEvent(world.Event{Kind: kind})
	}
	sm.StartBackground()
	sm.StopBackground()
	sm.SetMuted(true)
	sm.Cleanup()
}

// TestSoundManagerInitialization verifies sound manager can be initialized and cleaned up
func TestSoundManagerInitialization(t *testing.T) {
	sm := quietManager()

	// Speaker initialization may fail without an audio device; audio is optional.
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should succeed as no-op, got error: %v", err)
	}

	sm.OnEvent(world.Event{Kind: world.EventBackgroundLoopStart})
	sm.OnEvent(world.Event{Kind: world.EventShoot})
	sm.OnEvent(world.Event{Kind: world.EventBackgroundLoopStop})
	sm.Cleanup()
}

func TestMutedFlag(t *testing.T) {
	sm := quietManager()
	if sm.Muted() {
		t.Fatalf("new manager should not be muted")
	}
	sm.SetMuted(true)
	if !sm.Muted() {
		t.Fatalf("SetMuted(true) not reflected")
	}
}

func TestEffectForEvents(t *testing.T) {
	tests := []struct {
		kind world.EventKind
		want effect
	}{
		{world.EventShoot, effectShoot},
		{world.EventEnemyHit, effectEnemyHit},
		{world.EventPlayerHit, effectPlayerHit},
		{world.EventGameOver, effectGameOver},
		{world.EventLevelUp, effectLevelUp},
		{world.EventBackgroundLoopStart, effectBackgroundStart},
		{world.EventBackgroundLoopStop, effectBackgroundStop},
		{world.EventKind(99), effectNone},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := effectFor(tt.kind); got != tt.want {
				t.Errorf("effectFor(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

// drain streams s to completion and returns the sample count, failing if it
// produces a value outside [-1, 1] or runs past limit.
func drain(t *testing.T, s beep.Streamer, limit int) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if math.IsNaN(smp[0]) || math.Abs(smp[0]) > 1 || math.Abs(smp[1]) > 1 {
				t.Fatalf("sample out of range: %v", smp)
			}
		}
		total += n
		if !ok {
			return total
		}
	}
	return total
}

func TestOneShotEffectsFinish(t *testing.T) {
	limit := sampleRate.N(5e9) // 5s
	for _, e := range []effect{effectShoot, effectEnemyHit, effectPlayerHit, effectGameOver, effectLevelUp} {
		s := newEffect(e)
		if s == nil {
			t.Fatalf("effect %d has no streamer", e)
		}
		if n := drain(t, s, limit); n >= limit || n == 0 {
			t.Errorf("effect %d produced %d samples", e, n)
		}
	}
	if newEffect(effectNone) != nil {
		t.Errorf("effectNone should have no streamer")
	}
}

func TestBlipLength(t *testing.T) {
	g := newBlip(sampleRate, 880, 1e8) // 100ms
	if n := drain(t, g, 1<<20); n != sampleRate.N(1e8) {
		t.Fatalf("blip produced %d samples, want %d", n, sampleRate.N(1e8))
	}
}

func TestMarchNeverEnds(t *testing.T) {
	g := newMarch(sampleRate)
	limit := sampleRate.N(3e9)
	if n := drain(t, g, limit); n < limit {
		t.Fatalf("march stopped after %d samples", n)
	}
}
