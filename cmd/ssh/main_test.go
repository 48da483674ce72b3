package main

import (
	"sync"
	"testing"
	"time"
)

func TestSSHEnviron(t *testing.T) {
	env := sshEnviron{"LANG=C", "TERM=xterm-256color", "COLORTERM=truecolor"}
	if got := env.Getenv("TERM"); got != "xterm-256color" {
		t.Fatalf("Getenv(TERM) = %q", got)
	}
	if got := env.Getenv("COLOR"); got != "" {
		t.Fatalf("prefix match leaked: %q", got)
	}
	if len(env.Environ()) != 3 {
		t.Fatalf("Environ = %v", env.Environ())
	}
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)
	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Fatalf("getSize = %d, %d, %v", w, h, err)
	}
}

func TestWaitTimeout(t *testing.T) {
	var wg sync.WaitGroup
	if !waitTimeout(&wg, time.Second) {
		t.Fatalf("empty group should finish immediately")
	}
	wg.Add(1)
	if waitTimeout(&wg, 10*time.Millisecond) {
		t.Fatalf("busy group should time out")
	}
	wg.Done()
}
