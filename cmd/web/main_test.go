package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/leaderboard"
)

func TestLandingPageAndAPI(t *testing.T) {
	logger := log.New(io.Discard)
	svc := leaderboard.NewService(leaderboard.NewMemoryStore(), logger)
	srv := httptest.NewServer(newMux(svc, leaderboard.NewHub(logger), "arcade.example", logger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ssh -t arcade.example") {
		t.Fatalf("landing page: status %d, placeholder not replaced", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + leaderboard.PathGetScores)
	if err != nil {
		t.Fatalf("GET scores: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("scores = %q, want []", body)
	}
}
