package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/client"
	gameconfig "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/world"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	// Logs are held back while the screen is in raw mode.
	var logs bytes.Buffer
	logger := config.NewLoggerTo(&logs, "game")
	defer func() {
		os.Stderr.Write(logs.Bytes())
	}()

	termName := os.Getenv("TERM")
	width, height, _ := term.GetSize(int(os.Stdout.Fd()))
	constrained := loop.DetectConstrained(termName, width, height)

	var listeners []world.Listener
	if config.GetEnvBool("INVADERS_AUDIO", !constrained) {
		sm := audio.NewSoundManager(logger)
		if err := sm.Initialize(); err != nil {
			logger.Warn("Audio unavailable", "error", err)
		} else {
			defer sm.Cleanup()
			sm.SetMuted(config.GetEnvBool("INVADERS_MUTE", false))
			logger.Debug("Audio ready", "muted", sm.Muted())
			listeners = append(listeners, sm)
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	host := loop.NewTickerHost(gameconfig.DisplayRefresh)
	defer host.Close()

	c := client.New(bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Username:  config.GetEnv("USER", ""),
		Term:      termName,
		TPS:       config.GetEnvInt("INVADERS_TPS", loop.TickRate(constrained)),
		Submitter: leaderboard.SubmitterFromEnv(logger),
		Listeners: listeners,
		Logger:    logger,
	})
	return c.Run(ctx, host)
}
