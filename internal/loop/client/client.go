// Package client runs one player's session: it reads input, steps the world at the
// scheduler's tick rate, talks to the leaderboard and draws every frame.
package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/world"
	"github.com/tomz197/invaders/internal/render"
)

const (
	msgNameRequired = "Please enter your name!"
	msgSubmitFailed = "Failed to submit score"
)

// submitResult is the outcome of a background score submission.
type submitResult struct {
	episode int
	err     error
}

// Client handles rendering and input for a single session.
type Client struct {
	state        *ClientState
	world        *world.State
	sched        *loop.Scheduler
	mapper       input.Mapper
	rng          world.Rand
	canvas       *draw.Canvas
	frame        *draw.Frame
	renderer     *render.Renderer
	writer       io.Writer
	inputStream  *input.Stream
	read         func() input.Input
	submitter    leaderboard.Submitter
	listeners    []world.Listener // Host listeners followed by the client itself
	logger       *log.Logger
	username     string
	termSizeFunc draw.TermSizeFunc
	shutdown     <-chan struct{}

	ctx      context.Context
	submitCh chan submitResult
	boardCh  chan []leaderboard.Entry
	err      error
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string // Pre-fills the name field
	Term         string // TERM of the session, used to detect constrained hosts
	TPS          int    // Ticks per second; 0 picks one from the host
	Submitter    leaderboard.Submitter
	Listeners    []world.Listener // Audio and other event consumers
	Lipgloss     *lipgloss.Renderer
	Logger       *log.Logger
	Rand         world.Rand
	Shutdown     <-chan struct{} // Closed when the host is shutting down
}

// New creates a client reading from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	submitter := opts.Submitter
	if submitter == nil {
		submitter = leaderboard.NewService(nil, logger)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	tps := opts.TPS
	if tps <= 0 {
		constrained := loop.DetectConstrained(opts.Term, termWidth, termHeight)
		tps = loop.TickRate(constrained)
		logger.Debug("Tick rate", "tps", tps, "constrained", constrained)
	}

	c := &Client{
		state:        NewClientState(),
		rng:          rng,
		canvas:       canvas,
		frame:        draw.NewFrame(w, canvas),
		renderer:     render.New(opts.Lipgloss, logger),
		writer:       w,
		inputStream:  input.StartStream(r),
		submitter:    submitter,
		logger:       logger,
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		shutdown:     opts.Shutdown,
		ctx:          context.Background(),
		submitCh:     make(chan submitResult, 1),
		boardCh:      make(chan []leaderboard.Entry, 4),
	}
	c.read = func() input.Input { return input.ReadInput(c.inputStream) }
	c.listeners = append(slices.Clone(opts.Listeners), c)
	c.sched = loop.NewScheduler(tps, c.tick)
	return c
}

// Run drives the session from host frames. Blocks until the player quits, the
// input closes, ctx is done or the host shuts down.
func (c *Client) Run(ctx context.Context, host loop.Host) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.ctx = ctx

	draw.EnterGame(c.writer)
	defer c.inputStream.Close()

	c.refreshBoard()

	err := c.sched.Run(ctx, host)
	c.sched.CancelAll()

	// Stop the background loop of an unfinished episode.
	if c.world != nil && c.world.Active() {
		for _, l := range c.listeners {
			if l != nil {
				l.OnEvent(world.Event{Kind: world.EventBackgroundLoopStop})
			}
		}
	}

	draw.LeaveGame(c.writer)
	if c.err != nil {
		return c.err
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Running reports whether the session is still live.
func (c *Client) Running() bool {
	return c.state.Running
}

// World returns the current episode's state, or nil on the title screen.
func (c *Client) World() *world.State {
	return c.world
}

func (c *Client) quit() {
	c.state.Running = false
	c.sched.Stop()
}

// tick is the scheduler step: input, simulation, async results, then the frame.
func (c *Client) tick(frame uint64, now time.Duration) {
	in := c.read()
	c.trackActivity(in, now)
	if !c.state.Running {
		return
	}
	c.checkShutdown(now)
	c.drainResults()
	c.updateScreen()

	intents := c.mapper.Map(in)
	if c.interrupted(intents) {
		c.quit()
		return
	}

	switch c.state.Screen {
	case ScreenTitle:
		c.updateTitle(intents)
	case ScreenGame:
		c.updateGame(intents, frame, now)
	case ScreenShutdown:
		c.updateShutdown(intents, now)
	}
	if !c.state.Running {
		return
	}

	if err := c.drawFrame(); err != nil {
		c.logger.Debug("Frame write failed", "error", err)
		c.err = err
		c.quit()
	}
}

func (c *Client) interrupted(intents []input.Intent) bool {
	for _, it := range intents {
		if it.Kind == input.Interrupt {
			return true
		}
	}
	return false
}

// trackActivity updates the inactivity timers. Only key presses count.
func (c *Client) trackActivity(in input.Input, now time.Duration) {
	idle := (now - c.state.lastInput).Seconds()
	switch {
	case len(in.Pressed) > 0:
		c.state.lastInput = now
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("Disconnecting inactive player", "user", c.username)
		c.quit()
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}
}

func (c *Client) checkShutdown(now time.Duration) {
	if c.shutdown == nil || c.state.Screen == ScreenShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.state.Screen = ScreenShutdown
		c.state.shutdownAt = now + config.ShutdownDisplay
	default:
	}
}

// drainResults applies finished submissions and leaderboard fetches.
func (c *Client) drainResults() {
	for {
		select {
		case res := <-c.submitCh:
			c.finishSubmit(res)
		case board := <-c.boardCh:
			c.state.Board = board
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.frame.Clear()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateTitle handles the title screen.
func (c *Client) updateTitle(intents []input.Intent) {
	for _, it := range intents {
		switch it.Kind {
		case input.Fire, input.Confirm, input.Press:
			c.startGame()
			return
		case input.Quit:
			c.quit()
			return
		}
	}
}

// startGame leaves the title screen with a fresh episode.
func (c *Client) startGame() {
	c.inputStream.ResetKeyInput()
	c.mapper.Release()
	c.world = world.New()
	c.state.resetForm()
	c.state.Screen = ScreenGame
	c.dispatch()
	c.logger.Debug("Game started", "user", c.username)
}

// updateGame applies intents to the world and advances it one tick.
func (c *Client) updateGame(intents []input.Intent, frame uint64, now time.Duration) {
	if c.world.Active() {
		for _, it := range intents {
			switch it.Kind {
			case input.MoveLeft:
				c.world.SetMove(world.Left, it.On)
			case input.MoveRight:
				c.world.SetMove(world.Right, it.On)
			case input.Fire:
				c.world.Fire(now)
			case input.Quit:
				c.quit()
				return
			}
		}
	} else {
		c.updateOver(intents)
		if !c.state.Running {
			return
		}
	}

	world.Step(c.world, frame, c.rng)
	c.dispatch()
}

// dispatch hands this tick's events to the listeners and then to the client.
func (c *Client) dispatch() {
	c.world.Dispatch(c.listeners...)
}

// OnEvent reacts to world events that change the session UI.
func (c *Client) OnEvent(ev world.Event) {
	if ev.Kind != world.EventGameOver {
		return
	}
	c.logger.Debug("Game over", "user", c.username, "score", ev.Score, "level", ev.Level)
	c.state.resetForm()
	c.state.Name = append(c.state.Name, []rune(truncateName(c.username))...)
	c.state.reveal = c.sched.After(config.FormRevealDelay, func() {
		c.state.FormVisible = true
	})
}

// updateOver handles the game over form and the Play Again button.
func (c *Client) updateOver(intents []input.Intent) {
	editing := c.state.FormVisible && c.world.Submit == world.SubmitArmed

	for _, it := range intents {
		switch {
		case editing:
			switch it.Kind {
			case input.Text:
				c.typeRune(it.Rune)
			case input.Backspace:
				if n := len(c.state.Name); n > 0 {
					c.state.Name = c.state.Name[:n-1]
				}
			case input.Confirm:
				c.submit()
				editing = false
			}
		case c.world.Submit == world.SubmitDone:
			switch it.Kind {
			case input.Fire, input.Confirm:
				c.playAgain()
				return
			case input.Press:
				if c.onButton(it.Click) {
					c.playAgain()
					return
				}
			case input.Quit:
				c.quit()
				return
			}
		case it.Kind == input.Quit:
			c.quit()
			return
		}
	}
}

func (c *Client) typeRune(r rune) {
	if !unicode.IsPrint(r) || len(c.state.Name) >= config.MaxNameLength {
		return
	}
	c.state.Name = append(c.state.Name, r)
	c.state.Message = ""
}

// onButton reports whether a 0-based terminal click hits the Play Again button.
func (c *Client) onButton(click input.Click) bool {
	col := click.Col + 1 - c.canvas.OffsetCol()
	row := click.Row + 1 - c.canvas.OffsetRow()
	return c.state.button.Contains(col, row)
}

// submit validates the name and sends the score in the background.
func (c *Client) submit() {
	name := strings.TrimSpace(string(c.state.Name))
	if name == "" {
		c.state.Message = msgNameRequired
		return
	}
	if !c.world.BeginSubmit() {
		return
	}
	c.state.Message = ""

	episode, score := c.world.Episode, c.world.Score
	ctx := c.ctx
	go func() {
		ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
		defer cancel()
		_, err := c.submitter.Submit(ctx, name, score)
		c.submitCh <- submitResult{episode: episode, err: err}
	}()
}

func (c *Client) finishSubmit(res submitResult) {
	if c.world == nil || res.episode != c.world.Episode {
		return
	}
	c.world.FinishSubmit(res.err)

	switch {
	case res.err == nil:
		c.state.Message = ""
		c.sched.After(config.BoardRefreshLag, c.refreshBoard)
	case errors.Is(res.err, leaderboard.ErrNameRequired):
		c.state.Message = msgNameRequired
	default:
		c.logger.Warn("Score submission failed", "user", c.username, "error", res.err)
		c.state.Message = msgSubmitFailed
	}
}

// refreshBoard fetches the leaderboard in the background.
func (c *Client) refreshBoard() {
	ctx := c.ctx
	go func() {
		ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
		defer cancel()
		board := c.submitter.Top(ctx, config.LeaderboardTop)
		select {
		case c.boardCh <- board:
		default:
		}
	}()
}

// playAgain starts the next episode once the score is recorded.
func (c *Client) playAgain() {
	if !c.world.PlayAgain() {
		return
	}
	c.sched.CancelAll()
	c.mapper.Release()
	c.inputStream.ResetKeyInput()
	c.state.resetForm()
}

// updateShutdown counts down the shutdown notice.
func (c *Client) updateShutdown(intents []input.Intent, now time.Duration) {
	for _, it := range intents {
		if it.Kind == input.Quit {
			c.quit()
			return
		}
	}
	if now >= c.state.shutdownAt {
		c.quit()
	}
}

func truncateName(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > config.MaxNameLength {
		r = r[:config.MaxNameLength]
	}
	return string(r)
}
