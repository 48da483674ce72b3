package client

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/world"
	"github.com/tomz197/invaders/internal/render"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	screenChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if screenChanged || inactiveChanged {
		c.frame.Clear()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	if c.state.Screen == ScreenGame {
		c.renderer.Scene(c.canvas, c.world)
	} else {
		c.canvas.Clear()
	}

	// Render canvas to terminal
	c.canvas.Render(c.frame)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.frame)

	c.drawUI(render.Text{Canvas: c.canvas, Out: c.frame})

	return c.frame.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(t render.Text) {
	c.state.button = render.Button{}

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen(t)
	case c.state.isInactive:
		c.drawInactivityScreen(t)
	case c.state.Screen == ScreenTitle:
		c.renderer.Title(t, c.state.Board)
	case c.state.Screen == ScreenGame:
		c.renderer.HUD(t, c.world)
		if c.world.Phase == world.PhaseOver {
			c.state.button = c.renderer.GameOver(t, c.overView())
		}
	}
}

// overView describes the game over overlay.
func (c *Client) overView() render.OverView {
	return render.OverView{
		Score:       c.world.Score,
		FormVisible: c.state.FormVisible,
		Name:        string(c.state.Name),
		Message:     c.state.Message,
		Submitting:  c.world.Submit == world.SubmitPending,
		Saved:       c.world.Submit == world.SubmitDone,
		Board:       c.state.Board,
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(t render.Text) {
	st := c.renderer.Styles()
	mid := t.Canvas.TerminalHeight() / 2

	t.Centered(mid-2, st.GameOver.Render("INACTIVITY WARNING"))

	idle := time.Duration(config.InactivityDisconnectUser) * time.Second
	left := int((idle - (c.sched.Now() - c.state.lastInput)).Seconds())
	t.Centered(mid, st.Prompt.Render(fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0))))
	t.Centered(mid+2, st.Hint.Render("Press any key to continue"))
}

// drawShutdownScreen draws the host shutdown notification screen.
func (c *Client) drawShutdownScreen(t render.Text) {
	st := c.renderer.Styles()
	mid := t.Canvas.TerminalHeight() / 2

	t.Centered(mid-3, st.GameOver.Render("SERVER SHUTTING DOWN"))
	t.Centered(mid-1, st.Prompt.Render("Please reconnect in a moment."))

	remaining := int((c.state.shutdownAt-c.sched.Now()).Seconds()) + 1
	t.Centered(mid+1, st.Hint.Render(fmt.Sprintf("Disconnecting in %d seconds...", max(remaining, 0))))
	t.Centered(mid+3, st.Hint.Render("Press Q to disconnect now"))
}
