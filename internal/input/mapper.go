package input

// IntentKind identifies what the player asked for.
type IntentKind int

const (
	MoveLeft IntentKind = iota
	MoveRight
	Fire
	Confirm
	Backspace
	Text
	Quit
	Interrupt
	Press
)

func (k IntentKind) String() string {
	switch k {
	case MoveLeft:
		return "moveLeft"
	case MoveRight:
		return "moveRight"
	case Fire:
		return "fire"
	case Confirm:
		return "confirm"
	case Backspace:
		return "backspace"
	case Text:
		return "text"
	case Quit:
		return "quit"
	case Interrupt:
		return "interrupt"
	case Press:
		return "press"
	}
	return "unknown"
}

// Intent is one discrete input event for the game.
type Intent struct {
	Kind  IntentKind
	On    bool  // MoveLeft/MoveRight: pressed or released
	Rune  rune  // Text
	Click Click // Press
}

// Mapper converts per-frame key state into edge-triggered intents. Movement
// produces an intent only when a held key starts or stops being held.
type Mapper struct {
	left  bool
	right bool
}

// Map returns the intents for one frame, in a stable order: movement, fire,
// text editing, clicks, then quit.
func (m *Mapper) Map(in Input) []Intent {
	var out []Intent

	if in.Left != m.left {
		m.left = in.Left
		out = append(out, Intent{Kind: MoveLeft, On: in.Left})
	}
	if in.Right != m.right {
		m.right = in.Right
		out = append(out, Intent{Kind: MoveRight, On: in.Right})
	}

	for i := 0; i < in.Fire; i++ {
		out = append(out, Intent{Kind: Fire})
	}

	for _, r := range in.Text {
		out = append(out, Intent{Kind: Text, Rune: r})
	}
	if in.Backspace {
		out = append(out, Intent{Kind: Backspace})
	}
	if in.Enter {
		out = append(out, Intent{Kind: Confirm})
	}

	for _, c := range in.Clicks {
		out = append(out, Intent{Kind: Press, Click: c})
	}

	if in.Quit {
		out = append(out, Intent{Kind: Quit})
	}
	if in.Interrupt || in.Closed {
		out = append(out, Intent{Kind: Interrupt})
	}
	return out
}

// Release clears held movement, returning the release intents that were pending.
func (m *Mapper) Release() []Intent {
	var out []Intent
	if m.left {
		out = append(out, Intent{Kind: MoveLeft, On: false})
	}
	if m.right {
		out = append(out, Intent{Kind: MoveRight, On: false})
	}
	m.left, m.right = false, false
	return out
}
