package world

// EventKind identifies a discrete gameplay event for audio/visual listeners.
type EventKind int

const (
	EventShoot EventKind = iota
	EventEnemyHit
	EventPlayerHit
	EventGameOver
	EventBackgroundLoopStart
	EventBackgroundLoopStop
	EventLevelUp
)

var eventNames = [...]string{
	EventShoot:               "shoot",
	EventEnemyHit:            "enemyHit",
	EventPlayerHit:           "playerHit",
	EventGameOver:            "gameOver",
	EventBackgroundLoopStart: "backgroundLoopStart",
	EventBackgroundLoopStop:  "backgroundLoopStop",
	EventLevelUp:             "levelUp",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is emitted by the simulation and drained by the host after each tick.
type Event struct {
	Kind  EventKind
	Frame uint64
	Score int
	Level int
}

// Listener consumes events. Implementations must not block.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent calls f(ev).
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

func (s *State) emit(kind EventKind) {
	s.events = append(s.events, Event{
		Kind:  kind,
		Frame: s.Frame,
		Score: s.Score,
		Level: s.Level,
	})
}

// DrainEvents returns the events emitted since the last call and clears the queue.
// The returned slice is only valid until the next tick.
func (s *State) DrainEvents() []Event {
	out := s.drained[:0]
	out = append(out, s.events...)
	s.drained = out
	s.events = s.events[:0]
	return out
}

// Dispatch drains pending events into each listener in order.
func (s *State) Dispatch(listeners ...Listener) {
	for _, ev := range s.DrainEvents() {
		for _, l := range listeners {
			if l != nil {
				l.OnEvent(ev)
			}
		}
	}
}
