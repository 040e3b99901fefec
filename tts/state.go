package tts

// PlaybackState represents where the controller is in a narration session.
type PlaybackState int

const (
	// StateIdle indicates nothing is being spoken.
	StateIdle PlaybackState = iota
	// StateSpeaking indicates a request is being spoken.
	StateSpeaking
	// StatePaused indicates the live request is paused.
	StatePaused
)

// String returns the string representation of the state.
func (s PlaybackState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// IsActive returns true if a request is live.
func (s PlaybackState) IsActive() bool {
	return s == StateSpeaking || s == StatePaused
}

// stateMachine guards PlaybackState transitions.
type stateMachine struct {
	current     PlaybackState
	transitions map[PlaybackState][]PlaybackState
	onEnter     map[PlaybackState]func(from PlaybackState)
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: StateIdle,
		transitions: map[PlaybackState][]PlaybackState{
			StateIdle:     {StateSpeaking},
			StateSpeaking: {StatePaused, StateIdle},
			StatePaused:   {StateSpeaking, StateIdle},
		},
		onEnter: make(map[PlaybackState]func(PlaybackState)),
	}
}

// transition moves to the given state. Self transitions are accepted and
// do not fire enter callbacks.
func (sm *stateMachine) transition(to PlaybackState) bool {
	if sm.current == to {
		return true
	}
	valid := false
	for _, s := range sm.transitions[sm.current] {
		if s == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	from := sm.current
	sm.current = to
	if fn, ok := sm.onEnter[to]; ok && fn != nil {
		fn(from)
	}
	return true
}

func (sm *stateMachine) state() PlaybackState {
	return sm.current
}

func (sm *stateMachine) setOnEnter(state PlaybackState, fn func(from PlaybackState)) {
	sm.onEnter[state] = fn
}
