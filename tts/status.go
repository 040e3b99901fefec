package tts

// Level is the severity of a status message.
type Level int

const (
	// LevelInfo is for neutral messages.
	LevelInfo Level = iota
	// LevelSuccess is shown while speech is running.
	LevelSuccess
	// LevelWarning is shown while speech is paused.
	LevelWarning
	// LevelError is for failures the user should see.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Status messages.
const (
	MsgReady        = "Ready"
	MsgSpeaking     = "Speaking..."
	MsgPaused       = "Paused"
	MsgCompleted    = "Speech completed"
	MsgEmptyText    = "Please enter some text to convert to speech!"
	MsgUnavailable  = "Speech synthesis is not available on this system."
	MsgSpeakFailed  = "An error occurred while speaking."
	MsgVoicesFailed = "Could not load voices."
	MsgPauseFailed  = "Could not pause speech."
	MsgResumeFailed = "Could not resume speech."
)

// Status is the message shown in the status line.
type Status struct {
	Message string
	Level   Level
}

// Controls describes how the buttons and inputs should be rendered.
type Controls struct {
	PlayLabel    string // Play/stop toggle label
	PauseLabel   string // Pause/resume toggle label
	PauseEnabled bool
	StopEnabled  bool
	TextEnabled  bool // Text input can be edited
	VoiceEnabled bool // Voice can be changed
}

// ControlsFor derives the control flags for a state.
func ControlsFor(s PlaybackState) Controls {
	switch s {
	case StateSpeaking:
		return Controls{
			PlayLabel:    "Stop",
			PauseLabel:   "Pause",
			PauseEnabled: true,
			StopEnabled:  true,
		}
	case StatePaused:
		return Controls{
			PlayLabel:    "Resume",
			PauseLabel:   "Resume",
			PauseEnabled: true,
			StopEnabled:  true,
		}
	default:
		return Controls{
			PlayLabel:    "Play",
			PauseLabel:   "Pause",
			TextEnabled:  true,
			VoiceEnabled: true,
		}
	}
}
