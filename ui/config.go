package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Title shown in the header, usually the name of the loaded file.
	Title string

	// Text loaded into the editor at start.
	Text string

	EnableMouse bool

	// InputTTY reads keys from the terminal because stdin carried the text.
	InputTTY bool

	// Theme selects the colour palette: auto, dark or light.
	Theme string `env:"NARRATE_THEME" envDefault:"auto"`

	// For debugging the UI
	AltScreen bool `env:"NARRATE_ALT_SCREEN" envDefault:"true"`
	FullHelp  bool `env:"NARRATE_FULL_HELP"`
}
