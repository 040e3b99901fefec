// Package main provides the entry point for the narrate CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/tts/sentence"
	"github.com/dgnsrekt/narrate/tts/synth"
	"github.com/dgnsrekt/narrate/ui"
	"github.com/dgnsrekt/narrate/utils"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	inlineText string
	mute       bool
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "narrate [FILE|-]",
		Short: "Read text aloud in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nType or load text, pick a voice and %s.", keyword("listen")),
		),
		Example: paragraph("narrate\nnarrate notes.md\necho 'Hello there.' | narrate -\nnarrate --engine piper --voice en_US-amy-medium README.md"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: execute,
	}
)

// input is the text to narrate and where it came from.
type input struct {
	text  string
	title string
	piped bool // read from stdin
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readInput resolves the text to narrate from --text, a file argument, "-"
// or a pipe on stdin. Markdown is reduced to speakable plain text.
func readInput(args []string, stdin io.Reader) (input, error) {
	if inlineText != "" {
		return input{text: inlineText}, nil
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	if arg == "" {
		yes, err := stdinIsPipe()
		if err != nil {
			return input{}, err
		}
		if !yes {
			return input{}, nil
		}
		arg = "-"
	}

	if arg == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, fmt.Errorf("unable to read from stdin: %w", err)
		}
		return input{text: string(b), title: "stdin", piped: true}, nil
	}

	path := utils.ExpandPath(arg)
	b, err := os.ReadFile(path)
	if err != nil {
		return input{}, fmt.Errorf("unable to read file: %w", err)
	}

	text := string(b)
	if utils.IsMarkdownFile(path) {
		text = sentence.PlainText(utils.RemoveFrontmatter(b))
	}
	log.Debug("loaded input", "path", path, "bytes", len(b), "chars", len(text))
	return input{text: text, title: filepath.Base(path)}, nil
}

// loadConfig reads the speech configuration and fills in the cache
// directory.
func loadConfig() (tts.Config, error) {
	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return cfg, err
	}

	if cfg.Cache.Dir == "" {
		dir, err := gap.NewScope(gap.User, "narrate").CacheDir()
		if err != nil {
			log.Warn("Could not find cache directory", "error", err)
		} else {
			cfg.Cache.Dir = filepath.Join(dir, "audio")
		}
	}
	cfg.Cache.Dir = utils.ExpandPath(cfg.Cache.Dir)
	return cfg, nil
}

// newSession builds the synthesizer and the controller driving it.
func newSession(cfg tts.Config) (*synth.Synthesizer, *tts.Controller, error) {
	s, err := synth.NewForConfig(cfg, mute)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("synthesizer ready", "engine", s.Engine().Name(), "available", s.Available(), "mute", mute)
	return s, tts.NewController(s, cfg.ToControllerConfig()), nil
}

func execute(_ *cobra.Command, args []string) error {
	in, err := readInput(args, os.Stdin)
	if err != nil {
		return err
	}
	return runTUI(in)
}

func runTUI(in input) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(`narrate needs a terminal, use "narrate say" to speak without one`)
	}

	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	uiCfg.Text = in.text
	uiCfg.Title = in.title
	uiCfg.EnableMouse = mouse
	uiCfg.InputTTY = in.piped

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, ctrl, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	if _, err := ui.NewProgram(uiCfg, ctrl, s.Events()).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	cobra.OnInitialize(loadExplicitConfig)

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringP("engine", "e", "", fmt.Sprintf("speech engine (%s)", strings.Join(tts.Engines, ", ")))
	flags.String("voice", "", "voice ID (default: first voice matching the locale)")
	flags.String("locale", "", "locale used to pick the default voice, e.g. en-GB")
	flags.Float64P("rate", "r", 0, "speech rate, 0.1 to 10")
	flags.Float64P("pitch", "p", 0, "pitch, 0 to 2")
	flags.Float64("volume", 0, "volume, 0 to 1")
	flags.Bool("cache", true, "cache rendered audio")
	flags.BoolVar(&mute, "mute", false, "simulate playback without an audio device")
	flags.StringVarP(&inlineText, "text", "t", "", "text to narrate")

	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("voice", flags.Lookup("voice"))
	_ = viper.BindPFlag("locale", flags.Lookup("locale"))
	_ = viper.BindPFlag("rate", flags.Lookup("rate"))
	_ = viper.BindPFlag("pitch", flags.Lookup("pitch"))
	_ = viper.BindPFlag("volume", flags.Lookup("volume"))
	_ = viper.BindPFlag("cache.enabled", flags.Lookup("cache"))

	tts.SetDefaults()

	rootCmd.AddCommand(sayCmd, voicesCmd, cacheCmd, configCmd, manCmd)
}

func configDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, "narrate")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, err
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "narrate")}, dirs...)
	}

	if c := os.Getenv("NARRATE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

func tryLoadConfigFromDefaultPlaces() {
	dirs, err := configDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("narrate")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("narrate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "narrate.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
		return
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Could not parse configuration file", "err", err)
	}
}

// loadExplicitConfig reads the file given with --config, which is only
// known once flags are parsed.
func loadExplicitConfig() {
	if configFile == "" || configFile == viper.ConfigFileUsed() {
		return
	}
	if _, err := os.Stat(configFile); err != nil {
		return
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Could not parse configuration file", "path", configFile, "err", err)
		return
	}
	log.Debug("Using configuration file", "path", configFile)
}
