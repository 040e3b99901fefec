package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/tts/engines"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	voicesFormat string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voices of the configured engine",
		Long:    paragraph(fmt.Sprintf("\n%s the voices offered by the configured engine. The voice picked by default for your locale is marked.", keyword("List"))),
		Example: paragraph("narrate voices\nnarrate voices --engine piper --format yaml"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if voicesFormat != "table" && voicesFormat != "yaml" {
				return fmt.Errorf("unknown format %q: use table or yaml", voicesFormat)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := engines.New(cfg)
			if err != nil {
				return err
			}
			defer engine.Close() //nolint:errcheck

			if !engine.Available() {
				return fmt.Errorf("%s: %w", engine.Name(), tts.ErrUnavailable)
			}
			voices, err := engine.Voices(cmd.Context())
			if err != nil {
				return fmt.Errorf("unable to list voices: %w", err)
			}

			def := defaultVoiceID(cfg, voices)
			if voicesFormat == "yaml" {
				return writeVoicesYAML(cmd.OutOrStdout(), engine.Name(), voices, def)
			}
			return writeVoicesTable(cmd.OutOrStdout(), engine.Name(), voices, def)
		},
	}
)

// defaultVoiceID returns the voice a new session would use.
func defaultVoiceID(cfg tts.Config, voices []tts.Voice) string {
	ccfg := cfg.ToControllerConfig()
	if _, ok := tts.FindVoice(voices, ccfg.Voice); ok {
		return ccfg.Voice
	}
	if v, ok := tts.SelectDefaultVoice(ccfg.Locale, voices); ok {
		return v.ID
	}
	return ""
}

type voiceEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Language string `yaml:"language,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
}

type voiceList struct {
	Engine string       `yaml:"engine"`
	Voices []voiceEntry `yaml:"voices"`
}

func writeVoicesYAML(w io.Writer, engine string, voices []tts.Voice, def string) error {
	list := voiceList{Engine: engine, Voices: make([]voiceEntry, 0, len(voices))}
	for _, v := range voices {
		list.Voices = append(list.Voices, voiceEntry{
			ID:       v.ID,
			Name:     v.Name,
			Language: v.Language,
			Default:  v.ID == def,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("unable to encode voices: %w", err)
	}
	return enc.Close()
}

// voicesMarkdown lists voices as a markdown table.
func voicesMarkdown(engine string, voices []tts.Voice, def string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s voices\n\n", engine)
	if len(voices) == 0 {
		b.WriteString("No voices found. The engine default will be used.\n")
		return b.String()
	}

	b.WriteString("| | ID | Name | Language |\n|---|---|---|---|\n")
	for _, v := range voices {
		mark := ""
		if v.ID == def {
			mark = "★"
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", mark, v.ID, escapeCell(v.Name), v.Language)
	}
	if def != "" {
		fmt.Fprintf(&b, "\n★ default voice for your locale\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeVoicesTable(w io.Writer, engine string, voices []tts.Voice, def string) error {
	width := 80
	style := glamour.WithStandardStyle(styles.NoTTYStyle)
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) { //nolint:gosec
		if tw, _, err := term.GetSize(fd); err == nil {
			width = min(tw, 120)
		}
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(voicesMarkdown(engine, voices, def))
	if err != nil {
		return fmt.Errorf("unable to render voices: %w", err)
	}
	if _, err := fmt.Fprint(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

func init() {
	voicesCmd.Flags().StringVar(&voicesFormat, "format", "table", "output format: table or yaml")
}
