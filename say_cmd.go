package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	sayCmd = &cobra.Command{
		Use:     "say [FILE|-]",
		Short:   "Speak text without the interface",
		Long:    paragraph(fmt.Sprintf("\n%s text once with the configured voice, rate and pitch, printing each status change. Press Ctrl+C to stop.", keyword("Speak"))),
		Example: paragraph("narrate say --text 'Hello there.'\nnarrate say notes.md\ncat story.txt | narrate say -"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args, os.Stdin)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, ctrl, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			var logger *log.Logger
			if verbose {
				logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "say", Level: log.InfoLevel})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sp := newSpeaker(ctrl, cmd.OutOrStdout(), logger)
			go func() { _ = ctrl.Listen(ctx, s.Events()) }()

			if err := ctrl.LoadVoices(ctx); err != nil {
				log.Warn("Could not load voices", "error", err)
			}
			ctrl.SetText(in.text)
			if err := ctrl.Play(); err != nil {
				return err
			}

			select {
			case snap := <-sp.done:
				if snap.Status.Level == tts.LevelError {
					return errors.New(snap.Status.Message)
				}
				return nil
			case <-ctx.Done():
				return ctrl.Stop()
			}
		},
	}
)

// speaker prints status changes of a controller and reports when a
// session it saw start has ended.
type speaker struct {
	out    io.Writer
	logger *log.Logger // nil unless verbose
	done   chan tts.Snapshot

	mu      sync.Mutex
	last    tts.Status
	started bool
}

func newSpeaker(ctrl *tts.Controller, out io.Writer, logger *log.Logger) *speaker {
	sp := &speaker{
		out:    out,
		logger: logger,
		done:   make(chan tts.Snapshot, 1),
	}
	ctrl.OnChange(sp.onChange)
	return sp
}

func (sp *speaker) onChange(snap tts.Snapshot) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if snap.Status != sp.last {
		sp.last = snap.Status
		fmt.Fprintln(sp.out, statusLine(snap.Status))
		if sp.logger != nil {
			sp.logger.Info("status", "state", snap.State, "level", snap.Status.Level, "message", snap.Status.Message)
		}
	}

	if snap.State.IsActive() {
		sp.started = true
		return
	}
	if sp.started {
		select {
		case sp.done <- snap:
		default:
		}
	}
}

func init() {
	sayCmd.Flags().BoolVar(&verbose, "verbose", false, "log status changes to stderr")
}
