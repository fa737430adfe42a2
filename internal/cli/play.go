package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/persist"
	"github.com/alchemypls/stellar/internal/state"
	"github.com/alchemypls/stellar/internal/ui"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Explore the star chart in the terminal",
		Long: `Start the interactive star chart. The session is restored from the
save slot and every move is saved as you go. Logs are written to log_file
from the config, or discarded while the chart owns the terminal.

With --no-save the saved session is loaded but moves are kept in memory
only.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, cmd, noSave)
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write moves back to the save slot")
	return cmd
}

func runPlay(opts *RootOptions, cmd *cobra.Command, noSave bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return NewExitError(ExitCommandError, "play needs an interactive terminal; try stats or nav instead")
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return WrapExitError(ExitFailure, "open log file", err)
		}
		defer f.Close()
		logger = opts.newLogger(cfg, f)
	}

	s, err := openSession(cmd.Context(), cfg, logger, !noSave)
	if err != nil {
		return err
	}
	if noSave {
		s.saver = persist.Autosave(s.mgr, persist.NewMemoryStore(), cfg.Slot, logger)
		s.ensureStarted()
	}
	logger.Info("play: slot %s, %d stars, session %s", cfg.Slot, len(s.cat.Stars), s.saver.SessionID())

	model := ui.New(s.mgr, s.cat, ui.Options{
		ZoomStep:  cfg.Zoom.Step,
		StartStar: cfg.StartStar,
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, runErr := p.Run()

	closeErr := s.close()
	if runErr != nil {
		return WrapExitError(ExitFailure, "run star chart", runErr)
	}
	if closeErr != nil {
		return closeErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), playSummary(s.mgr.CompletionStats(), cfg.Slot, noSave))
	return nil
}

// playSummary is the line printed when the chart closes.
func playSummary(stats state.CompletionStats, slot string, noSave bool) string {
	progress := fmt.Sprintf("%d/%d stars, %d/%d constellations",
		stats.StarsFound, stats.TotalStars, stats.ConstellationsCompleted, stats.TotalConstellations)
	if noSave {
		return fmt.Sprintf("Not saved (--no-save): %s, slot %s unchanged", progress, slot)
	}
	return fmt.Sprintf("Saved to slot %s: %s", slot, progress)
}
