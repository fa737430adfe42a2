package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alchemypls/stellar/internal/astro"
	"github.com/alchemypls/stellar/internal/state"
)

// StatsResult is the JSON payload of the stats command.
type StatsResult struct {
	Slot     string                `json:"slot"`
	Restored bool                  `json:"restored"`
	Session  state.Session         `json:"session"`
	Stats    state.CompletionStats `json:"stats"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion stats of the saved session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.newLogger(cfg, cmd.ErrOrStderr())

			s, err := openSession(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer s.close()

			sess := s.mgr.Session()
			stats := s.mgr.CompletionStats()

			var b strings.Builder
			if !s.restored {
				fmt.Fprintf(&b, "No saved session in slot %s\n", cfg.Slot)
			}
			fmt.Fprintf(&b, "Stars found:    %d/%d\n", stats.StarsFound, stats.TotalStars)
			fmt.Fprintf(&b, "Constellations: %d/%d\n", stats.ConstellationsCompleted, stats.TotalConstellations)
			if sess.CurrentStarID != "" {
				fmt.Fprintf(&b, "Current star:   %s (%s)\n", s.starName(sess.CurrentStarID), s.constellationName(sess.CurrentConstellation))
			}
			names := make([]string, 0, len(sess.UnlockedConstellations))
			for _, id := range sess.UnlockedConstellations {
				names = append(names, s.constellationName(id))
			}
			fmt.Fprintf(&b, "Unlocked:       %s\n", strings.Join(names, ", "))
			fmt.Fprintf(&b, "Zoom:           %.1fx (max %.1fx)\n", sess.ZoomLevel, sess.MaxZoomLevel)

			return rootOpts.formatter(cmd).Success(StatsResult{
				Slot:     cfg.Slot,
				Restored: s.restored,
				Session:  sess,
				Stats:    stats,
			}, b.String())
		},
	}
}

// NavOption is one travel choice with its sky separation.
type NavOption struct {
	state.NavigationOption
	Name       string  `json:"name"`
	Separation float64 `json:"separationDeg"`
}

// NavResult is the JSON payload of the nav command.
type NavResult struct {
	Moved       bool        `json:"moved"`
	Connected   *bool       `json:"connected,omitempty"`
	CurrentStar string      `json:"currentStar"`
	Options     []NavOption `json:"options"`
	Discovered  []string    `json:"discovered,omitempty"`
}

// NewNavCommand creates the nav command.
func NewNavCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nav [up|right|down|left|<star-id>]",
		Short: "Take one navigation step in the saved session",
		Long: `Without an argument, print the current star and where you can travel.
With a direction, move to the nearest star that way. With a star id, jump to
that star and report whether it is connected to the current one.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runNav(rootOpts, cmd, target)
		},
	}
}

func runNav(opts *RootOptions, cmd *cobra.Command, target string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.newLogger(cfg, cmd.ErrOrStderr())

	s, err := openSession(cmd.Context(), cfg, logger, true)
	if err != nil {
		return err
	}

	res := NavResult{}
	var b strings.Builder
	before := make(map[string]bool)
	for _, id := range s.mgr.Session().DiscoveredConstellations {
		before[id] = true
	}

	if target != "" {
		if dir, ok := state.ParseDirection(target); ok {
			opt, moved := s.mgr.Move(dir)
			if !moved {
				_ = s.close()
				return NewExitError(ExitCommandError, fmt.Sprintf("no star to the %s", dir))
			}
			res.Moved = true
			fmt.Fprintf(&b, "Travelled %s to %s\n", dir, s.starName(opt.StarID))
		} else {
			if _, ok := s.mgr.Star(target); !ok {
				_ = s.close()
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown star %q", target))
			}
			connected := s.mgr.CanNavigateTo(target)
			res.Connected = &connected
			if !connected {
				fmt.Fprintf(&b, "Note: %s is not connected to the current star\n", s.starName(target))
			}
			s.mgr.SetCurrentStar(target)
			res.Moved = true
			fmt.Fprintf(&b, "Jumped to %s\n", s.starName(target))
		}
	}

	sess := s.mgr.Session()
	res.CurrentStar = sess.CurrentStarID
	for _, id := range sess.DiscoveredConstellations {
		if !before[id] {
			res.Discovered = append(res.Discovered, id)
		}
	}

	current, hasCurrent := s.mgr.Star(sess.CurrentStarID)
	if hasCurrent {
		fmt.Fprintf(&b, "Current star: %s (%s, mag %.2f)\n", current.DisplayName(), s.constellationName(current.ConstellationID()), current.Mag)
	} else {
		b.WriteString("No current star\n")
	}

	for _, opt := range s.mgr.NavigationOptions() {
		star, _ := s.mgr.Star(opt.StarID)
		sep := 0.0
		if hasCurrent {
			sep = astro.AngularSeparation(
				astro.HoursToDegrees(current.RA), current.Dec,
				astro.HoursToDegrees(star.RA), star.Dec)
		}
		res.Options = append(res.Options, NavOption{NavigationOption: opt, Name: star.DisplayName(), Separation: sep})
		fmt.Fprintf(&b, "  %-5s -> %-20s %6.0f units  %5.1f°\n", opt.Direction, star.DisplayName(), opt.Distance, sep)
	}
	if hasCurrent && len(res.Options) == 0 {
		b.WriteString("  nowhere to go from here\n")
	}
	if len(res.Discovered) > 0 {
		names := make([]string, len(res.Discovered))
		for i, id := range res.Discovered {
			names[i] = s.constellationName(id)
		}
		fmt.Fprintf(&b, "Constellation complete: %s\n", strings.Join(names, ", "))
	}

	if err := s.close(); err != nil {
		return err
	}
	return opts.formatter(cmd).Success(res, b.String())
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress in the save slot",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.newLogger(cfg, cmd.ErrOrStderr())
			f := rootOpts.formatter(cmd)

			if purge {
				store, err := cfg.OpenStore()
				if err != nil {
					return WrapExitError(ExitFailure, "open save store", err)
				}
				defer store.Close()
				if err := store.Delete(cmd.Context(), cfg.Slot); err != nil {
					return WrapExitError(ExitFailure, "delete save slot", err)
				}
				return f.Success(map[string]string{"deleted": cfg.Slot}, fmt.Sprintf("Deleted slot %s\n", cfg.Slot))
			}

			s, err := openSession(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			s.mgr.ResetProgress()
			s.ensureStarted()
			if err := s.close(); err != nil {
				return err
			}

			sess := s.mgr.Session()
			return f.Success(sess, fmt.Sprintf("Progress reset, starting at %s\n", s.starName(sess.CurrentStarID)))
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "delete the slot instead of writing a fresh session")
	return cmd
}
