package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/persist"
	"github.com/alchemypls/stellar/internal/site"
	"github.com/alchemypls/stellar/internal/version"
)

// NewSlotsCommand creates the slots command.
func NewSlotsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List save slots in the configured store",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			store, err := cfg.OpenStore()
			if err != nil {
				return WrapExitError(ExitFailure, "open save store", err)
			}
			defer store.Close()

			slots, err := store.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "list save slots", err)
			}
			if slots == nil {
				slots = []persist.SlotInfo{}
			}

			var b strings.Builder
			if len(slots) == 0 {
				b.WriteString("No save slots\n")
			}
			for _, sl := range slots {
				marker := " "
				if sl.Slot == cfg.Slot {
					marker = "*"
				}
				fmt.Fprintf(&b, "%s %-30s %s\n", marker, sl.Slot, sl.UpdatedAt.Local().Format(time.DateTime))
			}
			return rootOpts.formatter(cmd).Success(slots, b.String())
		},
	}
}

// NewSiteCommand creates the site command.
func NewSiteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "site <out-dir>",
		Short: "Export the project pages as a static site",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.DataDir)
			if err != nil {
				return WrapExitError(ExitFailure, "load catalog", err)
			}

			f := rootOpts.formatter(cmd)
			written, err := site.Build(args[0], cat)
			if err != nil {
				return WrapExitError(ExitFailure, "build site", err)
			}
			for _, p := range written {
				f.VerboseLog("wrote %s", p)
			}
			return f.Success(written, fmt.Sprintf("Wrote %d pages to %s\n", len(written), args[0]))
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stellar version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
			}, "stellar "+version.String()+"\n")
		},
	}
}
