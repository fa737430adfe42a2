package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/alchemypls/stellar/internal/catalog"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Summarise the loaded catalog fixtures",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.DataDir)
			if err != nil {
				return WrapExitError(ExitFailure, "load catalog", err)
			}

			var buf bytes.Buffer
			catalog.WriteSummaryTable(&buf, cat)
			return rootOpts.formatter(cmd).Success(catalog.GenerateSummaryRows(cat), buf.String())
		},
	}
}
