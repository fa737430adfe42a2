package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/ingest"
)

// IngestResult is the JSON payload of the ingest command.
type IngestResult struct {
	Out         string          `json:"out"`
	Counts      ingest.Counts   `json:"counts"`
	Assignments int             `json:"assignments"`
	Unmatched   []ingest.Target `json:"unmatched,omitempty"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ingest <hyg.csv>",
		Short: "Build catalog fixtures from a HYG star database CSV",
		Long: `Read a HYG database CSV, keep the configured constellations, place
the stars on the map, assign projects to their target stars and write the
catalog fixtures.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rootOpts, cmd, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: data dir)")
	return cmd
}

func runIngest(opts *RootOptions, cmd *cobra.Command, csvPath, out string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.newLogger(cfg, cmd.ErrOrStderr()).With("ingest")
	if out == "" {
		out = cfg.DataDir
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open star database", err)
	}
	defer f.Close()

	res, err := ingest.Process(f, ingest.DefaultOptions())
	if err != nil {
		return WrapExitError(ExitFailure, "process star database", err)
	}
	logger.Debug("kept %d of %d records", res.Counts.Kept, res.Counts.Records)

	assignments, unmatched := ingest.AssignProjects(res.Stars, cfg.Projects, cfg.Targets)
	for _, t := range unmatched {
		logger.Warn("no star for project %s (%s %s)", t.ProjectID, t.BayerPattern, t.Constellation)
	}

	if err := catalog.Write(out, res.Catalog(assignments)); err != nil {
		return WrapExitError(ExitFailure, "write fixtures", err)
	}
	logger.Info("wrote fixtures to %s", out)

	c := res.Counts
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d records, kept %d stars\n", c.Records, c.Kept)
	fmt.Fprintf(&b, "  navigable:      %d\n", c.Navigable)
	fmt.Fprintf(&b, "  background:     %d\n", c.Background)
	fmt.Fprintf(&b, "  constellations: %d (%d main stars, %d connections)\n", c.Constellations, c.MainStars, c.Connections)
	fmt.Fprintf(&b, "  projects:       %d assigned, %d unmatched\n", len(assignments), len(unmatched))
	fmt.Fprintf(&b, "Fixtures written to %s\n", out)

	return opts.formatter(cmd).Success(IngestResult{
		Out:         out,
		Counts:      c,
		Assignments: len(assignments),
		Unmatched:   unmatched,
	}, b.String())
}
