package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/dsa-labs/dashcat/internal/site"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch, enrich, and write the catalog site",
		Long: `Fetch dashboards from every configured source, enrich and link them,
and write the catalog site to the output directory.

Source-level failures are reported as warnings; the catalog is still written
from the sources that succeeded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			doc, err := cc.Engine.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := site.Build(cc.Cfg.OutputDir, doc); err != nil {
				return err
			}

			for _, msg := range doc.Errors {
				cc.Renderer.Warnf("source failed: %s", msg)
			}

			if cc.Renderer.JSONMode() {
				return cc.Renderer.JSON(map[string]any{
					"run_id":     doc.RunID,
					"output_dir": cc.Cfg.OutputDir,
					"counts":     doc.Counts,
					"errors":     doc.Errors,
				})
			}

			names := make([]string, 0, len(doc.Counts))
			for name := range doc.Counts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				cc.Renderer.Printf("  %-12s %d\n", name, doc.Counts[name])
			}
			cc.Renderer.Printf("Catalog written to %s (%d dashboards, %d terms)\n",
				cc.Cfg.OutputDir, len(doc.Assets), len(doc.Terms))
			return nil
		},
	}
}
