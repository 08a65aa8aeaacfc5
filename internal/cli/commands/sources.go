package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dsa-labs/dashcat/internal/source"
)

// NewSourcesCommand creates the sources command.
func NewSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List registered source adapters",
		Long:  `List every registered source adapter and whether its credentials are configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutEngine(cmd)

			configured := source.Configured(cc.Cfg.Credentials(), cc.Logger)

			if cc.Renderer.JSONMode() {
				return cc.Renderer.JSON(configured)
			}

			titleCaser := cases.Title(language.English)

			t := table.NewWriter()
			t.SetOutputMirror(cc.Renderer.Out())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Source", "Configured"})
			for _, name := range source.List() {
				status := "no"
				if configured[name] {
					status = "yes"
				}
				t.AppendRow(table.Row{titleCaser.String(name), status})
			}
			t.Render()
			return nil
		},
	}
}
