package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/menupress/menupress/pkg/layout"
	"github.com/menupress/menupress/pkg/pipeline"
	"github.com/menupress/menupress/pkg/template"
)

// layoutCommand creates the layout command for computing tile documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout <template.toml|json> <menu.json>",
		Short: "Compute a paginated tile document from a template and a menu",
		Long: `Compute a paginated tile document from a template and a menu.

The layout command takes a layout template (TOML or JSON) and a menu snapshot
(JSON) and computes the full paginated layout: grid allocation, last-row
balancing, and decorative filler placement. The output is a document.json
file describing every page and tile with absolute coordinates.

The layout is deterministic: the same template and menu content always
produce the same document. Results are cached locally keyed on the menu
content fingerprint, so re-running after cosmetic snapshot changes (new
record ids, new extraction timestamps) is instant.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], args[1], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <menu>.document.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached document exists")

	return cmd
}

// runLayout loads the inputs, computes the document, and writes output.
func (c *CLI) runLayout(ctx context.Context, templatePath, menuPath, output string, noCache, refresh bool) error {
	tpl, err := template.LoadFile(templatePath)
	if err != nil {
		return fmt.Errorf("load template %s: %w", templatePath, err)
	}

	m, err := loadMenuFile(menuPath)
	if err != nil {
		return fmt.Errorf("load menu %s: %w", menuPath, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %q...", m.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Template: tpl,
		Menu:     m,
		Refresh:  refresh,
		Logger:   c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(menuPath, filepath.Ext(menuPath))
		outputPath = base + ".document.json"
	}

	data, err := layout.MarshalDocument(result.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.PageCount, result.Stats.TileCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Inspect", "jq '.pages[0]' "+outputPath)

	return nil
}
