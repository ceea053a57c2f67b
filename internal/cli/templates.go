package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/menupress/menupress/pkg/template"
)

// templatesCommand creates the templates command for browsing local
// template files.
func (c *CLI) templatesCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "templates [dir]",
		Short: "Browse layout template files",
		Long: `Browse layout template files in a directory.

Scans the directory for .toml and .json template definitions and opens an
interactive picker. Selecting a template prints its details and the layout
command to use it. Files that fail to parse are listed but cannot be
selected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runTemplates(dir, list)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "print the list without the interactive picker")

	return cmd
}

// runTemplates scans dir and either lists or interactively picks a template.
func (c *CLI) runTemplates(dir string, listOnly bool) error {
	entries, err := scanTemplates(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printWarning("No template files found in %s", dir)
		return nil
	}

	if listOnly {
		for _, e := range entries {
			if e.Template == nil {
				printDetail("%s (invalid: %v)", e.Path, e.Err)
				continue
			}
			printInfo("%s", e.Path)
			printDetail("%s v%s · %s · %d columns", e.Template.ID, e.Template.Version,
				e.Template.Page.Size, e.Template.Body.Container.Cols)
		}
		return nil
	}

	model := NewTemplateListModel(entries)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	result, ok := final.(TemplateListModel)
	if !ok || result.Selected == nil {
		return nil
	}

	entry := result.Selected.Entry
	printSuccess("Selected %s", entry.Template.ID)
	printKeyValue("file", entry.Path)
	printKeyValue("version", entry.Template.Version)
	printKeyValue("page", string(entry.Template.Page.Size))
	printKeyValue("columns", fmt.Sprintf("%d", entry.Template.Body.Container.Cols))
	printNewline()
	printNextStep("Lay out a menu", fmt.Sprintf("menupress layout %s <menu.json>", entry.Path))

	return nil
}

// scanTemplates parses every .toml and .json file in dir as a template.
func scanTemplates(dir string) ([]TemplateEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var entries []TemplateEntry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".toml" && ext != ".json" {
			continue
		}
		path := filepath.Join(dir, f.Name())
		tpl, err := template.LoadFile(path)
		entries = append(entries, TemplateEntry{Path: path, Template: tpl, Err: err})
	}

	slices.SortFunc(entries, func(a, b TemplateEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries, nil
}
