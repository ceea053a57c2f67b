package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menupress/menupress/pkg/template"
)

// validateCommand creates the validate command for checking input files.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate template and menu files",
	}

	cmd.AddCommand(c.validateTemplateCommand())
	cmd.AddCommand(c.validateMenuCommand())

	return cmd
}

// validateTemplateCommand creates the "validate template" subcommand.
func (c *CLI) validateTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <file.toml|json>",
		Short: "Check a layout template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := template.LoadFile(args[0])
			if err != nil {
				printError("Invalid template")
				return err
			}

			printSuccess("Template is valid")
			printKeyValue("id", tpl.ID)
			printKeyValue("version", tpl.Version)
			printKeyValue("page", string(tpl.Page.Size))
			printKeyValue("columns", fmt.Sprintf("%d", tpl.Body.Container.Cols))
			printKeyValue("tiles", fmt.Sprintf("%d", len(tpl.Tiles)))
			return nil
		},
	}
}

// validateMenuCommand creates the "validate menu" subcommand.
func (c *CLI) validateMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu <file.json>",
		Short: "Check a menu snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMenuFile(args[0])
			if err != nil {
				printError("Invalid menu")
				return err
			}

			printSuccess("Menu is valid")
			printKeyValue("name", m.Name)
			printKeyValue("sections", fmt.Sprintf("%d", len(m.Sections)))
			printKeyValue("items", fmt.Sprintf("%d", m.ItemCount()))
			printKeyValue("fingerprint", m.Fingerprint()[:12])
			return nil
		},
	}
}
