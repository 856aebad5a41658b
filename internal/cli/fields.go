package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/fields"
)

func (c *CLI) fieldsCommand() *cobra.Command {
	var (
		pick  bool
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List bindable attendee fields",
		Long: `List the attendee fields a badge can bind. Text content, QR data and table
cells may embed a field token; it is substituted per attendee on export.

With --pick an interactive list opens and the chosen token is copied to
the clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := fields.List()
			switch {
			case pick:
				return c.pickField(fs)
			case plain:
				for _, f := range fs {
					fmt.Fprintln(c.out, f.Token)
				}
				return nil
			}
			fmt.Fprintln(c.out, renderFieldTable(fs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose a field interactively and copy its token")
	cmd.Flags().BoolVar(&plain, "plain", false, "print tokens only, one per line")
	return cmd
}

func (c *CLI) pickField(fs []fields.Field) error {
	final, err := tea.NewProgram(NewFieldPickerModel(fs)).Run()
	if err != nil {
		return fmt.Errorf("field picker: %w", err)
	}
	m, ok := final.(FieldPickerModel)
	if !ok || m.Selected == nil {
		c.ui().info("No field selected")
		return nil
	}

	if err := clipboard.WriteAll(m.Selected.Token); err != nil {
		c.Logger.Debug("clipboard unavailable", "err", err)
		c.ui().warn("Clipboard unavailable; token printed below")
		fmt.Fprintln(c.out, m.Selected.Token)
		return nil
	}
	c.ui().success("Copied %s", m.Selected.Label)
	c.ui().token(m.Selected.Token, m.Selected.Label)
	return nil
}
