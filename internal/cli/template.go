package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/store"
)

// templateCommand creates the template management command.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Manage stored badge templates",
		Long: `Manage badge templates in the configured store (file, redis or mongo).
Select the backend with [store] backend in config.toml.`,
	}

	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templatePushCommand())
	cmd.AddCommand(c.templatePullCommand())
	cmd.AddCommand(c.templateRemoveCommand())
	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.Config.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open %s store: %w", c.Config.Store.Backend, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	return fn(st)
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				list, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					c.ui().info("No templates")
					return nil
				}
				for _, s := range list {
					c.ui().keyValue(s.ID, fmt.Sprintf("%s  %s  %s", s.Name,
						StyleDim.Render(plural(s.Elements, "element")),
						StyleDim.Render(s.UpdatedAt.Local().Format("2006-01-02 15:04"))))
				}
				return nil
			})
		},
	}
}

func (c *CLI) templatePushCommand() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Store a badge document as a template",
		Long: `Store a badge document as a template. The id defaults to the file name
without extension; pushing an existing id replaces it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			t, err := store.NewTemplate(id, name, d)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				saved, err := st.Put(cmd.Context(), t)
				if err != nil {
					return err
				}
				c.ui().success("Stored template %s", StyleHighlight.Render(saved.ID))
				c.ui().stats(d.Len(), groupCount(d), 0, nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "template id (default: file name)")
	cmd.Flags().StringVar(&name, "name", "", "display name (default: id)")
	return cmd
}

func (c *CLI) templatePullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [id]",
		Short: "Write a stored template to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0] + ".json"
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				t, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				d, err := t.Document()
				if err != nil {
					return err
				}
				if err := saveDocument(output, d); err != nil {
					return err
				}
				c.ui().success("Pulled template %s", StyleHighlight.Render(t.ID))
				c.ui().file(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <id>.json)")
	return cmd
}

func (c *CLI) templateRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id...]",
		Aliases: []string{"remove"},
		Short:   "Delete stored templates",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				for _, id := range args {
					if err := st.Delete(cmd.Context(), id); err != nil {
						return err
					}
					c.ui().success("Deleted template %s", id)
				}
				return nil
			})
		},
	}
}
