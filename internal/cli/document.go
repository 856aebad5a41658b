package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/editor"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
)

// loadDocument reads a document in either encoding.
func loadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	d, err := badgeio.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// saveDocument writes d in the encoding named by the file extension.
func saveDocument(path string, d *document.Document) error {
	f, err := badgeio.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := badgeio.Encode(d, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func groupCount(d *document.Document) int {
	n := 0
	for _, e := range d.Elements() {
		if e.Kind() == element.KindGroup {
			n++
		}
	}
	return n
}

// =============================================================================
// new
// =============================================================================

func (c *CLI) newCommand() *cobra.Command {
	var (
		sample bool
		force  bool
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a badge document",
		Long: `Create a badge document on the configured canvas.

With --sample the badge gets a background, the attendee name and
organization grouped together, and a QR code for the attendee identifier.
The encoding follows the extension: .json (default) or .cbor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			canvas := c.Config.canvas()
			if cmd.Flags().Changed("width") {
				canvas.Width = width
			}
			if cmd.Flags().Changed("height") {
				canvas.Height = height
			}
			if err := canvas.Validate(); err != nil {
				return err
			}

			d := document.New(canvas)
			if sample {
				var err error
				if d, err = c.sampleBadge(d); err != nil {
					return err
				}
			}
			if err := saveDocument(path, d); err != nil {
				return err
			}

			c.ui().success("Created %s", path)
			c.ui().stats(d.Len(), groupCount(d), 0, nil)
			c.ui().nextStep("Preview it", fmt.Sprintf("%s render %s --design", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "add a sample layout with bound fields")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width in px (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height in px (default from config)")
	return cmd
}

// sampleBadge lays out a starter badge through an editing session, the
// same way an interactive user would.
func (c *CLI) sampleBadge(d *document.Document) (*document.Document, error) {
	opts := c.Config.editorOptions()
	opts.Logger = c.Logger
	s := editor.Open(d, opts)
	defer s.Close()

	canvas := d.Canvas()
	bg := element.NewShape(element.ShapeRounded, element.Sized(canvas.Width, canvas.Height))
	if _, err := s.AddElement(bg); err != nil {
		return nil, err
	}
	name, err := s.AddField(fields.TokenName, 24, canvas.Height*0.3)
	if err != nil {
		return nil, err
	}
	org, err := s.AddField(fields.TokenOrganization, 24, canvas.Height*0.3+48)
	if err != nil {
		return nil, err
	}
	if err := s.Select(name, org); err != nil {
		return nil, err
	}
	if _, err := s.GroupSelection(); err != nil {
		return nil, err
	}
	w, _ := element.DefaultSize(element.KindQR)
	if _, err := s.AddField(fields.TokenIdentifier, (canvas.Width-w)/2, canvas.Height*0.6); err != nil {
		return nil, err
	}
	if err := s.ClearSelection(); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate badge documents",
		Long: `Validate badge documents against the import rules: unique ids, consistent
group relations, well-formed payloads and a positive canvas.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				d, err := loadDocument(path)
				if err != nil {
					failed++
					c.ui().fail("%s", path)
					c.ui().detail("%s: %s", errors.GetCode(err), errors.UserMessage(err))
					continue
				}
				c.ui().success("%s", path)
				c.ui().stats(d.Len(), groupCount(d), 0, nil)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}
