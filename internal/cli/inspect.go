package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/render/nodelink"
)

const (
	inspectText = "text"
	inspectDOT  = "dot"
	inspectSVG  = "svg"
	inspectPDF  = "pdf"
	inspectPNG  = "png"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the element tree of a badge document",
		Long: `Show the element tree of a badge document in paint order.

The text format prints a tree to the terminal. The dot format prints
Graphviz source, and svg, pdf and png draw the tree as a node-link
diagram (pdf and png need rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if format == inspectText {
				fmt.Fprintln(c.out, elementTree(d, detailed))
				return nil
			}

			data, err := nodelinkOutput(d, format, detailed)
			if err != nil {
				return err
			}
			if output == "" {
				output = "-"
				if format != inspectDOT {
					output = basePath("", args[0]) + "_tree." + format
				}
			}
			if err := c.writeOutput(output, data); err != nil {
				return err
			}
			if output != "-" {
				c.ui().success("Element tree")
				c.ui().file(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", inspectText, "output format: text, dot, svg, pdf, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include geometry and payload details")
	return cmd
}

func nodelinkOutput(d *document.Document, format string, detailed bool) ([]byte, error) {
	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: detailed})
	switch format {
	case inspectDOT:
		return []byte(dot), nil
	case inspectSVG:
		return nodelink.RenderSVG(dot)
	case inspectPDF:
		return nodelink.RenderPDF(dot)
	case inspectPNG:
		return nodelink.RenderPNG(dot, 2)
	}
	return nil, fmt.Errorf("invalid format: %q (must be one of: text, dot, svg, pdf, png)", format)
}

var (
	treeKindStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	treeIDStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	treeHiddenStyle = lipgloss.NewStyle().Foreground(colorFaint).Strikethrough(true)
)

// elementTree renders the group hierarchy with lipgloss.
func elementTree(d *document.Document, detailed bool) string {
	c := d.Canvas()
	root := tree.Root(StyleTitle.Render(fmt.Sprintf("canvas %gx%g", c.Width, c.Height))).
		EnumeratorStyle(StyleDim)
	for _, id := range d.TopLevel() {
		root.Child(elementNode(d, id, detailed))
	}
	return root.String()
}

func elementNode(d *document.Document, id string, detailed bool) any {
	e, _ := d.Get(id)
	label := treeKindStyle.Render(string(e.Kind())) + " " + treeIDStyle.Render(id)
	if s := summary(e); s != "" {
		label += " " + StyleValue.Render(s)
	}
	if detailed {
		g := e.Geometry
		label += StyleDim.Render(fmt.Sprintf("  @%g,%g %gx%g", g.X, g.Y, g.Width, g.Height))
		if g.Rotation != 0 {
			label += StyleDim.Render(fmt.Sprintf(" %g°", g.Rotation))
		}
	}
	if e.Hidden {
		label = treeHiddenStyle.Render(string(e.Kind())+" "+id) + StyleDim.Render(" (hidden)")
	}

	g, ok := e.Payload.(element.Group)
	if !ok {
		return label
	}
	t := tree.Root(label)
	for _, child := range g.ChildIDs {
		t.Child(elementNode(d, child, detailed))
	}
	return t
}

// summary is a short content preview for the tree.
func summary(e element.Element) string {
	var s string
	switch p := e.Payload.(type) {
	case element.Text:
		s = p.Content
	case element.QR:
		s = p.Data
	case element.Image:
		s = p.Source
	case element.Shape:
		s = string(p.Shape)
	case element.Table:
		s = fmt.Sprintf("%dx%d", p.Rows, p.Cols)
	case element.Polygon:
		s = fmt.Sprintf("%d sides", p.Sides)
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
