package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
	"github.com/matzehuels/badgeboard/pkg/pipeline"
	"github.com/matzehuels/badgeboard/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single badge, single format) or base path
	formats   []string // svg, png, pdf, json
	attendees string   // JSON attendee list; one output set per attendee
	set       []string // attribute=value pairs for a single attendee
	noCache   bool
	pipeline.Options
}

// renderCommand creates the render command for badge previews.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{Options: pipeline.Options{Scale: pipeline.DefaultScale}}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render badge previews",
		Long: `Render badge previews to SVG, PNG, PDF or resolved JSON.

Without attendee data, or with --design, the design surface is rendered
with tokens kept literal. With --set the badge is resolved for one
attendee; with --attendees one set of files is written per attendee,
named <base>_<identifier>.<format>.

Results are cached locally; --no-cache bypasses the cache entirely and
--refresh re-renders and overwrites cached entries. PDF output needs
rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.formats, err = parseFormats(formatsStr); err != nil {
				return err
			}
			if opts.Background != "" {
				if err := errors.ValidateHexColor(opts.Background); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("placeholder") {
				opts.Placeholder = c.Config.Placeholder
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.attendees, "attendees", "a", "", "JSON array of attendee objects")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "attendee attribute as attribute=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Design, "design", false, "render the design surface with tokens kept literal")
	cmd.Flags().StringVar(&opts.Placeholder, "placeholder", "", "text for missing attributes (default from config)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (#RRGGBB or #RRGGBBAA)")
	cmd.Flags().BoolVar(&opts.Outline, "outline", false, "draw the canvas outline")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached previews")
	cmd.MarkFlagsMutuallyExclusive("attendees", "set")
	cmd.MarkFlagsMutuallyExclusive("attendees", "design")

	return cmd
}

// runRender loads the document, resolves it for each attendee and writes
// one file per attendee and format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	if slices.Contains(opts.formats, pipeline.FormatPDF) && !render.Available() {
		return errors.New(errors.ErrCodeUnsupported, "pdf output requires rsvg-convert on PATH")
	}
	d, err := loadDocument(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	base := basePath(opts.output, input)

	var attendees []fields.Attendee
	switch {
	case opts.attendees != "":
		if attendees, err = loadAttendees(opts.attendees); err != nil {
			return err
		}
	case len(opts.set) > 0:
		a, err := parseAssignments(opts.set)
		if err != nil {
			return err
		}
		attendees = []fields.Attendee{a}
	default:
		opts.Design = true
	}

	if opts.Design || len(attendees) == 1 {
		var a fields.Attendee
		if len(attendees) == 1 {
			a = attendees[0]
		}
		return c.renderOne(ctx, runner, d, a, base, opts)
	}
	return c.renderBatch(ctx, runner, d, attendees, base, opts)
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, d *document.Document, a fields.Attendee, base string, opts renderOpts) error {
	result, err := c.execute(ctx, runner, d, a, opts)
	if err != nil {
		return err
	}

	paths := make(map[string]string, len(opts.formats))
	for _, f := range opts.formats {
		paths[f] = base + "." + f
	}
	if len(opts.formats) == 1 && opts.output != "" {
		paths[opts.formats[0]] = opts.output
	}
	for _, f := range opts.formats {
		if err := c.writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}

	if paths[opts.formats[0]] == "-" {
		return nil
	}
	label := "Rendered design"
	if !opts.Design {
		label = "Rendered badge"
		if id := a.ID(); id != "" {
			label += " for " + StyleHighlight.Render(id)
		}
	}
	c.ui().success("%s", label)
	c.ui().stats(d.Len(), groupCount(d), len(result.Badge.Missing), &result.CacheHit)
	for _, f := range opts.formats {
		c.ui().file(paths[f])
	}
	return nil
}

func (c *CLI) renderBatch(ctx context.Context, runner *pipeline.Runner, d *document.Document, attendees []fields.Attendee, base string, opts renderOpts) error {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, "Rendering badges")
	spin.Start()

	var cached, incomplete, written int
	for i, a := range attendees {
		if err := ctx.Err(); err != nil {
			spin.Stop()
			return err
		}
		spin.SetMessage("Rendering badge %d/%d", i+1, len(attendees))

		result, err := c.execute(ctx, runner, d, a, opts)
		if err != nil {
			spin.StopWithError(fmt.Sprintf("Badge %d failed", i+1))
			return err
		}
		if result.CacheHit {
			cached++
		}
		if len(result.Badge.Missing) > 0 {
			incomplete++
		}
		slug := attendeeSlug(a, i)
		for _, f := range opts.formats {
			if err := c.writeOutput(base+"_"+slug+"."+f, result.Artifacts[f]); err != nil {
				spin.Stop()
				return err
			}
			written++
		}
	}

	spin.StopWithSuccess(fmt.Sprintf("Rendered %s", plural(len(attendees), "badge")))
	prog.done(fmt.Sprintf("Wrote %s", plural(written, "file")))
	c.ui().detail("%d cached · %d incomplete", cached, incomplete)
	c.ui().detail("Output: %s_*.{%s}", base, strings.Join(opts.formats, ","))
	return nil
}

func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, d *document.Document, a fields.Attendee, opts renderOpts) (*pipeline.Result, error) {
	popts := opts.Options
	popts.Attendee = a
	popts.Formats = opts.formats
	popts.Logger = c.Logger
	return runner.Execute(ctx, d, popts)
}
