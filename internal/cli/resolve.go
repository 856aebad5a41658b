package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/pkg/export"
)

func (c *CLI) resolveCommand() *cobra.Command {
	var (
		attendeesPath string
		output        string
		placeholder   string
		strict        bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve one badge per attendee",
		Long: `Resolve a badge document for every attendee in a JSON file and write the
resolved badges as JSON: the paint list with tokens substituted, the field
values and the tokens that fell back to the placeholder.

A missing attribute never aborts the batch; it is logged and reported.
Use --strict to exit non-zero when any badge is incomplete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("placeholder") {
				placeholder = c.Config.Placeholder
			}
			return c.runResolve(cmd.Context(), args[0], attendeesPath, output, placeholder, strict)
		},
	}

	cmd.Flags().StringVarP(&attendeesPath, "attendees", "a", "", "JSON array of attendee objects (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "text for missing attributes (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any attendee is missing a bound attribute")
	_ = cmd.MarkFlagRequired("attendees")
	return cmd
}

func (c *CLI) runResolve(ctx context.Context, docPath, attendeesPath, output, placeholder string, strict bool) error {
	prog := newProgress(c.Logger)
	d, err := loadDocument(docPath)
	if err != nil {
		return err
	}
	attendees, err := loadAttendees(attendeesPath)
	if err != nil {
		return err
	}

	badges, err := export.ResolveBatch(ctx, d, attendees, export.Options{
		Placeholder: placeholder,
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(badges, "", "  ")
	if err != nil {
		return err
	}
	if err := c.writeOutput(output, append(data, '\n')); err != nil {
		return err
	}

	incomplete := 0
	for _, b := range badges {
		if !b.Complete() {
			incomplete++
		}
	}
	prog.done(fmt.Sprintf("Resolved %s", plural(len(badges), "badge")))
	if output != "-" {
		c.ui().success("Resolved %d badges", len(badges))
		c.ui().file(output)
	}
	if incomplete > 0 {
		c.Logger.Warn("incomplete badges", "count", incomplete)
		if strict {
			return fmt.Errorf("%d of %d badges are missing attributes", incomplete, len(badges))
		}
	}
	return nil
}
