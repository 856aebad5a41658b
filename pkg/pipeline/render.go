package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(b export.Badge, opts Options) (map[string][]byte, error) {
	var svgOpts []render.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}
	if opts.Outline {
		svgOpts = append(svgOpts, render.WithOutline())
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(b, svgOpts...)
		case FormatPNG:
			pngOpts := []render.PNGOption{render.WithScale(opts.Scale)}
			if opts.Background != "" {
				pngOpts = append(pngOpts, render.WithPNGBackground(opts.Background))
			}
			data, err = render.RenderPNG(b, pngOpts...)
		case FormatPDF:
			data, err = render.ToPDF(render.RenderSVG(b, svgOpts...))
		case FormatJSON:
			data, err = json.MarshalIndent(b, "", "  ")
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
