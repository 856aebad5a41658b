// Package fonts provides the parsed fonts used for raster previews.
//
// The Go font family is compiled into the binary by golang.org/x/image, so
// previews render identically on every host without system font lookup.
// Fonts are parsed once on first access.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family written into SVG output. Browsers and
// rsvg fall back to a generic sans-serif when the Go fonts are not
// installed.
const FontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

// MonoFamily is used for table cells and token placeholders.
const MonoFamily = `'Go Mono', Menlo, Consolas, monospace`

// Style selects a face within the family.
type Style struct {
	Bold   bool
	Italic bool
	Mono   bool
}

var (
	parsed    map[Style]*truetype.Font
	parseErr  error
	parseOnce sync.Once
)

func load() {
	sources := map[Style][]byte{
		{}:                         goregular.TTF,
		{Bold: true}:               gobold.TTF,
		{Italic: true}:             goitalic.TTF,
		{Bold: true, Italic: true}: gobolditalic.TTF,
		{Mono: true}:               gomono.TTF,
	}
	parsed = make(map[Style]*truetype.Font, len(sources))
	for s, data := range sources {
		f, err := truetype.Parse(data)
		if err != nil {
			parseErr = err
			return
		}
		parsed[s] = f
	}
}

// Font returns the parsed font for s. Mono ignores Bold and Italic.
func Font(s Style) (*truetype.Font, error) {
	parseOnce.Do(load)
	if parseErr != nil {
		return nil, parseErr
	}
	if s.Mono {
		s = Style{Mono: true}
	}
	return parsed[s], nil
}

// Face returns a face of the given point size at 72 DPI, so one point maps
// to one canvas pixel.
func Face(s Style, size float64) (font.Face, error) {
	f, err := Font(s)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
