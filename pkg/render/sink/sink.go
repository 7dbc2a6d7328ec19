// Package sink renders resolved schematics.
//
// Each sink consumes a [render.Output] and nothing else, so it can run on a
// fresh resolution or on one read back from a cache or a file:
//
//   - [RenderSVG]: rectangles and polylines, the native drawing
//   - [RenderJSON]: the resolved geometry itself
//   - [ToDOT] and [RenderGraphvizSVG]: Graphviz with positions pinned
//
// [Render] dispatches on a format name and adds PNG and PDF by converting
// the SVG drawing.
package sink

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/render"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatJSON, FormatDOT, FormatGraphviz, FormatPNG, FormatPDF}

// Extensions maps formats to file extensions.
var Extensions = map[string]string{
	FormatSVG:      ".svg",
	FormatJSON:     ".json",
	FormatDOT:      ".dot",
	FormatGraphviz: ".gv.svg",
	FormatPNG:      ".png",
	FormatPDF:      ".pdf",
}

// Options are the rendering switches shared by all formats.
type Options struct {
	Labels bool    // draw item labels
	Grid   float64 // background grid spacing for SVG-based formats; zero disables it
	Scale  float64 // PNG scale factor
}

// DefaultOptions returns labeled output without a grid at 2x PNG scale.
func DefaultOptions() Options {
	return Options{Labels: true, Scale: 2}
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: %v)", format, Formats)
	}
	return nil
}

// Render produces one artifact in the given format.
func Render(ctx context.Context, out *render.Output, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return RenderJSON(out)
	case FormatDOT:
		return []byte(ToDOT(out, DOTOptions{Labels: opts.Labels})), nil
	case FormatGraphviz:
		return RenderGraphvizSVG(ctx, ToDOT(out, DOTOptions{Labels: opts.Labels}))
	}

	svg := RenderSVG(out, svgOptions(opts)...)
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

func svgOptions(opts Options) []SVGOption {
	var out []SVGOption
	if !opts.Labels {
		out = append(out, WithoutLabels())
	}
	if opts.Grid > 0 {
		out = append(out, WithGrid(opts.Grid))
	}
	return out
}

// FileName returns base with the extension of format.
func FileName(base, format string) string {
	ext, ok := Extensions[format]
	if !ok {
		ext = "." + format
	}
	return fmt.Sprintf("%s%s", base, ext)
}
