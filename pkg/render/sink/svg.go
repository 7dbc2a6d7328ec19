package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/render"
)

// SVGMargin is the space left around the schematic bounds.
const SVGMargin = 10.0

const svgStyle = `
    .item { fill: white; stroke: #333; stroke-width: 1; }
    .item.nested { fill: #f6f6f6; }
    .label { font-family: sans-serif; fill: #222; text-anchor: middle; dominant-baseline: central; }
    .link { fill: none; stroke: #333; stroke-width: 1.2; marker-end: url(#arrow); }
    .link.fallback { stroke: #c33; stroke-dasharray: 4 3; }
    .anchor { fill: #36c; }
    .grid { stroke: #eee; stroke-width: 0.5; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels  bool
	grid    float64
	anchors bool
}

// WithoutLabels omits item labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithGrid draws a background grid with the given spacing.
func WithGrid(step float64) SVGOption { return func(r *svgRenderer) { r.grid = step } }

// WithAnchors marks standalone anchors with a dot.
func WithAnchors() SVGOption { return func(r *svgRenderer) { r.anchors = true } }

// RenderSVG draws a resolved schematic: items as rectangles in tree order,
// so nested items paint over their parents, and links as polylines with an
// arrow head at the target. Links that fell back to straight are dashed.
//
// The coordinate system is the schematic's own; the view box adds
// [SVGMargin] on every side.
func RenderSVG(out *render.Output, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	view := out.Bounds.Expand(SVGMargin)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(view.X), num(view.Y), num(view.W), num(view.H), view.W, view.H)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="#333"/></marker></defs>` + "\n")

	if r.grid > 0 {
		renderGrid(&buf, view, r.grid)
	}
	for _, it := range out.Items {
		renderItem(&buf, it, r.labels)
	}
	for _, l := range out.Links {
		renderLink(&buf, l)
	}
	if r.anchors {
		for _, a := range out.Anchors {
			if a.Standalone {
				fmt.Fprintf(&buf, `  <circle class="anchor" id="anchor-%s" cx="%s" cy="%s" r="2"/>`+"\n",
					escapeXML(a.Name), num(a.At.X), num(a.At.Y))
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, view geom.Rect, step float64) {
	buf.WriteString(`  <g class="grid">` + "\n")
	for x := math.Ceil(view.X/step) * step; x <= view.Right(); x += step {
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(x), num(view.Y), num(x), num(view.Bottom()))
	}
	for y := math.Ceil(view.Y/step) * step; y <= view.Bottom(); y += step {
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(view.X), num(y), num(view.Right()), num(y))
	}
	buf.WriteString("  </g>\n")
}

func renderItem(buf *bytes.Buffer, it render.Item, labels bool) {
	class := "item"
	if it.Depth > 0 {
		class += " nested"
	}
	b := it.Border
	id := ""
	if it.ID != "" {
		id = fmt.Sprintf(` id="item-%s"`, escapeXML(it.ID))
	}
	fmt.Fprintf(buf, `  <rect class="%s"%s x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		class, id, num(b.X), num(b.Y), num(b.W), num(b.H))

	text := it.Label
	if text == "" {
		text = it.ID
	}
	if !labels || text == "" || b.IsEmpty() {
		return
	}
	size := fontSize(b, len([]rune(text)))
	c := b.Center()
	fmt.Fprintf(buf, `  <text class="label" x="%s" y="%s" font-size="%.1f">%s</text>`+"\n",
		num(c.X), num(c.Y), size, escapeXML(truncate(text, b, size)))
}

func renderLink(buf *bytes.Buffer, l render.Link) {
	class := "link " + l.Style
	if l.Fallback {
		class += " fallback"
	}
	pts := make([]string, len(l.Points))
	for i, p := range l.Points {
		pts[i] = num(p.X) + "," + num(p.Y)
	}
	id := ""
	if l.ID != "" {
		id = fmt.Sprintf(` id="link-%s"`, escapeXML(l.ID))
	}
	fmt.Fprintf(buf, `  <polyline class="%s"%s data-from="%s" data-to="%s" points="%s"/>`+"\n",
		class, id, escapeXML(l.From), escapeXML(l.To), strings.Join(pts, " "))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
