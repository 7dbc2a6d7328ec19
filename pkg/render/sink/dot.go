package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxarrow/pkg/render"
)

// pointsPerInch converts schematic units, which Graphviz reads as points,
// into the inches used for node sizes.
const pointsPerInch = 72.0

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Labels writes item labels; otherwise nodes are blank.
	Labels bool
}

// ToDOT converts a resolved schematic to Graphviz DOT. Every item becomes a
// box node pinned at its resolved position and every link an edge between
// the nodes owning its endpoints, so a neato render reproduces the resolved
// geometry rather than computing a new layout. Graphviz's y axis points up;
// coordinates are flipped accordingly.
//
// Standalone anchors become point-shaped nodes. Link paths are not carried
// over: Graphviz draws its own splines between the pinned nodes.
func ToDOT(out *render.Output, opts DOTOptions) string {
	var buf bytes.Buffer
	flip := out.Bounds.Bottom()

	buf.WriteString("digraph schematic {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	names := make(map[string]string)
	for i, it := range out.Items {
		name := fmt.Sprintf("item%d", i)
		if it.ID != "" {
			name = it.ID
			names[it.ID] = name
		}
		label := ""
		if opts.Labels {
			label = it.Label
			if label == "" {
				label = it.ID
			}
		}
		c := it.Border.Center()
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(flip-c.Y)),
			fmt.Sprintf("width=%s", num(it.Border.W/pointsPerInch)),
			fmt.Sprintf("height=%s", num(it.Border.H/pointsPerInch)),
		}
		if it.Depth > 0 {
			attrs = append(attrs, "fillcolor=\"#f6f6f6\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	for _, a := range out.Anchors {
		if !a.Standalone {
			continue
		}
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.05, pos=\"%s,%s!\"];\n", a.Name, num(a.At.X), num(flip-a.At.Y))
		names[a.Name] = a.Name
	}

	buf.WriteString("\n")
	for _, l := range out.Links {
		from, to := endpointNode(l.From, names), endpointNode(l.To, names)
		if from == "" || to == "" {
			continue
		}
		attrs := []string{}
		if l.Fallback {
			attrs = append(attrs, "style=dashed", "color=\"#cc3333\"")
		}
		if opts.Labels && l.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", l.Label))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// endpointNode maps an anchor reference to its DOT node: the anchor itself
// when standalone, else the item named before the position suffix.
func endpointNode(ref string, names map[string]string) string {
	if n, ok := names[ref]; ok {
		return n
	}
	if i := strings.LastIndexByte(ref, '.'); i > 0 {
		return names[ref[:i]]
	}
	return ""
}

// RenderGraphvizSVG renders DOT produced by [ToDOT] with the neato engine.
func RenderGraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose size
// matches its view box, so the output scales like [RenderSVG] output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
