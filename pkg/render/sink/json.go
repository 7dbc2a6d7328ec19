package sink

import (
	"encoding/json"

	"github.com/matzehuels/boxarrow/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	score   bool
	anchors bool
}

// WithJSONCompact emits the document without indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithoutJSONScore drops the optimizer score, leaving only geometry.
func WithoutJSONScore() JSONOption { return func(r *jsonRenderer) { r.score = false } }

// WithoutJSONAnchors drops the anchor list. Renderers that only draw items
// and links do not need it.
func WithoutJSONAnchors() JSONOption { return func(r *jsonRenderer) { r.anchors = false } }

// RenderJSON encodes a resolved schematic. With default options the
// document is the full [render.Output] and can be read back with
// io.ReadOutput.
//
// RenderJSON does not modify out and is safe to call concurrently.
func RenderJSON(out *render.Output, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{score: true, anchors: true}
	for _, opt := range opts {
		opt(&r)
	}

	doc := *out
	if !r.score {
		doc.Score = nil
	}
	if !r.anchors {
		doc.Anchors = nil
	}
	if r.compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
