package schematic

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

// Spec is one node of the input tree produced by a parser or decoded from
// JSON, TOML or YAML. It is the sole input contract of the resolver: the
// same tree always resolves to the same geometry.
//
// Which fields are meaningful depends on Type:
//
//	box                            Width, Height, Padding, Margin, Layout, Align, Justify, Gap, Wrap, Label, Children
//	vertical/horizontal/columns/rows  Width, Height, Padding, Margin, Align, Justify, Gap, Wrap, Children
//	anchor                         X, Y, Direction
//	link                           From, To, Style
//	break                          (none)
//
// Unset numeric fields are zero. A zero Width or Height means "size to content".
// Padding, Margin and Gap are pointers so that configured defaults apply only
// when the input leaves them out.
type Spec struct {
	Type string `json:"type" toml:"type" yaml:"type"`
	ID   string `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`

	Width   float64  `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Height  float64  `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Padding *Spacing `json:"padding,omitempty" toml:"padding" yaml:"padding,omitempty"`
	Margin  *Spacing `json:"margin,omitempty" toml:"margin" yaml:"margin,omitempty"`

	Layout  string   `json:"layout,omitempty" toml:"layout" yaml:"layout,omitempty"`
	Align   string   `json:"align,omitempty" toml:"align" yaml:"align,omitempty"`
	Justify string   `json:"justify,omitempty" toml:"justify" yaml:"justify,omitempty"`
	Gap     *float64 `json:"gap,omitempty" toml:"gap" yaml:"gap,omitempty"`
	Wrap    float64  `json:"wrap,omitempty" toml:"wrap" yaml:"wrap,omitempty"`

	X         float64 `json:"x,omitempty" toml:"x" yaml:"x,omitempty"`
	Y         float64 `json:"y,omitempty" toml:"y" yaml:"y,omitempty"`
	Direction string  `json:"direction,omitempty" toml:"direction" yaml:"direction,omitempty"`

	From  string `json:"from,omitempty" toml:"from" yaml:"from,omitempty"`
	To    string `json:"to,omitempty" toml:"to" yaml:"to,omitempty"`
	Style string `json:"style,omitempty" toml:"style" yaml:"style,omitempty"`

	Label string            `json:"label,omitempty" toml:"label" yaml:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" toml:"attrs" yaml:"attrs,omitempty"`

	Children []*Spec `json:"children,omitempty" toml:"children" yaml:"children,omitempty"`
}

// Box returns a box spec with the given ID, explicit size and children.
func Box(id string, w, h float64, children ...*Spec) *Spec {
	return &Spec{Type: TypeBox, ID: id, Width: w, Height: h, Children: children}
}

// Container returns a layout spec of the given type ("vertical", "horizontal",
// "columns" or "rows").
func Container(typ string, children ...*Spec) *Spec {
	return &Spec{Type: typ, Children: children}
}

// Anchor returns a standalone anchor spec at (x, y) relative to its container.
func Anchor(id string, x, y float64) *Spec {
	return &Spec{Type: TypeAnchor, ID: id, X: x, Y: y}
}

// Link returns a link spec between two anchor references.
func Link(from, to, style string) *Spec {
	return &Spec{Type: TypeLink, From: from, To: to, Style: style}
}

// Break returns a break marker for columns and rows layouts.
func Break() *Spec {
	return &Spec{Type: TypeBreak}
}

// Spacing is a box-model inset (padding or margin). In input documents it can
// be written as a single number (all sides), a list of one, two or four
// numbers (CSS order: top, right, bottom, left) or an object with
// top/right/bottom/left keys.
type Spacing geom.Edges

// Edges returns the spacing as geometry edges.
func (s *Spacing) Edges() geom.Edges {
	if s == nil {
		return geom.Edges{}
	}
	return geom.Edges(*s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spacing) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return s.decode(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Spacing) UnmarshalTOML(v any) error {
	return s.decode(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Spacing) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return s.decode(v)
}

func (s *Spacing) decode(v any) error {
	switch val := v.(type) {
	case map[string]any:
		var e geom.Edges
		for key, raw := range val {
			n, ok := toFloat(raw)
			if !ok {
				return fmt.Errorf("spacing %q: not a number: %v", key, raw)
			}
			switch key {
			case "top":
				e.Top = n
			case "right":
				e.Right = n
			case "bottom":
				e.Bottom = n
			case "left":
				e.Left = n
			default:
				return fmt.Errorf("spacing: unknown side %q", key)
			}
		}
		*s = Spacing(e)
		return nil
	case []any:
		nums := make([]float64, len(val))
		for i, raw := range val {
			n, ok := toFloat(raw)
			if !ok {
				return fmt.Errorf("spacing[%d]: not a number: %v", i, raw)
			}
			nums[i] = n
		}
		switch len(nums) {
		case 1:
			*s = Spacing(geom.EdgeAll(nums[0]))
		case 2:
			*s = Spacing(geom.EdgeSymmetric(nums[0], nums[1]))
		case 4:
			*s = Spacing(geom.EdgeTRBL(nums[0], nums[1], nums[2], nums[3]))
		default:
			return fmt.Errorf("spacing: want 1, 2 or 4 values, got %d", len(nums))
		}
		return nil
	default:
		n, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("spacing: unsupported value %v", v)
		}
		*s = Spacing(geom.EdgeAll(n))
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
