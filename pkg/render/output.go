package render

import "github.com/matzehuels/boxarrow/pkg/geom"

// OutputVersion is the version of the Output encoding.
const OutputVersion = 1

// Output is a resolved schematic.
type Output struct {
	Version  int       `json:"version"`
	Bounds   geom.Rect `json:"bounds"`
	Items    []Item    `json:"items"`
	Anchors  []Anchor  `json:"anchors"`
	Links    []Link    `json:"links"`
	Warnings []string  `json:"warnings,omitempty"`
	Score    *Score    `json:"score,omitempty"`
}

// Item is a resolved box.
type Item struct {
	ID     string            `json:"id,omitempty"`
	Label  string            `json:"label,omitempty"`
	Parent string            `json:"parent,omitempty"` // ID of the closest enclosing item, if any
	Depth  int               `json:"depth"`            // number of enclosing items
	Border geom.Rect         `json:"border"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// Anchor is a resolved anchor point. Name is "<item>.<position>" for
// implicit anchors and the anchor ID for standalone ones.
type Anchor struct {
	Name       string     `json:"name"`
	At         geom.Point `json:"at"`
	Standalone bool       `json:"standalone,omitempty"`
}

// Link is a resolved link path.
type Link struct {
	ID       string            `json:"id,omitempty"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Style    string            `json:"style"`
	Points   []geom.Point      `json:"points"`
	Fallback bool              `json:"fallback,omitempty"`
	Label    string            `json:"label,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// Score summarizes the defect score of the resolved configuration.
type Score struct {
	Total     float64 `json:"total"`
	Overlap   float64 `json:"overlap"`
	Crossings int     `json:"crossings"`
	Bends     int     `json:"bends"`
	Slack     float64 `json:"slack"`
	Rounds    int     `json:"rounds"`
	Accepted  int     `json:"accepted"`
}

// Item returns the item with the given ID.
func (o *Output) Item(id string) (Item, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Anchor returns the anchor with the given name.
func (o *Output) Anchor(name string) (Anchor, bool) {
	for _, a := range o.Anchors {
		if a.Name == name {
			return a, true
		}
	}
	return Anchor{}, false
}
