package anchor

import (
	"strings"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Ref is a parsed link endpoint: either an implicit anchor on an item or a
// standalone anchor node.
type Ref struct {
	Target   schematic.Handle // the item or standalone anchor
	Position Position         // empty for standalone anchors
}

// Standalone reports whether the reference names a standalone anchor.
func (r Ref) Standalone() bool { return r.Position == "" }

// ParseRef resolves a reference of the form "<item-id>.<position>" or
// "<anchor-id>" against the schematic's ID table. It needs no geometry.
//
// An exact match on a standalone anchor ID wins. Otherwise the reference is
// split at its last dot. The errors are:
//   - UNKNOWN_ID when no node has the referenced ID
//   - INVALID_ANCHOR_REFERENCE when the ID exists but does not define the
//     named anchor (unknown position, a layout, a link, or a bare item ID)
func ParseRef(s *schematic.Schematic, ref string) (Ref, error) {
	if h, err := s.Lookup(ref); err == nil {
		n := s.Node(h)
		if n.Kind == schematic.KindAnchor {
			return Ref{Target: h}, nil
		}
		return Ref{}, errors.New(errors.ErrCodeInvalidAnchorReference,
			"%q names a %s; use %q to pick one of its anchors", ref, n.TypeName(), ref+".<position>").At(ref, n.TypeName())
	}

	dot := strings.LastIndexByte(ref, '.')
	if dot <= 0 || dot == len(ref)-1 {
		return Ref{}, errors.New(errors.ErrCodeUnknownID, "no anchor or item named %q", ref).At(ref, "")
	}
	id, name := ref[:dot], ref[dot+1:]

	h, err := s.Lookup(id)
	if err != nil {
		return Ref{}, err
	}
	n := s.Node(h)
	if !n.IsItem() {
		return Ref{}, errors.New(errors.ErrCodeInvalidAnchorReference,
			"%s %q has no implicit anchors", n.TypeName(), id).At(id, n.TypeName())
	}
	pos, ok := ParsePosition(name)
	if !ok {
		return Ref{}, errors.New(errors.ErrCodeInvalidAnchorReference,
			"%q is not an anchor position", name).At(id, n.TypeName())
	}
	return Ref{Target: h, Position: pos}, nil
}

// ValidateLinks checks that both endpoints of every link resolve. It runs
// before layout so that a malformed schematic fails before any geometry is
// computed. The first failing link is reported; the error keeps the location
// of the offending ID.
func ValidateLinks(s *schematic.Schematic) error {
	for _, h := range s.Links() {
		n := s.Node(h)
		for _, ref := range []string{n.From, n.To} {
			if _, err := ParseRef(s, ref); err != nil {
				id, kind := errors.Location(err)
				return errors.Wrap(errors.GetCode(err), err, "link %s -> %s", n.From, n.To).At(id, kind)
			}
		}
	}
	return nil
}
