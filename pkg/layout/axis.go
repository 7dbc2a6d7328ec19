package layout

import (
	"github.com/matzehuels/boxarrow/pkg/geom"
)

// The engine works in main/cross coordinates so that one implementation
// serves both orientations. For a vertical flow the main axis is Y; for a
// horizontal flow it is X.

func mainOf(s geom.Size, axis geom.Axis) float64 {
	if axis == geom.AxisHorizontal {
		return s.W
	}
	return s.H
}

func crossOf(s geom.Size, axis geom.Axis) float64 {
	if axis == geom.AxisHorizontal {
		return s.H
	}
	return s.W
}

func sizeOf(main, cross float64, axis geom.Axis) geom.Size {
	if axis == geom.AxisHorizontal {
		return geom.Size{W: main, H: cross}
	}
	return geom.Size{W: cross, H: main}
}

// span returns the start and extent of r along the main and cross axes.
func span(r geom.Rect, axis geom.Axis) (mainStart, crossStart, mainLen, crossLen float64) {
	if axis == geom.AxisHorizontal {
		return r.X, r.Y, r.W, r.H
	}
	return r.Y, r.X, r.H, r.W
}

func rectOf(mainStart, crossStart, mainLen, crossLen float64, axis geom.Axis) geom.Rect {
	if axis == geom.AxisHorizontal {
		return geom.R(mainStart, crossStart, mainLen, crossLen)
	}
	return geom.R(crossStart, mainStart, crossLen, mainLen)
}
