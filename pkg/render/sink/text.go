package sink

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 16.0
)

// fontSize picks the largest size at which text of n characters fits the
// box, clamped to a readable range.
func fontSize(r geom.Rect, n int) float64 {
	n = max(1, n)
	byHeight := r.H * fontHeightRatio
	byWidth := (r.W * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label to what fits into r at the given font size.
func truncate(label string, r geom.Rect, size float64) string {
	runes := []rune(label)
	maxChars := max(int(r.W*fontWidthRatio/(size*fontCharWidth)), 3)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
