package lollipop

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteSVG writes one mark as a self-contained inline SVG: a line from the
// track origin to the dot position, then the dot on top. Stroke and fill
// colors are left to the surrounding stylesheet. Marks with OK=false write
// nothing.
func WriteSVG(w io.Writer, mark Mark) error {
	if !mark.OK {
		return nil
	}
	_, err := fmt.Fprintf(w,
		`<svg class="lollipop" width="%s" height="%s" viewBox="0 0 %s %s">`+
			`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke-width="%s"/>`+
			`<circle cx="%s" cy="%s" r="%s"/>`+
			`</svg>`,
		ftoa(TrackWidth), ftoa(2*Baseline), ftoa(TrackWidth), ftoa(2*Baseline),
		ftoa(mark.Line.X1), ftoa(mark.Line.Y1), ftoa(mark.Line.X2), ftoa(mark.Line.Y2),
		ftoa(mark.Line.StrokeWidth),
		ftoa(mark.Dot.CX), ftoa(mark.Dot.CY), ftoa(mark.Dot.R),
	)
	return err
}

// SVG renders one mark to a string, or "" for an invalid mark.
func SVG(mark Mark) string {
	var sb strings.Builder
	_ = WriteSVG(&sb, mark)
	return sb.String()
}

// ftoa formats a coordinate at pixel precision (two decimals) with trailing
// zeros trimmed, so binary float noise never leaks into the markup (22.4,
// not 22.400000000000002).
func ftoa(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
