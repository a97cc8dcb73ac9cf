// Package lollipop computes the geometry of the per-row dot-and-line mini
// chart: a linear mapping from a row's score onto a fixed pixel track, a dot
// at the mapped position, and a line connecting it to the track origin.
//
// The geometry is recomputed from scratch for the currently visible row set
// on every render pass; nothing is cached between passes.
package lollipop

import "math"

const (
	// DotRadius is the dot radius in pixels; it also pads both track ends
	// so dots never clip.
	DotRadius = 4.0
	// TrackWidth is the full chart width in pixels.
	TrackWidth = 100.0
	// Baseline is the vertical center of dots and lines.
	Baseline = 8.0
	// StrokeWidth is the connecting line's stroke width.
	StrokeWidth = 1.0
)

// Dot is a circle centered at (CX, CY) with radius R.
type Dot struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// Line is a stroked segment between two endpoints.
type Line struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	StrokeWidth float64 `json:"stroke_width"`
}

// Mark is the rendered geometry for one row. OK is false when the row's
// score was invalid and the row draws nothing.
type Mark struct {
	Score float64 `json:"score"`
	Dot   Dot     `json:"dot"`
	Line  Line    `json:"line"`
	OK    bool    `json:"ok"`
}

// Scale returns the linear mapping from [0, maxScore] onto the pixel range
// [DotRadius, TrackWidth-DotRadius]. The caller must guarantee maxScore > 0;
// use MaxScore to establish that.
func Scale(maxScore float64) func(float64) float64 {
	return func(x float64) float64 {
		return DotRadius + (x/maxScore)*(TrackWidth-2*DotRadius)
	}
}

// MaxScore returns the maximum valid score in the set. A score is valid when
// it is a non-negative finite number. ok is false when the set holds no
// valid score or the maximum is zero; the mapping is undefined then and
// nothing must be drawn.
func MaxScore(scores []float64) (max float64, ok bool) {
	for _, s := range scores {
		if !validScore(s) {
			continue
		}
		if s > max {
			max = s
		}
	}
	return max, max > 0
}

// Layout computes one Mark per input score. Rows whose score is invalid get
// a zero Mark with OK=false; the rest of the pass continues. When the
// mapping is undefined (empty set, no valid scores, or max of zero) every
// Mark has OK=false and nothing is drawn.
func Layout(scores []float64) []Mark {
	marks := make([]Mark, len(scores))
	max, ok := MaxScore(scores)
	if !ok {
		return marks
	}

	scale := Scale(max)
	origin := scale(0)
	for i, s := range scores {
		if !validScore(s) || s > max {
			continue
		}
		x := scale(s)
		marks[i] = Mark{
			Score: s,
			Dot:   Dot{CX: x, CY: Baseline, R: DotRadius},
			Line:  Line{X1: origin, Y1: Baseline, X2: x, Y2: Baseline, StrokeWidth: StrokeWidth},
			OK:    true,
		}
	}
	return marks
}

func validScore(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0
}
