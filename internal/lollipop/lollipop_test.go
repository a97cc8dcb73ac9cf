package lollipop

import (
	"math"
	"strings"
	"testing"
)

func TestScaleEndpoints(t *testing.T) {
	cases := []struct {
		name string
		max  float64
	}{
		{"small", 1},
		{"ten", 10},
		{"fractional", 0.25},
		{"large", 1e9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scale := Scale(tc.max)
			if got := scale(0); got != 4 {
				t.Errorf("scale(0) = %v, want 4", got)
			}
			if got := scale(tc.max); math.Abs(got-96) > 1e-9 {
				t.Errorf("scale(max) = %v, want 96", got)
			}
		})
	}
}

func TestScaleWorkedExample(t *testing.T) {
	scores := []float64{2, 8, 10}
	marks := Layout(scores)

	want := []float64{22.4, 77.6, 96}
	for i, mark := range marks {
		if !mark.OK {
			t.Fatalf("mark %d not ok", i)
		}
		if math.Abs(mark.Dot.CX-want[i]) > 1e-9 {
			t.Errorf("mark %d dot at %v, want %v", i, mark.Dot.CX, want[i])
		}
	}
}

func TestLayoutGeometry(t *testing.T) {
	marks := Layout([]float64{5, 10})
	for i, mark := range marks {
		if mark.Dot.CY != Baseline || mark.Line.Y1 != Baseline || mark.Line.Y2 != Baseline {
			t.Errorf("mark %d not on baseline: %+v", i, mark)
		}
		if mark.Dot.R != DotRadius {
			t.Errorf("mark %d radius = %v, want %v", i, mark.Dot.R, DotRadius)
		}
		if mark.Line.X1 != 4 {
			t.Errorf("mark %d line origin = %v, want 4", i, mark.Line.X1)
		}
		if mark.Line.X2 != mark.Dot.CX {
			t.Errorf("mark %d line end %v != dot %v", i, mark.Line.X2, mark.Dot.CX)
		}
		if mark.Line.StrokeWidth != StrokeWidth {
			t.Errorf("mark %d stroke width = %v", i, mark.Line.StrokeWidth)
		}
	}
}

func TestLayoutPositionsInRange(t *testing.T) {
	scores := []float64{0, 0.001, 1, 3.5, 7, 42, 42.0001, 99, 100}
	for _, mark := range Layout(scores) {
		if !mark.OK {
			t.Fatalf("valid score produced invalid mark: %+v", mark)
		}
		if mark.Dot.CX < 4 || mark.Dot.CX > 96 {
			t.Errorf("dot position %v outside [4, 96]", mark.Dot.CX)
		}
	}
}

func TestLayoutEmptySet(t *testing.T) {
	if marks := Layout(nil); len(marks) != 0 {
		t.Errorf("empty set produced %d marks", len(marks))
	}
	// All-zero scores leave the mapping undefined as well.
	for _, mark := range Layout([]float64{0, 0}) {
		if mark.OK {
			t.Errorf("zero-max set produced drawable mark: %+v", mark)
		}
	}
}

func TestLayoutSkipsInvalidScores(t *testing.T) {
	scores := []float64{2, math.NaN(), 8, -1, math.Inf(1), 10}
	marks := Layout(scores)
	if len(marks) != len(scores) {
		t.Fatalf("got %d marks, want %d", len(marks), len(scores))
	}

	wantOK := []bool{true, false, true, false, false, true}
	for i, mark := range marks {
		if mark.OK != wantOK[i] {
			t.Errorf("mark %d ok = %v, want %v", i, mark.OK, wantOK[i])
		}
	}
	// The invalid rows must not influence the scale of the valid ones.
	if math.Abs(marks[5].Dot.CX-96) > 1e-9 {
		t.Errorf("max score dot at %v, want 96", marks[5].Dot.CX)
	}
}

func TestMaxScore(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   float64
		wantOK bool
	}{
		{"empty", nil, 0, false},
		{"all zero", []float64{0, 0}, 0, false},
		{"all invalid", []float64{math.NaN(), -3}, 0, false},
		{"mixed", []float64{1, math.NaN(), 5}, 5, true},
		{"single", []float64{2.5}, 2.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MaxScore(tc.scores)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("MaxScore(%v) = (%v, %v), want (%v, %v)",
					tc.scores, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestSVGRendering(t *testing.T) {
	marks := Layout([]float64{2, 8, 10})
	svg := SVG(marks[0])
	for _, want := range []string{`<svg`, `<line`, `<circle`, `cx="22.4"`, `stroke-width="1"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q: %s", want, svg)
		}
	}
	if strings.Contains(svg, `stroke="`) {
		t.Errorf("svg overrides stroke color: %s", svg)
	}
}

func TestSVGCoordinateFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{22.400000000000002, "22.4"},
		{77.6, "77.6"},
		{96, "96"},
		{4, "4"},
		{8.25, "8.25"},
		{0.5, "0.5"},
	}
	for _, tc := range cases {
		if got := ftoa(tc.in); got != tc.want {
			t.Errorf("ftoa(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSVGInvalidMarkRendersNothing(t *testing.T) {
	if svg := SVG(Mark{}); svg != "" {
		t.Errorf("invalid mark rendered %q", svg)
	}
}

func BenchmarkLayout(b *testing.B) {
	sizes := map[string]int{"small": 20, "medium": 100, "large": 1000}
	for name, n := range sizes {
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = float64(i % 50)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				marks := Layout(scores)
				_ = marks
			}
		})
	}
}
