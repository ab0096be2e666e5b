package surface

import (
	"math"
	"testing"
)

func TestArcSweep(t *testing.T) {
	const tau = 2 * math.Pi
	tests := []struct {
		name          string
		start, end    float64
		anticlockwise bool
		want          float64
	}{
		{"full circle clockwise", 0, tau, false, tau},
		{"full circle anticlockwise from zero", 0, tau, true, -tau},
		{"more than a turn", 0, 3 * tau, false, tau},
		{"quarter clockwise", 0, math.Pi / 2, false, math.Pi / 2},
		{"wrap clockwise", 1.25 * math.Pi, 0, false, 0.75 * math.Pi},
		{"quarter anticlockwise", math.Pi / 2, 0, true, -math.Pi / 2},
		{"wrap anticlockwise", 0, math.Pi / 2, true, -1.5 * math.Pi},
		{"empty", 1, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArcSweep(tt.start, tt.end, tt.anticlockwise)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ArcSweep(%v, %v, %v) = %v, want %v", tt.start, tt.end, tt.anticlockwise, got, tt.want)
			}
		})
	}
}

func TestRecorderMarks(t *testing.T) {
	r := NewRecorder()
	red := MustParseColor("red")

	r.Save()
	r.SetFillColor(red)
	r.SetStrokeColor(red)
	r.SetLineWidth(2)
	r.BeginPath()
	r.Arc(10, 10, 5, 0, 2*math.Pi, true)
	r.ClosePath()
	r.Fill()
	r.Stroke()
	r.Restore()

	if len(r.Marks) != 2 {
		t.Fatalf("got %d marks, want 2", len(r.Marks))
	}
	fill, stroke := r.Marks[0], r.Marks[1]
	if fill.Kind != MarkFill || stroke.Kind != MarkStroke {
		t.Errorf("mark kinds = %v, %v", fill.Kind, stroke.Kind)
	}
	if stroke.LineWidth != 2 {
		t.Errorf("stroke width = %v, want 2", stroke.LineWidth)
	}
	cx, cy, radius, ok := fill.Circle()
	if !ok || cx != 10 || cy != 10 || radius != 5 {
		t.Errorf("Circle() = %v,%v,%v,%v; want 10,10,5,true", cx, cy, radius, ok)
	}
	if r.Depth() != 0 {
		t.Errorf("Depth() = %d after balanced Save/Restore", r.Depth())
	}
}

func TestRecorderRestoreResetsState(t *testing.T) {
	r := NewRecorder()
	r.Save()
	r.SetLineWidth(7)
	r.BeginPath()
	r.Arc(0, 0, 3, 0, 2*math.Pi, false)
	r.Clip()
	r.Restore()

	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(1, 1)
	r.Stroke()
	r.DrawImage(nil, 0, 0, 1, 1)

	if got := r.Marks[0].LineWidth; got != 1 {
		t.Errorf("line width after Restore = %v, want 1", got)
	}
	if got := len(r.Images[0].Clips); got != 0 {
		t.Errorf("clips after Restore = %d, want 0", got)
	}
}

func TestMarkCircleRejectsPolygons(t *testing.T) {
	r := NewRecorder()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(1, 0)
	r.LineTo(1, 1)
	r.ClosePath()
	r.Fill()

	if _, _, _, ok := r.Marks[0].Circle(); ok {
		t.Error("Circle() = true for a polygon")
	}

	r.BeginPath()
	r.Arc(0, 0, 1, 0, math.Pi, false)
	r.Fill()
	if _, _, _, ok := r.Marks[1].Circle(); ok {
		t.Error("Circle() = true for a half arc")
	}
}
