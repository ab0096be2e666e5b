package surface

import (
	"image"
	"image/color"
	"math"
)

// OpKind identifies a recorded surface call.
type OpKind uint8

const (
	OpSave OpKind = iota
	OpRestore
	OpSetFillColor
	OpSetStrokeColor
	OpSetLineWidth
	OpBeginPath
	OpMoveTo
	OpLineTo
	OpArc
	OpClosePath
	OpFill
	OpStroke
	OpClip
	OpDrawImage
)

var opNames = [...]string{
	OpSave:           "Save",
	OpRestore:        "Restore",
	OpSetFillColor:   "SetFillColor",
	OpSetStrokeColor: "SetStrokeColor",
	OpSetLineWidth:   "SetLineWidth",
	OpBeginPath:      "BeginPath",
	OpMoveTo:         "MoveTo",
	OpLineTo:         "LineTo",
	OpArc:            "Arc",
	OpClosePath:      "ClosePath",
	OpFill:           "Fill",
	OpStroke:         "Stroke",
	OpClip:           "Clip",
	OpDrawImage:      "DrawImage",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "Op(?)"
}

// Op is one recorded call with its numeric arguments.
type Op struct {
	Kind  OpKind
	Args  []float64
	Color color.Color // SetFillColor, SetStrokeColor
}

// SegmentKind identifies a path segment.
type SegmentKind uint8

const (
	SegMove SegmentKind = iota
	SegLine
	SegArc
	SegClose
)

// Segment is one element of a recorded path. For arcs, (X, Y) is the centre
// and Sweep is the signed angle already normalised by ArcSweep.
type Segment struct {
	Kind  SegmentKind
	X, Y  float64
	R     float64
	Start float64
	Sweep float64
}

// ArcStart returns the first point of an arc segment.
func (s Segment) ArcStart() (x, y float64) {
	return s.X + s.R*math.Cos(s.Start), s.Y + s.R*math.Sin(s.Start)
}

// ArcEnd returns the last point of an arc segment.
func (s Segment) ArcEnd() (x, y float64) {
	a := s.Start + s.Sweep
	return s.X + s.R*math.Cos(a), s.Y + s.R*math.Sin(a)
}

// MarkKind says whether a mark was filled or stroked.
type MarkKind uint8

const (
	MarkFill MarkKind = iota
	MarkStroke
)

// Mark is the outcome of one Fill or Stroke: the path that was painted and
// the paint state at that moment.
type Mark struct {
	Kind      MarkKind
	Segments  []Segment
	Color     color.Color
	LineWidth float64 // stroke marks only
}

// Circle reports whether the mark's path is exactly one full-turn arc,
// optionally closed, and returns its centre and radius.
func (m Mark) Circle() (cx, cy, r float64, ok bool) {
	segs := m.Segments
	if n := len(segs); n > 0 && segs[n-1].Kind == SegClose {
		segs = segs[:n-1]
	}
	if len(segs) != 1 || segs[0].Kind != SegArc || !IsFullTurn(segs[0].Sweep) {
		return 0, 0, 0, false
	}
	return segs[0].X, segs[0].Y, segs[0].R, true
}

// ImageDraw is a recorded DrawImage call with the clip paths in effect.
type ImageDraw struct {
	Image      image.Image
	X, Y, W, H float64
	Clips      [][]Segment
}

type recorderState struct {
	fill, stroke color.Color
	lineWidth    float64
	clips        [][]Segment
}

// Recorder is a Surface that draws nothing and records everything.
// Initial state matches a fresh canvas: black fill and stroke, line width 1.
type Recorder struct {
	Ops    []Op
	Marks  []Mark
	Images []ImageDraw

	state recorderState
	stack []recorderState
	path  []Segment
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: recorderState{fill: color.Black, stroke: color.Black, lineWidth: 1}}
}

// Kinds returns the sequence of recorded call kinds.
func (r *Recorder) Kinds() []OpKind {
	kinds := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

// Depth returns the current Save nesting depth.
func (r *Recorder) Depth() int { return len(r.stack) }

// Reset clears all recordings and state.
func (r *Recorder) Reset() { *r = *NewRecorder() }

func (r *Recorder) op(kind OpKind, args ...float64) {
	r.Ops = append(r.Ops, Op{Kind: kind, Args: args})
}

func (r *Recorder) Save() {
	r.op(OpSave)
	s := r.state
	s.clips = append([][]Segment(nil), r.state.clips...)
	r.stack = append(r.stack, s)
}

func (r *Recorder) Restore() {
	r.op(OpRestore)
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpSetFillColor, Color: c})
	r.state.fill = c
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpSetStrokeColor, Color: c})
	r.state.stroke = c
}

func (r *Recorder) SetLineWidth(w float64) {
	r.op(OpSetLineWidth, w)
	r.state.lineWidth = w
}

func (r *Recorder) BeginPath() {
	r.op(OpBeginPath)
	r.path = nil
}

func (r *Recorder) MoveTo(x, y float64) {
	r.op(OpMoveTo, x, y)
	r.path = append(r.path, Segment{Kind: SegMove, X: x, Y: y})
}

func (r *Recorder) LineTo(x, y float64) {
	r.op(OpLineTo, x, y)
	r.path = append(r.path, Segment{Kind: SegLine, X: x, Y: y})
}

func (r *Recorder) Arc(x, y, radius, start, end float64, anticlockwise bool) {
	acw := 0.0
	if anticlockwise {
		acw = 1
	}
	r.op(OpArc, x, y, radius, start, end, acw)
	r.path = append(r.path, Segment{
		Kind:  SegArc,
		X:     x,
		Y:     y,
		R:     radius,
		Start: start,
		Sweep: ArcSweep(start, end, anticlockwise),
	})
}

func (r *Recorder) ClosePath() {
	r.op(OpClosePath)
	r.path = append(r.path, Segment{Kind: SegClose})
}

func (r *Recorder) Fill() {
	r.op(OpFill)
	r.Marks = append(r.Marks, Mark{Kind: MarkFill, Segments: r.pathCopy(), Color: r.state.fill})
}

func (r *Recorder) Stroke() {
	r.op(OpStroke)
	r.Marks = append(r.Marks, Mark{
		Kind:      MarkStroke,
		Segments:  r.pathCopy(),
		Color:     r.state.stroke,
		LineWidth: r.state.lineWidth,
	})
}

func (r *Recorder) Clip() {
	r.op(OpClip)
	r.state.clips = append(r.state.clips, r.pathCopy())
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.op(OpDrawImage, x, y, w, h)
	r.Images = append(r.Images, ImageDraw{
		Image: img,
		X:     x, Y: y, W: w, H: h,
		Clips: append([][]Segment(nil), r.state.clips...),
	})
}

func (r *Recorder) pathCopy() []Segment {
	return append([]Segment(nil), r.path...)
}
