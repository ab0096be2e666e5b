package scene

import "strings"

// PathData builds the d attribute of a <path>.
type PathData struct {
	b strings.Builder
}

func (p *PathData) cmd(c byte, nums ...float64) {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteByte(c)
	for i, n := range nums {
		if i > 0 {
			p.b.WriteByte(',')
		}
		p.b.WriteString(Num(n))
	}
}

func (p *PathData) MoveTo(x, y float64) { p.cmd('M', x, y) }
func (p *PathData) LineTo(x, y float64) { p.cmd('L', x, y) }
func (p *PathData) Close()              { p.cmd('Z') }

// ArcTo adds an elliptical arc to (x, y). sweep selects the positive-angle
// direction, which is clockwise on screen.
func (p *PathData) ArcTo(rx, ry, rotation float64, large, sweep bool, x, y float64) {
	p.cmd('A', rx, ry, rotation, flag(large), flag(sweep), x, y)
}

// Len reports the number of bytes written so far.
func (p *PathData) Len() int { return p.b.Len() }

func (p *PathData) String() string { return p.b.String() }

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
