package render

import (
	"context"
	"time"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/observability"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// bindCanvas paints fill, border and image overlay, in that order, inside
// one Save/Restore bracket.
func (r *Renderer) bindCanvas(d shapes.Descriptor) CanvasFunc {
	return func(n *graph.Node, s surface.Surface, settings Settings) {
		start := time.Now()
		st := r.resolve(n, settings)

		s.Save()
		if d.Fill != nil {
			d.Fill(n, st.x, st.y, st.size, st.fill, s)
		}
		if d.Border != nil {
			d.Border(n, st.x, st.y, st.size, st.border, s)
		}
		r.paintOverlay(n, st.x, st.y, st.size, s)
		s.Restore()

		observability.Render().OnPaint(context.Background(), d.Name, time.Since(start))
	}
}
