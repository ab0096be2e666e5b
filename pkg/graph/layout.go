package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodeshapes/pkg/errors"
)

// DefaultLayoutScale converts Graphviz points to surface units.
const DefaultLayoutScale = 1.0

// NeedsLayout reports whether the graph carries no positions at all, i.e.
// every node sits at the origin. Graphs with a single node never need one.
func NeedsLayout(g *Graph) bool {
	if len(g.Nodes) < 2 {
		return false
	}
	for _, n := range g.Nodes {
		if n.X != 0 || n.Y != 0 {
			return false
		}
	}
	return true
}

// AutoLayout places every node with the Graphviz "dot" engine and writes the
// resulting coordinates, multiplied by scale, into the base X/Y fields.
// The y axis is flipped so that the first rank ends up at the top of the
// surface. Nodes without a size get one derived from the Graphviz node box.
func AutoLayout(ctx context.Context, g *Graph, scale float64) error {
	if len(g.Nodes) == 0 {
		return nil
	}
	if scale <= 0 {
		scale = DefaultLayoutScale
	}

	out, err := runDot(ctx, ToDOT(g))
	if err != nil {
		return err
	}

	positions := parsePositions(out)
	maxY := 0.0
	for _, p := range positions {
		maxY = max(maxY, p.Y)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		p, ok := positions[n.ID]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "graphviz returned no position for node %q", n.ID)
		}
		n.X = p.X * scale
		n.Y = (maxY - p.Y) * scale
		if n.Size == 0 {
			n.Size = p.Size * scale
		}
	}
	return nil
}

// ToDOT converts a graph to Graphviz DOT format. Only the structure is
// exported; visual attributes stay with the shape renderer.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=circle, label=\"\", width=0.4, fixedsize=true];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		if n.Size > 0 {
			fmt.Fprintf(&buf, "  %q [width=%.2f];\n", n.ID, 2*n.Size/72)
			continue
		}
		fmt.Fprintf(&buf, "  %q;\n", n.ID)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// runDot lays out and re-emits the DOT source; the output carries a pos
// attribute on every node.
func runDot(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("dot"), &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*("(?:[^"\\]|\\.)*"|[^\s"\[\];{}=]+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="([-0-9.e+]+),([-0-9.e+]+)!?"`)
	widthRe    = regexp.MustCompile(`\bwidth="?([0-9.]+)"?`)
)

// parsePositions extracts node centres (in points) from laid-out DOT output.
// Edge statements never match because their first token is followed by an
// edge operator rather than an attribute list.
func parsePositions(dot []byte) map[string]Placement {
	positions := make(map[string]Placement)
	for _, m := range nodeStmtRe.FindAllSubmatch(dot, -1) {
		name := string(m[1])
		switch name {
		case "graph", "node", "edge":
			continue
		}
		if strings.HasPrefix(name, `"`) {
			unquoted, err := strconv.Unquote(name)
			if err != nil {
				continue
			}
			name = unquoted
		}

		pos := posAttrRe.FindSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pos[1]), 64)
		y, errY := strconv.ParseFloat(string(pos[2]), 64)
		if errX != nil || errY != nil {
			continue
		}

		p := Placement{X: x, Y: y}
		if w := widthRe.FindSubmatch(m[2]); w != nil {
			if inches, err := strconv.ParseFloat(string(w[1]), 64); err == nil {
				p.Size = inches * 72 / 2
			}
		}
		positions[name] = p
	}
	return positions
}
