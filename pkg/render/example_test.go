package render_test

import (
	"fmt"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/render"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
)

func Example() {
	r := render.New(shapes.Builtin())
	defer r.Close()

	n := &graph.Node{ID: "a", X: 10, Y: 10, Size: 5, Color: "red"}
	g, err := r.CreateNode(n, nil)
	if err != nil {
		panic(err)
	}

	n.Size = 8
	r.UpdateNode(n, g, nil)

	fmt.Println(g.Class(), g.FirstChild().Tag, g.FirstChild().Attr("r"), g.FirstChild().Attr("fill"))
	// Output: sigma-node-group circle 8 red
}
