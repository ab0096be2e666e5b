package cli

import (
	"fmt"
	"image/color"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/render"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// Preview size in terminal cells. Every cell holds two pixel rows.
const (
	previewCols = 24
	previewRows = 12
)

// shapesCommand creates the shapes command.
func (c *CLI) shapesCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the registered shapes",
		Long: `List the shapes available to graph nodes.

With --interactive, browse the shapes with a live preview painted by the
canvas renderer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := shapes.Default()
			descs := latestDescriptors(reg)
			if !interactive {
				fmt.Println(shapeTable(descs))
				return nil
			}

			r := render.New(reg, render.WithLogger(c.Logger))
			defer r.Close()

			name, err := runShapePicker(descs, func(name string) string {
				return shapePreview(r, name, previewCols, previewRows)
			})
			if err != nil {
				return err
			}
			if name != "" {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse shapes with a preview")
	return cmd
}

// latestDescriptors returns the effective descriptor of every distinct name.
func latestDescriptors(reg *shapes.Registry) []shapes.Descriptor {
	names := reg.Names()
	descs := make([]shapes.Descriptor, 0, len(names))
	for _, name := range names {
		if d, ok := reg.Lookup(name); ok {
			descs = append(descs, d)
		}
	}
	return descs
}

func shapeTable(descs []shapes.Descriptor) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, []string{d.Name, shapeKind(d), yesNo(d.Border != nil), paramFields(d.Params)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Shape", "Kind", "Border", "Parameters").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}

func shapeKind(d shapes.Descriptor) string {
	if d.Tracer != nil {
		return "outline"
	}
	return "painter"
}

// describeShape is the one-line summary under the interactive preview.
func describeShape(d shapes.Descriptor) string {
	s := shapeKind(d)
	if p := paramFields(d.Params); p != "—" {
		s += " · " + p
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// paramFields lists the JSON field names of a parameter record.
func paramFields(p graph.ShapeParams) string {
	if p == nil {
		return "—"
	}
	t := reflect.TypeOf(p)
	var fields []string
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			fields = append(fields, name)
		}
	}
	return strings.Join(fields, ", ")
}

// shapePreview paints one node of the named shape on a small raster and
// converts it to half-block characters.
func shapePreview(r *render.Renderer, name string, cols, rows int) string {
	px := surface.NewRaster(cols, rows*2)
	n := &graph.Node{
		ID:    "preview",
		Shape: name,
		X:     float64(cols) / 2,
		Y:     float64(rows),
		Size:  float64(min(cols, rows*2))/2 - 1,
		Color: "#ffffff",
	}
	if err := r.DrawNode(n, px, nil); err != nil {
		return listDimStyle.Render(err.Error())
	}
	return halfBlocks(px.Image(), cols, rows)
}

// halfBlocks maps pixel pairs to " ", "▀", "▄" or "█" by alpha.
func halfBlocks(img interface{ At(x, y int) color.Color }, cols, rows int) string {
	on := func(x, y int) bool {
		_, _, _, a := img.At(x, y).RGBA()
		return a >= 0x8000
	}
	var b strings.Builder
	for row := range rows {
		for col := range cols {
			top, bottom := on(col, 2*row), on(col, 2*row+1)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteString(" ")
			}
		}
		if row < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
