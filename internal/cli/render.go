package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeshapes/internal/viewer"
	"github.com/matzehuels/nodeshapes/pkg/config"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		flags      hostFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph to SVG and/or PNG",
		Long: `Render a graph file to SVG and/or PNG.

PNG output is painted on an immediate-mode canvas. Overlay images that are
still loading during the first paint are awaited and the canvas is painted
once more. SVG output is built from retained node groups and references
overlay images by URL.

Settings are read from --config, or from ./nodeshapes.toml when present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := config.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, formats, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", config.FormatSVG, "output formats, comma separated: svg, png")
	flags.register(cmd)

	return cmd
}

// runRender loads the graph and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, output string, formats []string, flags *hostFlags) error {
	prog := newProgress(c.Logger)

	s, err := flags.settings()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	g, err := flags.loadGraph(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	c.Logger.Debug("settings", "settings", s)

	v, cleanup, err := c.newViewer(ctx, g, s, input)
	if err != nil {
		return err
	}
	defer cleanup()

	var written []string
	for _, format := range formats {
		path := outputPath(input, output, format, len(formats) > 1)
		if err := writeFile(path, func(w io.Writer) error {
			return c.renderFormat(ctx, v, format, w)
		}); err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %d nodes", len(g.Nodes)))
	printSuccess("Rendered %s", filepath.Base(input))
	printStats(len(g.Nodes), len(g.Edges), v.Renderer().Images().Len())
	for _, path := range written {
		printFile(path)
	}
	fmt.Println()
	printNextStep("Preview it live", appName+" serve "+input)
	return nil
}

func (c *CLI) renderFormat(ctx context.Context, v *viewer.Viewer, format string, w io.Writer) error {
	switch format {
	case config.FormatPNG:
		images := v.Renderer().Images()
		spinner := newSpinnerWithContext(ctx, "Painting PNG...").withStatus(func() string {
			if n := images.Pending(); n > 0 {
				return imagesLoading(n)
			}
			return ""
		})
		spinner.Start()
		defer spinner.Stop()
		return v.RenderPNG(ctx, w)
	default:
		return v.RenderSVG(w)
	}
}

func imagesLoading(n int) string {
	if n == 1 {
		return "1 image loading"
	}
	return fmt.Sprintf("%d images loading", n)
}

// outputPath derives the file name for one format. With several formats
// the extension of -o is replaced per format.
func outputPath(input, output, format string, multi bool) string {
	switch {
	case output == "":
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	default:
		return output
	}
}

// writeFile creates path and removes it again when write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
