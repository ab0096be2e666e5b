package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeshapes/internal/viewer"
	"github.com/matzehuels/nodeshapes/pkg/buildinfo"
	"github.com/matzehuels/nodeshapes/pkg/cache"
	"github.com/matzehuels/nodeshapes/pkg/config"
	"github.com/matzehuels/nodeshapes/pkg/graph"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodeshapes"

	// configFile is looked up in the working directory when --config is not set.
	configFile = "nodeshapes.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodeshapes renders graph nodes as shapes",
		Long:         `nodeshapes renders graph nodes with a registry of shapes, to PNG through an immediate-mode canvas and to SVG through a retained element tree, with clipped image overlays on top.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// hostFlags are the flags shared by render and serve.
type hostFlags struct {
	configPath string
	width      int
	height     int
	noCache    bool
	autoLayout bool
}

func (f *hostFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "settings file (default: ./"+configFile+" if present)")
	cmd.Flags().IntVar(&f.width, "width", 0, "output width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "output height in pixels")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not keep downloaded images on disk")
	cmd.Flags().BoolVar(&f.autoLayout, "layout", false, "place nodes with Graphviz when the graph has no positions")
}

// settings loads the settings file and applies flag overrides.
func (f *hostFlags) settings() (config.Settings, error) {
	path := f.configPath
	if path == "" {
		if _, err := os.Stat(configFile); err == nil {
			path = configFile
		}
	}

	s := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return s, err
		}
		s = loaded
	}
	if f.width > 0 {
		s.Width = f.width
	}
	if f.height > 0 {
		s.Height = f.height
	}
	if f.noCache {
		s.ImageCache = config.ImageCacheNone
	}
	return s, s.Validate()
}

// loadGraph reads a graph file and lays it out when asked to.
func (f *hostFlags) loadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	if f.autoLayout && graph.NeedsLayout(g) {
		loggerFromContext(ctx).Debug("computing layout", "nodes", len(g.Nodes))
		if err := graph.AutoLayout(ctx, g, graph.DefaultLayoutScale); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// newViewer opens the image store and builds a viewer for g. The returned
// cleanup closes both.
func (c *CLI) newViewer(ctx context.Context, g *graph.Graph, s config.Settings, graphPath string) (*viewer.Viewer, func(), error) {
	store, err := viewer.OpenStore(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	loader := viewer.NewLoader(s, store, filepath.Dir(graphPath))

	v, err := viewer.New(g, s, viewer.WithLoader(loader), viewer.WithLogger(c.Logger))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	cleanup := func() {
		v.Close()
		store.Close()
	}
	return v, cleanup, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the image cache directory.
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{config.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
