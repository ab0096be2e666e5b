package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodeshapes/internal/server"
	"github.com/matzehuels/nodeshapes/pkg/graph"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags hostFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve a live preview of a graph",
		Long: `Serve a graph over HTTP.

  /graph.svg   retained rendering, updated in place between requests
  /graph.png   canvas rendering
  /shapes      registered shape names
  POST /reload re-read the graph file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, &flags)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string, flags *hostFlags) error {
	s, err := flags.settings()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	g, err := flags.loadGraph(ctx, path)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}

	v, cleanup, err := c.newViewer(ctx, g, s, path)
	if err != nil {
		return err
	}
	defer cleanup()

	reload := func() (*graph.Graph, error) { return flags.loadGraph(ctx, path) }
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(v, reload, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSuccess("Serving %s", path)
	printKeyValue("Preview", StyleLink.Render("http://"+addr+"/graph.svg"))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-v.Updates():
				c.Logger.Debug("overlay image ready", "refreshes", v.Refreshes())
			}
		}
	})

	return eg.Wait()
}
