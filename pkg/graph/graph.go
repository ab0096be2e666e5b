package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nodeshapes/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads and validates a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes and validates a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// Validate checks structural constraints: node ids are unique and safe to
// embed in element ids, sizes are non-negative, edges reference existing
// nodes, image URLs are well-formed and parameter records are in range.
func Validate(g *Graph) error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		if n.Size < 0 || !finite(n.Size) {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q: size must be a non-negative number", n.ID)
		}
		for prefix, p := range n.Layouts {
			if p.Size < 0 || !finite(p.Size) {
				return errors.New(errors.ErrCodeInvalidGraph, "node %q: layout %q size must be a non-negative number", n.ID, prefix)
			}
		}
		if n.Image != nil {
			if err := errors.ValidateImageURL(n.Image.URL); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
			}
			if n.Image.W < 0 || n.Image.H < 0 || n.Image.Scale < 0 || n.Image.Clip < 0 {
				return errors.New(errors.ErrCodeInvalidGraph, "node %q: image dimensions must be non-negative", n.ID)
			}
		}
		if n.Params != nil {
			if err := n.Params.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidParams, err, "node %q", n.ID)
			}
		}
	}

	for _, e := range g.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s -> %s: unknown source node", e.From, e.To)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s -> %s: unknown target node", e.From, e.To)
		}
	}
	return nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}
