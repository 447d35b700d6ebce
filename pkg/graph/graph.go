package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gridwire/pkg/grid"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
// Nil slices are written as empty arrays.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (Graph, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a graph as JSON to an io.Writer.
func Write(g Graph, w io.Writer) error {
	return writeTo(g, w)
}

// WriteFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	return readFrom(r)
}

// ReadFile reads a JSON file and returns the decoded graph.
// Returns validation errors for structurally inconsistent graphs.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(g Graph, w io.Writer) error {
	out := normalize(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, fmt.Errorf("validate: %w", err)
	}
	return normalize(g), nil
}

// normalize returns a copy of g with nil slices replaced by empty ones so
// JSON output always carries arrays.
func normalize(g Graph) Graph {
	g = g.Clone()
	if g.Modules == nil {
		g.Modules = []Module{}
	}
	if g.Connections == nil {
		g.Connections = []Connection{}
	}
	for i := range g.Modules {
		if g.Modules[i].Pins == nil {
			g.Modules[i].Pins = []Pin{}
		}
	}
	for i := range g.Connections {
		if g.Connections[i].Nodes == nil {
			g.Connections[i].Nodes = []grid.Point{}
		}
	}
	return g
}
