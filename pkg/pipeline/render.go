package pipeline

import (
	"fmt"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/hdl"
	"github.com/matzehuels/gridwire/pkg/netlist"
	"github.com/matzehuels/gridwire/pkg/render"
	"github.com/matzehuels/gridwire/pkg/render/nodelink"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// Board loads g onto a fresh surface large enough to show every module and
// wire, and at least opts.Columns by opts.Rows cells.
func Board(g graph.Graph, opts Options) (*schematic.Surface, error) {
	cols, rows := extent(g, opts.Cell)
	s := schematic.New(schematic.Options{
		Cell:    opts.Cell,
		Columns: max(cols, opts.Columns),
		Rows:    max(rows, opts.Rows),
		Logger:  opts.Logger,
	})
	if err := s.LoadGraph(g); err != nil {
		return nil, err
	}
	return s, nil
}

// extent returns the board size in cells needed to draw g with a one-cell
// margin, never smaller than the editor's default board.
func extent(g graph.Graph, cell int) (cols, rows int) {
	maxX, maxY := 0, 0
	for _, m := range g.Modules {
		maxX = max(maxX, m.X+m.GridW*cell)
		maxY = max(maxY, m.Y+m.GridH*cell)
		for _, p := range m.Pins {
			maxX, maxY = max(maxX, p.Pos.X), max(maxY, p.Pos.Y)
		}
	}
	for _, c := range g.Connections {
		for _, p := range c.Nodes {
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
		}
	}
	cols = (maxX+cell-1)/cell + 1
	rows = (maxY+cell-1)/cell + 1
	return max(cols, schematic.DefaultColumns), max(rows, schematic.DefaultRows)
}

// RenderFormat produces one artifact from a graph and its nets.
func RenderFormat(format string, g graph.Graph, nets []netlist.Net, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG, FormatPNG:
		s, err := Board(g, opts)
		if err != nil {
			return nil, err
		}
		w, h := s.Size()
		items := s.Canvas().Items()
		if format == FormatSVG {
			return render.SVG(items, w, h), nil
		}
		return render.PNG(items, w, h, opts.Scale)
	case FormatJSON:
		return graph.Marshal(g)
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nets, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatNodelink:
		return nodelink.RenderSVG(nodelink.ToDOT(g, nets, nodelink.Options{Detailed: opts.Detailed}))
	case FormatVerilog:
		top, err := hdl.FromSchematic(opts.Top, g, nets, opts.Resolver)
		if err != nil {
			return nil, err
		}
		return hdl.Generate(top)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
