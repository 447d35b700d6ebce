package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/netlist"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists pins in module labels and names pins on edges.
	Detailed bool
}

// NodeID returns the DOT node id of a placed module.
func NodeID(moduleID int) string { return "m" + strconv.Itoa(moduleID) }

// ToDOT converts a schematic and its nets to Graphviz DOT source.
// Modules appear in graph order, then nets in the order given.
func ToDOT(g graph.Graph, nets []netlist.Net, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#e0e0ff\", color=blue, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, m := range g.Modules {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", NodeID(m.UUID), fmtLabel(m, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, n := range nets {
		writeNet(&buf, n, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(m graph.Module, detailed bool) string {
	label := fmt.Sprintf("%s\n#%d", m.Name, m.UUID)
	if !detailed || len(m.Pins) == 0 {
		return label
	}
	parts := make([]string, len(m.Pins))
	for i, p := range m.Pins {
		parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func writeNet(buf *bytes.Buffer, n netlist.Net, opts Options) {
	drivers, sinks := n.Drivers(), n.Sinks()
	if len(drivers) > 0 && len(sinks) > 0 {
		for _, d := range drivers {
			for _, s := range sinks {
				attrs := []string{fmt.Sprintf("label=%q", n.Name)}
				if opts.Detailed {
					attrs = append(attrs, fmt.Sprintf("taillabel=%q", d.Pin), fmt.Sprintf("headlabel=%q", s.Pin))
				}
				fmt.Fprintf(buf, "  %q -> %q [%s];\n", NodeID(d.ModuleID), NodeID(s.ModuleID), strings.Join(attrs, ", "))
			}
		}
		return
	}

	// Undriven or unloaded nets meet at a point so dangling pins stay visible.
	fmt.Fprintf(buf, "  %q [shape=point, width=0.1, xlabel=%q];\n", n.Name, n.Name)
	for _, p := range n.Pins {
		attrs := []string{"dir=none"}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("taillabel=%q", p.Pin))
		}
		fmt.Fprintf(buf, "  %q -> %q [%s];\n", NodeID(p.ModuleID), n.Name, strings.Join(attrs, ", "))
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
