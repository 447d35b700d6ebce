package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/netlist"
)

func sample() graph.Graph {
	return graph.Graph{
		Modules: []graph.Module{
			{UUID: 1001, Name: "A", GridW: 2, GridH: 1, Pins: []graph.Pin{
				{Name: "left", Type: graph.PinInput, Pos: grid.Pt(0, 40)},
				{Name: "right", Type: graph.PinOutput, Pos: grid.Pt(80, 40)},
			}},
			{UUID: 1002, Name: "B", X: 160, GridW: 2, GridH: 1, Pins: []graph.Pin{
				{Name: "left", Type: graph.PinInput, Pos: grid.Pt(160, 40)},
				{Name: "right", Type: graph.PinOutput, Pos: grid.Pt(240, 40)},
			}},
		},
		Connections: []graph.Connection{
			{UUID: 1003, Nodes: []grid.Point{grid.Pt(80, 40), grid.Pt(160, 40)}},
			{UUID: 1004, Nodes: []grid.Point{grid.Pt(0, 40), grid.Pt(0, 120)}},
		},
	}
}

func TestToDOT(t *testing.T) {
	g := sample()
	dot := ToDOT(g, netlist.Build(g), Options{})

	checks := []string{
		"digraph G {",
		`"m1001" [label="A\n#1001"];`,
		`"m1002" [label="B\n#1002"];`,
		`"m1001" -> "m1002" [label="net_1003"];`,
		`"net_1004" [shape=point, width=0.1, xlabel="net_1004"];`,
		`"m1001" -> "net_1004" [dir=none];`,
	}
	for _, want := range checks {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not closed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := sample()
	dot := ToDOT(g, netlist.Build(g), Options{Detailed: true})
	for _, want := range []string{
		`label="A\n#1001\ninput left\noutput right"`,
		`taillabel="right", headlabel="left"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(graph.Graph{}, nil, Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("empty graph has edges:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	g := sample()
	svg, err := RenderSVG(ToDOT(g, netlist.Build(g), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected SVG header:\n%.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox changed input: %s", got)
	}
}
