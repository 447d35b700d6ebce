package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/scene"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"red", color.RGBA{0xff, 0, 0, 0xff}, true},
		{"Blue", color.RGBA{0, 0, 0xff, 0xff}, true},
		{"#e0e0ff", color.RGBA{0xe0, 0xe0, 0xff, 0xff}, true},
		{"#aaa", color.RGBA{0xaa, 0xaa, 0xaa, 0xff}, true},
		{"", color.Transparent, false},
		{"none", color.Transparent, false},
		{"#12", color.Black, false},
		{"#zzzzzz", color.Black, false},
		{"nosuchcolour", color.Black, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			r1, g1, b1, a1 := got.RGBA()
			r2, g2, b2, a2 := tt.want.RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func board() *schematic.Surface {
	s := schematic.New(schematic.Options{Cell: 40, Columns: 8, Rows: 4})
	s.AddModule(schematic.ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0)})
	s.AddModule(schematic.ModuleSpec{Name: "B & C", Anchor: grid.Pt(160, 0)})
	s.CommitRoute([]grid.Point{grid.Pt(80, 40), grid.Pt(160, 40)})
	return s
}

func TestSVG(t *testing.T) {
	s := board()
	w, h := s.Size()
	out := string(SVG(s.Canvas().Items(), w, h))

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 320 160" width="320" height="160">`,
		`<rect class="module m1001" x="0" y="0" width="80" height="40" fill="#e0e0ff" stroke="blue" stroke-width="2"/>`,
		`<ellipse class="pin input m1001" cx="0" cy="40" rx="6" ry="6" fill="red"/>`,
		`<polyline class="line w1003" points="80,40 160,40" fill="none" stroke="black" stroke-width="3"/>`,
		`>B &amp; C</text>`,
		"</svg>\n",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q\n%s", want, out)
		}
	}
}

func TestSVGPreview(t *testing.T) {
	s := board()
	s.ShowRoutePreview([]grid.Point{grid.Pt(0, 0), grid.Pt(40, 0)})
	w, h := s.Size()
	out := string(SVG(s.Canvas().Items(), w, h))
	if !strings.Contains(out, `stroke-dasharray="4,2"`) {
		t.Errorf("preview line not dashed:\n%s", out)
	}
}

func TestSVGSkipsMalformedItems(t *testing.T) {
	items := []scene.Item{
		{Kind: scene.KindRect, Coords: []float64{1, 2}},
		{Kind: scene.KindLine, Coords: []float64{1, 2}},
		{Kind: scene.KindText},
	}
	out := string(SVG(items, 10, 10))
	if strings.Count(out, "<rect") != 1 || strings.Contains(out, "<polyline") || strings.Contains(out, "<text") {
		t.Errorf("malformed items were drawn:\n%s", out)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 40: "40", 2.5: "2.5", -6: "-6", 1.126: "1.13"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPNG(t *testing.T) {
	s := board()
	w, h := s.Size()
	data, err := PNG(s.Canvas().Items(), w, h, 2)
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 320 {
		t.Errorf("size = %dx%d, want 640x320", b.Dx(), b.Dy())
	}

	// Module body interior is the module fill colour.
	r, g, b, _ := img.At(60, 40).RGBA()
	if r>>8 != 0xe0 || g>>8 != 0xe0 || b>>8 != 0xff {
		t.Errorf("module interior = %02x%02x%02x, want e0e0ff", r>>8, g>>8, b>>8)
	}
}

func TestPNGDefaultScale(t *testing.T) {
	data, err := PNG(nil, 10, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("width = %d, want 20", img.Bounds().Dx())
	}
}

func TestPNGInvalidSize(t *testing.T) {
	if _, err := PNG(nil, 0, 10, 1); err == nil {
		t.Error("PNG() accepted a zero width")
	}
}
