package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/gridwire/pkg/scene"
)

// SVG renders items onto a white board of the given size.
func SVG(items []scene.Item, width, height int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="white"/>`+"\n", width, height)

	for _, it := range items {
		renderItem(&buf, it)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderItem(buf *bytes.Buffer, it scene.Item) {
	c := it.Coords
	switch it.Kind {
	case scene.KindRect:
		if len(c) < 4 {
			return
		}
		x0, y0, x1, y1 := normRect(c)
		fmt.Fprintf(buf, `  <rect class="%s" x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			classes(it), num(x0), num(y0), num(x1-x0), num(y1-y0), paint(it.Style))
	case scene.KindOval:
		if len(c) < 4 {
			return
		}
		x0, y0, x1, y1 := normRect(c)
		fmt.Fprintf(buf, `  <ellipse class="%s" cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
			classes(it), num((x0+x1)/2), num((y0+y1)/2), num((x1-x0)/2), num((y1-y0)/2), paint(it.Style))
	case scene.KindLine:
		if len(c) < 4 {
			return
		}
		pts := make([]string, 0, len(c)/2)
		for i := 0; i+1 < len(c); i += 2 {
			pts = append(pts, num(c[i])+","+num(c[i+1]))
		}
		line := it.Style
		line.Fill = ""
		fmt.Fprintf(buf, `  <polyline class="%s" points="%s"%s/>`+"\n",
			classes(it), strings.Join(pts, " "), paint(line))
	case scene.KindText:
		if len(c) < 2 {
			return
		}
		fill := it.Style.Stroke
		if fill == "" {
			fill = it.Style.Fill
		}
		if fill == "" {
			fill = "black"
		}
		size := it.Style.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(buf, `  <text class="%s" x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			classes(it), num(c[0]), num(c[1]), num(size), html.EscapeString(fill), html.EscapeString(it.Text))
	}
}

// paint returns the fill and stroke attributes for s.
func paint(s scene.Style) string {
	var b strings.Builder
	if s.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, html.EscapeString(s.Fill))
	} else {
		b.WriteString(` fill="none"`)
	}
	if s.Stroke != "" {
		w := s.Width
		if w == 0 {
			w = 1
		}
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, html.EscapeString(s.Stroke), num(w))
		if len(s.Dash) > 0 {
			parts := make([]string, len(s.Dash))
			for i, d := range s.Dash {
				parts[i] = num(d)
			}
			fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
		}
	}
	return b.String()
}

func classes(it scene.Item) string {
	return html.EscapeString(strings.Join(it.Tags, " "))
}

func normRect(c []float64) (x0, y0, x1, y1 float64) {
	return min(c[0], c[2]), min(c[1], c[3]), max(c[0], c[2]), max(c[1], c[3])
}

// num formats coordinates without trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
