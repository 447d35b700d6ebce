package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/gridwire/pkg/scene"
)

// DefaultScale is the PNG pixel density used when scale is not positive.
const DefaultScale = 2.0

// PNG rasterizes items onto a white board of the given size. The image is
// width*scale by height*scale pixels.
func PNG(items []scene.Item, width, height int, scale float64) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", width, height)
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	dc := gg.NewContext(int(float64(width)*scale), int(float64(height)*scale))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(scale, scale)

	faces := map[float64]font.Face{}
	for _, it := range items {
		if err := drawItem(dc, it, fnt, faces, scale); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawItem(dc *gg.Context, it scene.Item, fnt *opentype.Font, faces map[float64]font.Face, scale float64) error {
	c := it.Coords
	switch it.Kind {
	case scene.KindRect:
		if len(c) < 4 {
			return nil
		}
		x0, y0, x1, y1 := normRect(c)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		fillStroke(dc, it.Style, scale)
	case scene.KindOval:
		if len(c) < 4 {
			return nil
		}
		x0, y0, x1, y1 := normRect(c)
		dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
		fillStroke(dc, it.Style, scale)
	case scene.KindLine:
		if len(c) < 4 {
			return nil
		}
		dc.MoveTo(c[0], c[1])
		for i := 2; i+1 < len(c); i += 2 {
			dc.LineTo(c[i], c[i+1])
		}
		line := it.Style
		line.Fill = ""
		fillStroke(dc, line, scale)
	case scene.KindText:
		if len(c) < 2 {
			return nil
		}
		size := it.Style.Size
		if size == 0 {
			size = 12
		}
		face, ok := faces[size]
		if !ok {
			var err error
			// Text is drawn in device space at the scaled size.
			face, err = opentype.NewFace(fnt, &opentype.FaceOptions{Size: size * scale, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				return fmt.Errorf("font face: %w", err)
			}
			faces[size] = face
		}
		col := it.Style.Stroke
		if col == "" {
			col = it.Style.Fill
		}
		clr, _ := ParseColor(col)
		if col == "" {
			clr, _ = ParseColor("black")
		}
		dc.Push()
		dc.Identity()
		dc.SetFontFace(face)
		dc.SetColor(clr)
		dc.DrawStringAnchored(it.Text, c[0]*scale, c[1]*scale, 0.5, 0.5)
		dc.Pop()
	}
	return nil
}

// fillStroke paints the current path. gg strokes in device space, so line
// widths and dashes are scaled by hand.
func fillStroke(dc *gg.Context, s scene.Style, scale float64) {
	fill, hasFill := ParseColor(s.Fill)
	stroke, hasStroke := ParseColor(s.Stroke)
	if hasStroke {
		w := s.Width
		if w == 0 {
			w = 1
		}
		dc.SetLineWidth(w * scale)
		dash := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = d * scale
		}
		dc.SetDash(dash...)
	}
	switch {
	case hasFill && hasStroke:
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(stroke)
		dc.Stroke()
	case hasFill:
		dc.SetColor(fill)
		dc.Fill()
	case hasStroke:
		dc.SetColor(stroke)
		dc.Stroke()
	default:
		dc.ClearPath()
	}
}
