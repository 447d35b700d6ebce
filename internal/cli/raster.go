package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridwire/pkg/scene"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// A grid cell is drawn as cellChars columns by cellLines rows of terminal
// characters.
const (
	cellChars = 4
	cellLines = 2
)

// ink selects the style of one raster cell.
type ink uint8

const (
	inkNone ink = iota
	inkGrid
	inkBorder
	inkModule
	inkLabel
	inkWire
	inkInput
	inkOutput
	inkPreview
)

var inkStyles = map[ink]lipgloss.Style{
	inkGrid:    lipgloss.NewStyle().Foreground(colorDim),
	inkBorder:  lipgloss.NewStyle().Foreground(colorGray),
	inkModule:  lipgloss.NewStyle().Foreground(colorBlue),
	inkLabel:   lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
	inkWire:    lipgloss.NewStyle().Foreground(colorWhite),
	inkInput:   lipgloss.NewStyle().Foreground(colorRed),
	inkOutput:  lipgloss.NewStyle().Foreground(colorGreen),
	inkPreview: lipgloss.NewStyle().Foreground(colorYellow),
}

// raster is a character image of a canvas.
type raster struct {
	cell  int
	w, h  int
	chars [][]rune
	inks  [][]ink
}

func newRaster(cols, rows, cell int) *raster {
	r := &raster{cell: cell, w: cols*cellChars + 1, h: rows*cellLines + 1}
	r.chars = make([][]rune, r.h)
	r.inks = make([][]ink, r.h)
	for y := range r.chars {
		r.chars[y] = []rune(strings.Repeat(" ", r.w))
		r.inks[y] = make([]ink, r.w)
	}
	return r
}

// rasterize draws items bottom first, so later items cover earlier ones.
func rasterize(items []scene.Item, cols, rows, cell int) *raster {
	r := newRaster(cols, rows, cell)
	for _, it := range items {
		r.draw(it)
	}
	return r
}

// toCell maps canvas coordinates to a character position.
func (r *raster) toCell(x, y float64) (int, int) {
	c := float64(r.cell)
	return int(math.Round(x * cellChars / c)), int(math.Round(y * cellLines / c))
}

// toCanvas maps a character position back to canvas coordinates.
func (r *raster) toCanvas(col, row int) (float64, float64) {
	c := float64(r.cell)
	return float64(col) * c / cellChars, float64(row) * c / cellLines
}

func (r *raster) set(col, row int, ch rune, k ink) {
	if row < 0 || row >= r.h || col < 0 || col >= r.w {
		return
	}
	r.chars[row][col] = ch
	r.inks[row][col] = k
}

func (r *raster) draw(it scene.Item) {
	switch it.Kind {
	case scene.KindLine:
		r.drawLine(it)
	case scene.KindRect:
		k := inkModule
		if it.HasTag(schematic.TagGrid) {
			k = inkBorder
		}
		x0, y0 := r.toCell(it.Coords[0], it.Coords[1])
		x1, y1 := r.toCell(it.Coords[2], it.Coords[3])
		r.box(x0, y0, x1, y1, k, k == inkModule)
	case scene.KindOval:
		cx, cy := r.toCell((it.Coords[0]+it.Coords[2])/2, (it.Coords[1]+it.Coords[3])/2)
		switch {
		case it.HasTag(schematic.TagPreview):
			r.set(cx, cy, '◆', inkPreview)
		case it.HasTag(schematic.TagOutput):
			r.set(cx, cy, '●', inkOutput)
		default:
			r.set(cx, cy, '●', inkInput)
		}
	case scene.KindText:
		cx, cy := r.toCell(it.Coords[0], it.Coords[1])
		runes := []rune(it.Text)
		start := cx - len(runes)/2
		for i, ch := range runes {
			r.set(start+i, cy, ch, inkLabel)
		}
	}
}

// drawLine plots a polyline. Grid crosses collapse to a single dot.
func (r *raster) drawLine(it scene.Item) {
	if len(it.Coords) < 4 {
		return
	}
	if it.HasTag(schematic.TagGrid) {
		n := len(it.Coords)
		cx, cy := r.toCell((it.Coords[0]+it.Coords[n-2])/2, (it.Coords[1]+it.Coords[n-1])/2)
		r.set(cx, cy, '·', inkGrid)
		return
	}
	k := inkWire
	hz, vt := '─', '│'
	if it.HasTag(schematic.TagPreview) {
		k = inkPreview
		hz, vt = '┄', '┆'
	}
	for i := 0; i+3 < len(it.Coords); i += 2 {
		x0, y0 := r.toCell(it.Coords[i], it.Coords[i+1])
		x1, y1 := r.toCell(it.Coords[i+2], it.Coords[i+3])
		r.segment(x0, y0, x1, y1, hz, vt, k)
	}
}

// segment plots one straight run. Diagonal runs step along the longer axis.
func (r *raster) segment(x0, y0, x1, y1 int, hz, vt rune, k ink) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		r.set(x0, y0, '•', k)
		return
	}
	ch := '•'
	switch {
	case dy == 0:
		ch = hz
	case dx == 0:
		ch = vt
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(dx*i)/float64(steps)))
		y := y0 + int(math.Round(float64(dy*i)/float64(steps)))
		r.set(x, y, ch, k)
	}
}

// box draws a rectangle outline, filling the inside when fill is set.
func (r *raster) box(x0, y0, x1, y1 int, k ink, fill bool) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0 + 1; x < x1; x++ {
		r.set(x, y0, '─', k)
		r.set(x, y1, '─', k)
	}
	for y := y0 + 1; y < y1; y++ {
		r.set(x0, y, '│', k)
		r.set(x1, y, '│', k)
		if fill {
			for x := x0 + 1; x < x1; x++ {
				r.set(x, y, ' ', k)
			}
		}
	}
	r.set(x0, y0, '┌', k)
	r.set(x1, y0, '┐', k)
	r.set(x0, y1, '└', k)
	r.set(x1, y1, '┘', k)
}

// String renders the raster with styles, one terminal line per row.
func (r *raster) String() string {
	var b strings.Builder
	for y := range r.chars {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= r.w; x++ {
			if x < r.w && r.inks[y][x] == r.inks[y][start] {
				continue
			}
			run := string(r.chars[y][start:x])
			if st, ok := inkStyles[r.inks[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}

// Plain renders the raster without styles.
func (r *raster) Plain() string {
	lines := make([]string, r.h)
	for y, row := range r.chars {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
