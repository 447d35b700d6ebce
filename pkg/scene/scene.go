package scene

import (
	"errors"
	"slices"
)

// ErrStaleHandle is returned for operations on a handle whose item no
// longer exists.
var ErrStaleHandle = errors.New("scene: stale handle")

// Handle identifies an item on a canvas.
type Handle int

// Kind is the primitive type of an item.
type Kind int

const (
	KindRect Kind = iota
	KindOval
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindOval:
		return "oval"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Style holds presentation attributes. Zero values mean "sink default".
type Style struct {
	Stroke string    // outline or line colour
	Fill   string    // fill colour, "" for none
	Width  float64   // stroke width
	Dash   []float64 // dash pattern for lines
	Size   float64   // font size for text
}

// Item is a snapshot of one display-list entry.
//
// Coords are x0,y0,x1,y1 for rectangles and ovals, a flat x,y sequence for
// lines, and a single x,y anchor (centre) for text.
type Item struct {
	Handle Handle
	Kind   Kind
	Coords []float64
	Text   string
	Style  Style
	Tags   []string
}

// HasTag reports whether the item carries tag.
func (it Item) HasTag(tag string) bool { return slices.Contains(it.Tags, tag) }

// Canvas is a retained display list.
type Canvas interface {
	CreateRect(x0, y0, x1, y1 float64, s Style, tags ...string) Handle
	CreateOval(x0, y0, x1, y1 float64, s Style, tags ...string) Handle
	CreateLine(coords []float64, s Style, tags ...string) Handle
	CreateText(x, y float64, text string, s Style, tags ...string) Handle

	SetCoords(h Handle, coords ...float64) error
	SetText(h Handle, text string) error
	Move(h Handle, dx, dy float64) error
	Delete(h Handle) error

	// DeleteTag removes every item carrying tag and returns how many were
	// removed.
	DeleteTag(tag string) int
	// Clear removes every item.
	Clear()

	Item(h Handle) (Item, bool)
	// Items returns live items in stacking order, bottom first.
	Items() []Item
}

// DisplayList is the in-memory Canvas implementation.
type DisplayList struct {
	next  Handle
	order []Handle
	items map[Handle]*Item
}

var _ Canvas = (*DisplayList)(nil)

// NewDisplayList returns an empty display list.
func NewDisplayList() *DisplayList {
	return &DisplayList{items: make(map[Handle]*Item)}
}

func (d *DisplayList) add(kind Kind, coords []float64, text string, s Style, tags []string) Handle {
	d.next++
	h := d.next
	d.items[h] = &Item{
		Handle: h,
		Kind:   kind,
		Coords: slices.Clone(coords),
		Text:   text,
		Style:  s,
		Tags:   slices.Clone(tags),
	}
	d.order = append(d.order, h)
	return h
}

func (d *DisplayList) CreateRect(x0, y0, x1, y1 float64, s Style, tags ...string) Handle {
	return d.add(KindRect, []float64{x0, y0, x1, y1}, "", s, tags)
}

func (d *DisplayList) CreateOval(x0, y0, x1, y1 float64, s Style, tags ...string) Handle {
	return d.add(KindOval, []float64{x0, y0, x1, y1}, "", s, tags)
}

func (d *DisplayList) CreateLine(coords []float64, s Style, tags ...string) Handle {
	return d.add(KindLine, coords, "", s, tags)
}

func (d *DisplayList) CreateText(x, y float64, text string, s Style, tags ...string) Handle {
	return d.add(KindText, []float64{x, y}, text, s, tags)
}

func (d *DisplayList) SetCoords(h Handle, coords ...float64) error {
	it, ok := d.items[h]
	if !ok {
		return ErrStaleHandle
	}
	it.Coords = slices.Clone(coords)
	return nil
}

func (d *DisplayList) SetText(h Handle, text string) error {
	it, ok := d.items[h]
	if !ok {
		return ErrStaleHandle
	}
	it.Text = text
	return nil
}

func (d *DisplayList) Move(h Handle, dx, dy float64) error {
	it, ok := d.items[h]
	if !ok {
		return ErrStaleHandle
	}
	for i := range it.Coords {
		if i%2 == 0 {
			it.Coords[i] += dx
		} else {
			it.Coords[i] += dy
		}
	}
	return nil
}

func (d *DisplayList) Delete(h Handle) error {
	if _, ok := d.items[h]; !ok {
		return ErrStaleHandle
	}
	delete(d.items, h)
	d.order = slices.DeleteFunc(d.order, func(o Handle) bool { return o == h })
	return nil
}

func (d *DisplayList) DeleteTag(tag string) int {
	n := 0
	d.order = slices.DeleteFunc(d.order, func(h Handle) bool {
		if d.items[h].HasTag(tag) {
			delete(d.items, h)
			n++
			return true
		}
		return false
	})
	return n
}

func (d *DisplayList) Clear() {
	clear(d.items)
	d.order = d.order[:0]
}

func (d *DisplayList) Item(h Handle) (Item, bool) {
	it, ok := d.items[h]
	if !ok {
		return Item{}, false
	}
	return cloneItem(it), true
}

func (d *DisplayList) Items() []Item {
	out := make([]Item, 0, len(d.order))
	for _, h := range d.order {
		out = append(out, cloneItem(d.items[h]))
	}
	return out
}

// Len returns the number of live items.
func (d *DisplayList) Len() int { return len(d.order) }

func cloneItem(it *Item) Item {
	c := *it
	c.Coords = slices.Clone(it.Coords)
	c.Tags = slices.Clone(it.Tags)
	c.Style.Dash = slices.Clone(it.Style.Dash)
	return c
}

// Bounds returns the bounding box of items, ignoring text extents.
// ok is false when there is nothing with coordinates.
func Bounds(items []Item) (x0, y0, x1, y1 float64, ok bool) {
	for _, it := range items {
		for i := 0; i+1 < len(it.Coords); i += 2 {
			x, y := it.Coords[i], it.Coords[i+1]
			if !ok {
				x0, y0, x1, y1, ok = x, y, x, y, true
				continue
			}
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
		}
	}
	return x0, y0, x1, y1, ok
}
