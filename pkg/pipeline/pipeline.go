// Package pipeline renders an exported schematic into output artifacts.
//
// This package is shared by the CLI render command and the HTTP editing
// server so both produce identical bytes for the same drawing and options,
// and share one artifact cache.
//
// # Architecture
//
// A render run has two stages:
//
//  1. Netlist: derive nets from the graph (cached per graph hash)
//  2. Render: produce each requested format (cached per graph hash and
//     format options)
//
// Supported formats:
//
//   - svg, png: the board as drawn in the editor
//   - json: the normalized graph document
//   - dot: Graphviz source of the connectivity diagram
//   - nodelink: the connectivity diagram rendered to SVG
//   - verilog: a top-level module instancing every placed module
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, g, pipeline.Options{
//	    Formats: []string{"svg", "verilog"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/hdl"
	"github.com/matzehuels/gridwire/pkg/netlist"
	"github.com/matzehuels/gridwire/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTop names the synthesized Verilog module.
	DefaultTop = "top"

	// DefaultScale is the PNG pixel density.
	DefaultScale = render.DefaultScale
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
	FormatVerilog  = "verilog"
)

// Formats lists every supported format in canonical order.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatNodelink, FormatVerilog}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch format {
	case FormatNodelink:
		return ".nodelink.svg"
	case FormatVerilog:
		return hdl.Extension
	case FormatDOT:
		return ".dot"
	}
	return "." + format
}

// ContentType returns the MIME type of an artifact.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatNodelink:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// =============================================================================
// Options
// =============================================================================

// Options configures a render run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats  []string `json:"formats,omitempty"`
	Cell     int      `json:"cell,omitempty"`     // board cell size the graph was drawn with
	Columns  int      `json:"columns,omitempty"`  // minimum board width in cells
	Rows     int      `json:"rows,omitempty"`     // minimum board height in cells
	Scale    float64  `json:"scale,omitempty"`    // PNG pixel density
	Top      string   `json:"top,omitempty"`      // Verilog top module name
	Detailed bool     `json:"detailed,omitempty"` // pin detail in dot and nodelink
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached artifacts

	// Runtime options (not serialized)
	Resolver hdl.Resolver `json:"-"` // checks Verilog instance ports when set
	Logger   *log.Logger  `json:"-"`
}

// Result contains the outputs of a render run.
type Result struct {
	// GraphHash is the content hash of the normalized graph.
	GraphHash string

	// Nets are the nets derived from the graph.
	Nets []netlist.Net

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timing.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains render statistics.
type Stats struct {
	Modules     int
	Connections int
	Nets        int
	NetlistTime time.Duration
	RenderTime  time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Cell <= 0 {
		o.Cell = grid.DefaultCell
	}
	if o.Columns < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "board size cannot be negative")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative: %v", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Top == "" {
		o.Top = DefaultTop
	}
	if err := errors.ValidateModuleName(o.Top); err != nil {
		return fmt.Errorf("top module: %w", err)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format. Options that
// do not affect the format are left zero so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Cell, k.Columns, k.Rows = o.Cell, o.Columns, o.Rows
	case FormatPNG:
		k.Cell, k.Columns, k.Rows = o.Cell, o.Columns, o.Rows
		k.Scale = o.Scale
	case FormatDOT, FormatNodelink:
		k.Detailed = o.Detailed
	case FormatVerilog:
		k.Top = o.Top
	}
	return k
}
