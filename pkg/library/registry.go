package library

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/hdl"
)

// File is the on-disk shape of a component file. TOML uses array tables
// named component and module; YAML and JSON use the plural keys.
type File struct {
	Components []Component   `json:"components,omitempty" yaml:"components,omitempty" toml:"component,omitempty"`
	Modules    []*hdl.Module `json:"modules,omitempty" yaml:"modules,omitempty" toml:"module,omitempty"`
}

// ModuleSource lists and fetches stored module definitions.
type ModuleSource interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*hdl.Module, error)
}

// Registry is a set of components keyed by name. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	comps map[string]Component
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{comps: make(map[string]Component)}
}

// WithBuiltins returns a registry holding the Builtin components.
func WithBuiltins() *Registry {
	r := NewRegistry()
	for _, c := range Builtin() {
		r.comps[c.Name] = c
	}
	return r
}

// Register validates c and adds it, replacing any component of the same name.
func (r *Registry) Register(c Component) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.comps[c.Name] = c
	r.mu.Unlock()
	return nil
}

// RegisterModule derives a component from m and registers it.
func (r *Registry) RegisterModule(m *hdl.Module) error {
	c, err := FromHDL(m)
	if err != nil {
		return err
	}
	return r.Register(c)
}

// Get returns the named component.
func (r *Registry) Get(name string) (Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comps[name]
	if !ok {
		return Component{}, errors.New(errors.ErrCodeComponentNotFound, "component %q is not loaded", name)
	}
	return c, nil
}

// Lookup returns the HDL definition behind a component, if it has one.
func (r *Registry) Lookup(name string) (*hdl.Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comps[name]
	if !ok || c.HDL == nil {
		return nil, false
	}
	return c.HDL, true
}

// Names returns the component names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.comps))
	for n := range r.comps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Components returns every component ordered by name.
func (r *Registry) Components() []Component {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(names))
	for _, n := range names {
		if c, ok := r.comps[n]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.comps)
}

var _ hdl.Resolver = (*Registry)(nil)

// =============================================================================
// Loading
// =============================================================================

// Supported component file extensions.
var fileExts = []string{".toml", ".yaml", ".yml", ".json"}

// ParseFile decodes a component file in the format named by ext.
func ParseFile(data []byte, ext string) (File, error) {
	var f File
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return File{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported component file type %q", ext)
	}
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s component file", ext)
	}
	return f, nil
}

// LoadFile registers every component and module in a component file and
// returns how many were added. Nothing is registered if any entry is invalid.
func (r *Registry) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "component file %s", path)
		}
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	f, err := ParseFile(data, filepath.Ext(path))
	if err != nil {
		return 0, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}

	comps := make([]Component, 0, len(f.Components)+len(f.Modules))
	for _, c := range f.Components {
		if err := c.Validate(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidComponent, err, "%s", path)
		}
		comps = append(comps, c)
	}
	for _, m := range f.Modules {
		c, err := FromHDL(m)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidComponent, err, "%s", path)
		}
		comps = append(comps, c)
	}

	r.mu.Lock()
	for _, c := range comps {
		r.comps[c.Name] = c
	}
	r.mu.Unlock()
	return len(comps), nil
}

// LoadDir loads every component file directly inside dir, in name order.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "library dir %s", dir)
		}
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}
	total := 0
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		n, err := r.LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// LoadStore registers a component for every module in src. Modules that
// are already registered by name are skipped, as are definitions that
// cannot become components.
func (r *Registry) LoadStore(ctx context.Context, src ModuleSource) (int, error) {
	names, err := src.List(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "list modules")
	}
	added := 0
	for _, name := range names {
		r.mu.RLock()
		_, loaded := r.comps[name]
		r.mu.RUnlock()
		if loaded {
			continue
		}
		m, err := src.Get(ctx, name)
		if err != nil {
			return added, errors.Wrap(errors.ErrCodeStore, err, "load module %s", name)
		}
		if err := r.RegisterModule(m); err != nil {
			continue
		}
		added++
	}
	return added, nil
}

// Export returns the registry contents as a component File.
func (r *Registry) Export() File {
	return File{Components: r.Components()}
}

// WriteFile writes f to path in the format named by its extension.
func WriteFile(path string, f File) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(f)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	case ".json":
		data, err = json.MarshalIndent(f, "", "  ")
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported component file type %q", filepath.Ext(path))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range fileExts {
		if ext == e {
			return true
		}
	}
	return false
}
