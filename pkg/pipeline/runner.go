package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/netlist"
	"github.com/matzehuels/gridwire/pkg/observability"
)

// Runner encapsulates render execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLNetlist and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render produces every requested format for g.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (result *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid graph")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	graphData, err := graph.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph: %w", err)
	}
	result = &Result{
		GraphHash: cache.Hash(graphData),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.Modules = len(g.Modules)
	result.Stats.Connections = len(g.Connections)

	// Stage 1: Netlist
	netStart := time.Now()
	nets, err := r.Netlist(ctx, g, result.GraphHash, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	result.Nets = nets
	result.Stats.Nets = len(nets)
	result.Stats.NetlistTime = time.Since(netStart)

	// Stage 2: Render
	renderStart := time.Now()
	hits := 0
	for _, format := range opts.Formats {
		data, hit, err := r.artifact(ctx, format, g, nets, result.GraphHash, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		if hit {
			hits++
		}
		result.Artifacts[format] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheHit = hits == len(opts.Formats)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"modules", result.Stats.Modules,
		"nets", result.Stats.Nets,
		"cached", hits,
		"duration", time.Since(start))

	return result, nil
}

// Netlist returns the nets of g, using the cache unless refresh is set.
func (r *Runner) Netlist(ctx context.Context, g graph.Graph, graphHash string, refresh bool) ([]netlist.Net, error) {
	key := r.Keyer.NetlistKey(graphHash)
	if !refresh {
		if data, err := cache.Load(ctx, r.Cache, key); err == nil {
			var nets []netlist.Net
			if err := json.Unmarshal(data, &nets); err == nil {
				observability.Cache().OnCacheHit(ctx, "netlist")
				return nets, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "netlist")
	}

	nets := netlist.Build(g)
	if data, err := json.Marshal(nets); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLNetlist)); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "netlist", len(data))
		}
	}
	return nets, nil
}

func (r *Runner) artifact(ctx context.Context, format string, g graph.Graph, nets []netlist.Net, graphHash string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
	if !opts.Refresh {
		if data, err := cache.Load(ctx, r.Cache, key); err == nil {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := RenderFormat(format, g, nets, opts)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
