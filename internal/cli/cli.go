// Package cli implements the gridwire command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/buildinfo"
	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/session"
	"github.com/matzehuels/gridwire/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "gridwire"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Gridwire draws hardware schematics on a grid",
		Long:         `Gridwire is a grid-addressed schematic editor: place module symbols, route wires between grid vertices, and export the drawing as a connectivity graph, images or Verilog.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridwire/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.libCommand())
	root.AddCommand(c.hdlCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	// Renderer output can change between releases; keep their entries apart.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL, _ = cfg.CacheTTL()
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Cache.Dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// openModuleStore opens the configured HDL module store.
func (c *CLI) openModuleStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	switch cfg.Library.Store {
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.Library.Path)
	case config.BackendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return store.NewFileStore(cfg.Library.Path)
}

// openSessionStore opens the configured session store.
func (c *CLI) openSessionStore(ctx context.Context) (session.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Session.Store == config.BackendMongo {
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
	}
	return session.NewFileStore(cfg.Session.Dir)
}

// newRegistry builds the component registry: builtin gates, then every
// library file in the configured directories, then the module store.
// Unreachable library sources are logged and skipped.
func (c *CLI) newRegistry(ctx context.Context) (*library.Registry, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	reg := library.WithBuiltins()
	for _, dir := range cfg.Library.Dirs {
		n, err := reg.LoadDir(dir)
		if err != nil {
			if errors.IsNotFound(err) {
				c.Logger.Debug("library dir missing", "dir", dir)
				continue
			}
			return nil, err
		}
		c.Logger.Debug("loaded library dir", "dir", dir, "components", n)
	}

	st, err := c.openModuleStore(ctx)
	if err != nil {
		c.Logger.Warn("module store unavailable", "store", cfg.Library.Store, "err", err)
		return reg, nil
	}
	defer st.Close()
	n, err := reg.LoadStore(ctx, st)
	if err != nil {
		c.Logger.Warn("module store unreadable", "store", cfg.Library.Store, "err", err)
		return reg, nil
	}
	c.Logger.Debug("loaded module store", "store", cfg.Library.Store, "modules", n)
	return reg, nil
}

// =============================================================================
// Paths
// =============================================================================

// basePath derives the base output path from the output and input paths.
// If output is empty, the input extension is stripped. A known artifact
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest extensions sort last in pipeline.Formats.
	for i := len(pipeline.Formats) - 1; i >= 0; i-- {
		if ext := pipeline.Extension(pipeline.Formats[i]); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
