package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/server"
	"github.com/matzehuels/gridwire/pkg/session"
)

// serveCommand creates the serve command for the HTTP editing API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		noSessions bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editing API over HTTP",
		Long: `Serve one shared schematic over a JSON HTTP API.

Clients send pointer gestures and mode switches, fetch the drawing as SVG,
export artifacts and save sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noSessions, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noSessions, "no-sessions", false, "disable the session routes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noSessions, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	reg, err := c.newRegistry(ctx)
	if err != nil {
		return err
	}

	var sessions session.Store
	if !noSessions {
		sessions, err = c.openSessionStore(ctx)
		if err != nil {
			return err
		}
		defer sessions.Close()
	}

	srv := server.New(server.Options{
		Cell:      cfg.Grid.Cell,
		Columns:   cfg.Grid.Columns,
		Rows:      cfg.Grid.Rows,
		Tolerance: cfg.Wire.Tolerance,
		Registry:  reg,
		Runner:    runner,
		Sessions:  sessions,
		Logger:    c.Logger,
	})

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("%d components, sessions: %s", reg.Len(), sessionBackend(sessions, cfg.Session.Store))
	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func sessionBackend(st session.Store, name string) string {
	if st == nil {
		return "off"
	}
	return name
}
