package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/hdl"
	"github.com/matzehuels/gridwire/pkg/httputil"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// libCommand creates the component library command.
func (c *CLI) libCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lib",
		Short: "Inspect and extend the component library",
		Long: `Inspect and extend the component library.

Components come from the builtin gates, every .toml, .yaml or .json file in
the configured library directories, and the module store.`,
	}

	cmd.AddCommand(c.libListCommand())
	cmd.AddCommand(c.libShowCommand())
	cmd.AddCommand(c.libInitCommand())
	cmd.AddCommand(c.libImportCommand())

	return cmd
}

// libListCommand creates the "lib list" subcommand.
func (c *CLI) libListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List placeable components",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry(cmd.Context())
			if err != nil {
				return err
			}
			comps := reg.Components()
			rows := make([][]string, 0, len(comps))
			for _, comp := range comps {
				ins, outs := pinCounts(comp)
				rows = append(rows, []string{
					comp.Name,
					fmt.Sprintf("%dx%d", comp.SpanW, comp.SpanH),
					strconv.Itoa(ins),
					strconv.Itoa(outs),
					yesNo(comp.HDL != nil),
				})
			}
			fmt.Println(renderTable([]string{"NAME", "SPAN", "IN", "OUT", "HDL"}, rows))
			printDetail("%d components", len(comps))
			return nil
		},
	}
}

// libShowCommand creates the "lib show" subcommand.
func (c *CLI) libShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <component>",
		Short: "Show a component's size and pins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry(cmd.Context())
			if err != nil {
				return err
			}
			comp, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(comp.Name))
			printKeyValue("Span", fmt.Sprintf("%d x %d cells", comp.SpanW, comp.SpanH))
			if comp.HDL != nil {
				printKeyValue("Logic", strconv.Itoa(len(comp.HDL.Logic))+" lines")
				if subs := comp.HDL.SubmoduleNames(reg); len(subs) > 0 {
					printKeyValue("Uses", strings.Join(subs, ", "))
				}
			}
			printNewline()

			rows := make([][]string, 0, len(comp.Pins))
			for _, p := range comp.Pins {
				rows = append(rows, []string{p.Name, p.Direction, strconv.Itoa(p.Col), strconv.Itoa(p.Row)})
			}
			if len(rows) > 0 {
				fmt.Println(renderTable([]string{"PIN", "DIR", "COL", "ROW"}, rows))
			} else {
				printDetail("default pins: in (left edge), out (right edge)")
			}
			if comp.HDL != nil {
				printNewline()
				printNextStep("Verilog", "gridwire hdl "+comp.Name)
			}
			return nil
		},
	}
}

// libInitCommand creates the "lib init" subcommand.
func (c *CLI) libInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write an example component file",
		Long: `Write an example component file to start a library from.

The format follows the extension: .toml (default), .yaml or .json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "components.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := library.WriteFile(path, exampleLibrary()); err != nil {
				return err
			}
			printSuccess("Wrote example library")
			printFile(path)
			printNextStep("Use it by adding its directory to [library] dirs in", "gridwire config path")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// exampleLibrary is a half adder built from the builtin gates plus a
// hand-pinned register symbol.
func exampleLibrary() library.File {
	ha := hdl.New("half_adder")
	ha.AddPort(hdl.Port{Name: "a", Direction: hdl.Input})
	ha.AddPort(hdl.Port{Name: "b", Direction: hdl.Input})
	ha.AddPort(hdl.Port{Name: "sum", Direction: hdl.Output})
	ha.AddPort(hdl.Port{Name: "carry", Direction: hdl.Output})
	ha.AddInstance(hdl.Instance{Name: "x0", Module: "xor_gate", Ports: []hdl.PortMap{
		{Port: "a", Signal: "a"}, {Port: "b", Signal: "b"}, {Port: "y", Signal: "sum"},
	}})
	ha.AddInstance(hdl.Instance{Name: "a0", Module: "and_gate", Ports: []hdl.PortMap{
		{Port: "a", Signal: "a"}, {Port: "b", Signal: "b"}, {Port: "y", Signal: "carry"},
	}})

	return library.File{
		Components: []library.Component{{
			Name:  "register",
			SpanW: 3,
			SpanH: 4,
			Pins: []library.PinDef{
				{Name: "d", Direction: string(schematic.Input), Col: 0, Row: 1},
				{Name: "clk", Direction: string(schematic.Input), Col: 0, Row: 3},
				{Name: "q", Direction: string(schematic.Output), Col: 3, Row: 1},
			},
		}},
		Modules: []*hdl.Module{ha},
	}
}

// libImportCommand creates the "lib import" subcommand.
func (c *CLI) libImportCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Store the modules of a component file",
		Long: `Store every HDL module of a component file in the module store.

The source may be a local path or an http(s) URL. Fetched files are cached.
Components without HDL cannot be stored; keep their file in a library
directory instead.`,
		Example: `  gridwire lib import adders.toml
  gridwire lib import https://example.com/gates.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLibImport(cmd.Context(), args[0], refresh)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the download cache")
	return cmd
}

func (c *CLI) runLibImport(ctx context.Context, src string, refresh bool) error {
	logger := loggerFromContext(ctx)

	data, ext, err := c.readLibrarySource(ctx, src, refresh)
	if err != nil {
		return err
	}
	f, err := library.ParseFile(data, ext)
	if err != nil {
		return err
	}

	mods, skipped, err := importableModules(f)
	if err != nil {
		return err
	}
	if len(mods) == 0 {
		printWarning("No HDL modules in %s", src)
		return nil
	}

	st, err := c.openModuleStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, m := range mods {
		if err := st.Put(ctx, m); err != nil {
			return fmt.Errorf("store %s: %w", m.Name, err)
		}
		logger.Debug("stored module", "name", m.Name)
	}

	printSuccess("Imported %d module(s) from %s", len(mods), src)
	for _, m := range mods {
		printDetail("%s", m.Name)
	}
	if skipped > 0 {
		printWarning("Skipped %d component(s) without HDL", skipped)
	}
	return nil
}

// importableModules collects the modules of f, including those attached
// to components. Every module must be a valid component.
func importableModules(f library.File) ([]*hdl.Module, int, error) {
	var mods []*hdl.Module
	skipped := 0
	for _, comp := range f.Components {
		if comp.HDL == nil {
			skipped++
			continue
		}
		mods = append(mods, comp.HDL)
	}
	mods = append(mods, f.Modules...)
	for _, m := range mods {
		if _, err := library.FromHDL(m); err != nil {
			return nil, 0, err
		}
	}
	return mods, skipped, nil
}

// readLibrarySource returns the bytes and extension of a local file or URL.
func (c *CLI) readLibrarySource(ctx context.Context, src string, refresh bool) ([]byte, string, error) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", src, err)
		}
		return data, filepath.Ext(src), nil
	}

	cfg, err := c.config()
	if err != nil {
		return nil, "", err
	}
	ttl, _ := cfg.CacheTTL()
	client, err := httputil.NewClient(filepath.Join(cfg.Cache.Dir, "http"), ttl)
	if err != nil {
		return nil, "", err
	}
	if refresh {
		_ = client.Cache.Delete(src)
	}

	spinner := newSpinnerWithContext(ctx, "Fetching "+src+"...")
	spinner.Start()
	data, hit, err := client.Get(ctx, src)
	spinner.Stop()
	if err != nil {
		return nil, "", err
	}
	loggerFromContext(ctx).Debug("fetched library", "url", src, "bytes", len(data), "cached", hit)
	return data, path.Ext(u.Path), nil
}

func pinCounts(comp library.Component) (ins, outs int) {
	if len(comp.Pins) == 0 {
		return 1, 1
	}
	for _, p := range comp.Pins {
		if p.Direction == string(schematic.Output) {
			outs++
		} else {
			ins++
		}
	}
	return ins, outs
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
