package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/hdl"
)

// hdlCommand creates the hdl command for printing library module Verilog.
func (c *CLI) hdlCommand() *cobra.Command {
	var (
		outDir string
		deps   bool
	)

	cmd := &cobra.Command{
		Use:   "hdl <module>",
		Short: "Print the Verilog of a library module",
		Long: `Print the Verilog source of a library module.

With --output, the source is written to <dir>/<module>.v instead. With
--deps, every module it instantiates is emitted too.`,
		Example: `  gridwire hdl and_gate
  gridwire hdl half_adder --deps -o rtl/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry(cmd.Context())
			if err != nil {
				return err
			}
			m, ok := reg.Lookup(args[0])
			if !ok {
				if _, err := reg.Get(args[0]); err != nil {
					return err
				}
				return errors.New(errors.ErrCodeModuleNotFound, "component %q has no HDL", args[0])
			}

			mods := []*hdl.Module{m}
			if deps {
				for _, name := range m.SubmoduleNames(reg) {
					sub, ok := reg.Lookup(name)
					if !ok {
						return errors.New(errors.ErrCodeModuleNotFound, "%s instantiates unknown module %q", m.Name, name)
					}
					mods = append(mods, sub)
				}
			}

			if outDir == "" {
				for i, mod := range mods {
					if i > 0 {
						fmt.Println()
					}
					if err := hdl.Emit(os.Stdout, mod); err != nil {
						return err
					}
				}
				return nil
			}

			for _, mod := range mods {
				path, err := hdl.WriteFile(outDir, mod)
				if err != nil {
					return err
				}
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write <module>.v files into this directory")
	cmd.Flags().BoolVar(&deps, "deps", false, "include instantiated submodules")

	return cmd
}
