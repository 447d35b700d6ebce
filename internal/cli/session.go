package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage saved editing sessions",
		Long: `Manage saved editing sessions.

Sessions are written by "gridwire edit --session" and the HTTP server. A
session can be named by its full ID or any unambiguous prefix.`,
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDeleteCommand())

	return cmd
}

// sessionListCommand creates the "session list" subcommand.
func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved sessions, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			all, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				printInfo("No saved sessions")
				printNextStep("Start one with", "gridwire edit --session new")
				return nil
			}

			rows := make([][]string, 0, len(all))
			for _, s := range all {
				rows = append(rows, []string{
					s.ShortID(),
					s.Name,
					strconv.Itoa(len(s.Graph.Modules)),
					strconv.Itoa(len(s.Graph.Connections)),
					formatTime(s.UpdatedAt),
				})
			}
			fmt.Println(renderTable([]string{"ID", "NAME", "MODULES", "WIRES", "UPDATED"}, rows))
			return nil
		},
	}
}

// sessionShowCommand creates the "session show" subcommand.
func (c *CLI) sessionShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a session, optionally exporting its graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := session.Resolve(ctx, st, args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(s.Name))
			printKeyValue("ID", s.ID)
			printKeyValue("Cell", strconv.Itoa(s.Cell))
			printKeyValue("Modules", strconv.Itoa(len(s.Graph.Modules)))
			printKeyValue("Wires", strconv.Itoa(len(s.Graph.Connections)))
			printKeyValue("Created", formatTime(s.CreatedAt))
			printKeyValue("Updated", formatTime(s.UpdatedAt))

			if output != "" {
				if err := graph.WriteFile(s.Graph, output); err != nil {
					return err
				}
				printNewline()
				printFile(output)
				printNextStep("Render it with", "gridwire render "+output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the session graph to this file")
	return cmd
}

// sessionDeleteCommand creates the "session delete" subcommand.
func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := session.Resolve(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.Delete(ctx, s.ID); err != nil {
				return err
			}
			printSuccess("Deleted session %s (%s)", s.ShortID(), s.Name)
			return nil
		},
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
