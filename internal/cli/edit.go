package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/editor"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/schematic"
	"github.com/matzehuels/gridwire/pkg/session"
)

// newSessionRef asks edit to start a fresh session.
const newSessionRef = "new"

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	output  string // graph file written by "s"
	session string // session id, prefix, or "new"
	name    string // name of a new session
}

// editCommand creates the interactive terminal editor command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [graph.json]",
		Short: "Draw a schematic in the terminal",
		Long: `Draw a schematic in the terminal with the mouse.

Left click places, connects, deletes or drags depending on the mode; right
click drops a default module in normal mode. A graph file that does not exist
yet is created on first save.`,
		Example: `  gridwire edit adder.json
  gridwire edit --session new --name adder
  gridwire edit --session 3f2a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runEdit(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "save to this file (default: the input file)")
	cmd.Flags().StringVar(&opts.session, "session", "", `open a saved session by id, or "new"`)
	cmd.Flags().StringVar(&opts.name, "name", "untitled", "name of a new session")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input string, opts editOpts) error {
	if input != "" && opts.session != "" {
		return errors.New(errors.ErrCodeInvalidInput, "give either a graph file or --session, not both")
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	reg, err := c.newRegistry(ctx)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; entity logs are dropped.
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	surface := schematic.New(schematic.Options{
		Cell:      cfg.Grid.Cell,
		Columns:   cfg.Grid.Columns,
		Rows:      cfg.Grid.Rows,
		Tolerance: cfg.Wire.Tolerance,
		Logger:    quiet,
	})
	ctrl := editor.New(surface, editor.Options{Logger: quiet})

	title := appName
	var save SaveFunc
	switch {
	case opts.session != "":
		st, err := c.openSessionStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		sess, err := c.openEditSession(ctx, st, opts, surface)
		if err != nil {
			return err
		}
		title = sess.Name
		save = sessionSaver(ctx, st, sess, cfg.Grid.Cell)
	default:
		path := opts.output
		if path == "" {
			path = input
		}
		if input != "" {
			if err := loadGraphFile(surface, input); err != nil {
				return err
			}
			title = filepath.Base(input)
		}
		if path != "" {
			save = fileSaver(path)
		}
	}

	model := NewEditorModel(ctrl, reg.Components(), title, save)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(EditorModel); ok && m.Dirty() {
		printWarning("Quit with unsaved changes")
	}
	return nil
}

// openEditSession resolves opts.session, or starts an empty session when
// it is "new". Existing sessions are loaded into surface.
func (c *CLI) openEditSession(ctx context.Context, st session.Store, opts editOpts, surface *schematic.Surface) (*session.Session, error) {
	if opts.session == newSessionRef {
		return session.New(opts.name, surface.Grid().Cell, graph.Graph{}), nil
	}
	sess, err := session.Resolve(ctx, st, opts.session)
	if err != nil {
		return nil, err
	}
	if sess.Cell != surface.Grid().Cell {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "session %s was drawn on a %d px grid, config uses %d", sess.ShortID(), sess.Cell, surface.Grid().Cell)
	}
	if err := surface.LoadGraph(sess.Graph); err != nil {
		return nil, err
	}
	return sess, nil
}

// loadGraphFile loads path into surface. A missing file is a new drawing.
func loadGraphFile(surface *schematic.Surface, path string) error {
	g, err := graph.ReadFile(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil
		}
		return err
	}
	return surface.LoadGraph(g)
}

func fileSaver(path string) SaveFunc {
	return func(g graph.Graph) (string, error) {
		if err := graph.WriteFile(g, path); err != nil {
			return "", err
		}
		return path, nil
	}
}

func sessionSaver(ctx context.Context, st session.Store, sess *session.Session, cell int) SaveFunc {
	return func(g graph.Graph) (string, error) {
		sess.Cell = cell
		sess.Update(g)
		if err := st.Set(ctx, sess); err != nil {
			return "", err
		}
		return "session " + sess.ShortID(), nil
	}
}
