package hdl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/matzehuels/gridwire/pkg/errors"
)

// Extension is the file extension used by WriteFile.
const Extension = ".v"

const verilogTemplate = `module {{.Name}} ({{range $i, $d := .Header}}{{if $i}},{{end}}
    {{$d}}{{end}}
);
{{- if .Wires}}
{{range .Wires}}
    {{.}};{{end}}{{end}}
{{- if .Body}}
{{range .Body}}
    {{.}}{{end}}{{end}}

endmodule
`

var verilog = template.Must(template.New("verilog").Parse(verilogTemplate))

type view struct {
	Name   string
	Header []string
	Wires  []string
	Body   []string
}

func newView(m *Module) view {
	v := view{Name: m.Name}
	for _, p := range m.Ports {
		if p.Direction.IsPort() {
			v.Header = append(v.Header, p.Declaration())
		} else {
			v.Wires = append(v.Wires, p.Declaration())
		}
	}
	for _, inst := range m.Submodules {
		v.Body = append(v.Body, instantiation(inst))
	}
	v.Body = append(v.Body, m.Logic...)
	return v
}

func instantiation(inst Instance) string {
	conns := make([]string, len(inst.Ports))
	for i, pm := range inst.Ports {
		conns[i] = "." + pm.Port + "(" + pm.Signal + ")"
	}
	return inst.Module + " " + inst.Name + "(" + strings.Join(conns, ", ") + ");"
}

// Emit validates m and writes its Verilog source to w.
func Emit(w io.Writer, m *Module) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := verilog.Execute(w, newView(m)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "emit %s", m.Name)
	}
	return nil
}

// Generate returns the Verilog source for m.
func Generate(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	if err := Emit(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes m to dir/<name>.v and returns the path.
func WriteFile(dir string, m *Module) (string, error) {
	src, err := Generate(m)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	path := filepath.Join(dir, m.Name+Extension)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return path, nil
}
