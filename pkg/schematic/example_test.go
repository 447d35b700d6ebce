package schematic_test

import (
	"fmt"

	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

func ExampleSurface_CommitRoute() {
	s := schematic.New(schematic.Options{Cell: 40})
	a := s.AddModule(schematic.ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0)})
	b := s.AddModule(schematic.ModuleSpec{Name: "B", Anchor: grid.Pt(160, 0)})

	w, _ := s.CommitRoute([]grid.Point{
		a.PinPosition(schematic.DefaultOutputPin),
		b.PinPosition(schematic.DefaultInputPin),
	})
	fmt.Println(w.ID(), w.Nodes())

	// A second route sharing a vertex extends the same wire.
	s.CommitRoute([]grid.Point{grid.Pt(160, 40), grid.Pt(300, 100)})
	fmt.Println(len(s.Wires()), w.Nodes())
	// Output:
	// 1003 [(80,40) (160,40)]
	// 1 [(80,40) (160,40) (320,120)]
}

func ExampleSurface_DeleteAt() {
	s := schematic.New(schematic.Options{Cell: 40})
	a := s.AddModule(schematic.ModuleSpec{Name: "A"})
	s.CommitRoute([]grid.Point{a.PinPosition("right"), grid.Pt(200, 40)})

	r := s.DeleteAt(40, 20)
	fmt.Println(r.ModuleID, r.WireIDs, len(s.Wires()))
	// Output:
	// 1001 [1002] 0
}
