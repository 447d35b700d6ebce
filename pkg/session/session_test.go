package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
)

func drawing() graph.Graph {
	return graph.Graph{
		Modules: []graph.Module{{
			UUID: 1001, Name: "A", GridW: 2, GridH: 1,
			Pins: []graph.Pin{
				{Name: "left", Type: graph.PinInput, Pos: grid.Pt(0, 40)},
				{Name: "right", Type: graph.PinOutput, Pos: grid.Pt(80, 40)},
			},
		}},
		Connections: []graph.Connection{
			{UUID: 1002, Nodes: []grid.Point{grid.Pt(80, 40), grid.Pt(160, 40)}},
		},
	}
}

func TestNew(t *testing.T) {
	s := New("adder", 40, drawing())
	if err := ValidateID(s.ID); err != nil {
		t.Fatal(err)
	}
	if s.Name != "adder" || s.Cell != 40 || len(s.Graph.Modules) != 1 {
		t.Errorf("New() = %+v", s)
	}
	if !s.CreatedAt.Equal(s.UpdatedAt) {
		t.Error("fresh session should have CreatedAt == UpdatedAt")
	}
	if len(s.ShortID()) != 8 {
		t.Errorf("ShortID() = %q", s.ShortID())
	}

	before := s.UpdatedAt
	time.Sleep(time.Millisecond)
	s.Update(graph.Graph{})
	if !s.UpdatedAt.After(before) || len(s.Graph.Modules) != 0 {
		t.Error("Update() did not replace the drawing")
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	a := New("first", 40, drawing())
	b := New("second", 20, graph.Graph{})
	b.UpdatedAt = a.UpdatedAt.Add(time.Minute)

	t.Run("Missing", func(t *testing.T) {
		if _, err := store.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := store.Set(ctx, a); err != nil {
			t.Fatal(err)
		}
		got, err := store.Get(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "first" || got.Cell != 40 {
			t.Errorf("Get() = %+v", got)
		}
		if len(got.Graph.Connections) != 1 || got.Graph.Connections[0].Nodes[1] != grid.Pt(160, 40) {
			t.Errorf("graph did not round-trip: %+v", got.Graph)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Set(ctx, b); err != nil {
			t.Fatal(err)
		}
		all, err := store.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 || all[0].ID != b.ID || all[1].ID != a.ID {
			t.Errorf("List() order wrong: %v", all)
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		got, err := Resolve(ctx, store, a.ID[:8])
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != a.ID {
			t.Errorf("Resolve() = %s, want %s", got.ID, a.ID)
		}
		if _, err := Resolve(ctx, store, "zzzz"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(zzzz) error = %v", err)
		}
		if _, err := Resolve(ctx, store, ""); err == nil {
			t.Error("empty prefix should be ambiguous")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		a.Name = "renamed"
		if err := store.Set(ctx, a); err != nil {
			t.Fatal(err)
		}
		got, err := store.Get(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "renamed" {
			t.Errorf("Name = %q", got.Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, a.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v", err)
		}
		if err := store.Delete(ctx, a.ID); err != nil {
			t.Errorf("second Delete() error = %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if _, err := store.Get(ctx, "../escape"); err == nil {
			t.Error("Get accepted a malformed id")
		}
		bad := New("bad", 40, drawing())
		bad.Graph.Connections[0].UUID = 1001
		if err := store.Set(ctx, bad); err == nil {
			t.Error("Set accepted a graph with duplicate ids")
		}
		if err := store.Set(ctx, nil); err == nil {
			t.Error("Set accepted nil")
		}
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if store.Path() != dir {
		t.Errorf("Path() = %s", store.Path())
	}
	testStore(t, store)
}

func TestFileStoreSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600)
	if err := store.Set(context.Background(), New("ok", 40, graph.Graph{})); err != nil {
		t.Fatal(err)
	}
	all, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "ok" {
		t.Errorf("List() = %v", all)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("GRIDWIRE_TEST_MONGO")
	if uri == "" {
		t.Skip("GRIDWIRE_TEST_MONGO not set")
	}
	ctx := context.Background()
	store, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "gridwire_test",
		Collection: fmt.Sprintf("sessions_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		store.coll.Drop(ctx)
		store.Close()
	}()
	testStore(t, store)
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("NewMongoStore accepted an empty uri")
	}
}
