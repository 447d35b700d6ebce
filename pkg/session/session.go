// Package session stores named editing sessions: a saved drawing together
// with the cell size it was drawn at.
//
// Two backends are provided:
//   - file: one JSON document per session under the data directory
//   - mongo: a MongoDB collection, for the shared editing server
//
// # Usage
//
//	store, err := session.NewFileStore("") // ~/.local/share/gridwire/sessions
//	if err != nil {
//	    return err
//	}
//	sess := session.New("adder", grid.DefaultCell, surface.ExportGraph())
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // no such session
//	}
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gridwire/pkg/graph"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Session is a saved drawing.
type Session struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Cell      int         `json:"cell" bson:"cell"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// New creates a session with a fresh random ID.
func New(name string, cell int, g graph.Graph) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Cell:      cell,
		Graph:     g,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update replaces the drawing and bumps UpdatedAt.
func (s *Session) Update(g graph.Graph) {
	s.Graph = g
	s.UpdatedAt = time.Now().UTC()
}

// ShortID returns the first block of the ID, as shown in listings.
func (s *Session) ShortID() string {
	id, _, _ := strings.Cut(s.ID, "-")
	return id
}

// ValidateID reports whether id is a well-formed session ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns an error wrapping
	// ErrNotFound if the session doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Close releases backend resources.
	Close() error
}

// Resolve finds a session by full ID or by an unambiguous ID prefix.
func Resolve(ctx context.Context, store Store, ref string) (*Session, error) {
	if ValidateID(ref) == nil {
		return store.Get(ctx, ref)
	}
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *Session
	for _, s := range all {
		if !strings.HasPrefix(s.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("session id prefix %q is ambiguous", ref)
		}
		match = s
	}
	if match == nil {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return match, nil
}

func sortSessions(all []*Session) {
	slices.SortFunc(all, func(a, b *Session) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func validate(sess *Session) error {
	if sess == nil {
		return errors.New("nil session")
	}
	if err := ValidateID(sess.ID); err != nil {
		return err
	}
	return sess.Graph.Validate()
}
