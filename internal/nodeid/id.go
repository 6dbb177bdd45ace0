package nodeid

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is the unique, redo-stable identifier of a node. The zero value means
// "no node" and is used, for example, as the parent of the root network.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// New mints a fresh random identifier.
func New() ID {
	return ID(uuid.New())
}

// Parse decodes the canonical string form of an ID.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("invalid node id %q: %w", s, err)
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id == Nil
}

// String returns the canonical UUID representation.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight characters of the ID, for log output.
func (id ID) Short() string {
	return id.String()[:8]
}
