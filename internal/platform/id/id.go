package id

import "github.com/oklog/ulid/v2"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// ULID yields lexically sortable ids, handy when reading logs in order.
type ULID struct{}

func (ULID) New() string {
	return ulid.Make().String()
}
