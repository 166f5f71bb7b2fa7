package vm

import (
	"github.com/google/uuid"
)

// Anon is a handle on an anonymous object. Anonymous objects have no object
// number, so each handle carries a random identity instead; two Anon values
// are equal only when they refer to the same handle.
type Anon struct {
	header
	id uuid.UUID
}

// NewAnon creates a fresh anonymous object handle with a single reference.
func NewAnon() Value {
	heap.Anons++
	return Value{typ: TypeAnon, obj: &Anon{header: header{refs: 1}, id: uuid.New()}}
}

// Anon returns the anonymous object handle of v.
// Panics if v is not an anonymous object.
func (v Value) Anon() *Anon {
	if v.typ != TypeAnon {
		panic("Value.Anon: not an anonymous object")
	}
	return v.obj.(*Anon)
}

// ID returns the identity of the handle.
func (a *Anon) ID() uuid.UUID { return a.id }
