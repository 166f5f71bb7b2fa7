package vm

import (
	"math"
)

// Value represents a MOO value.
//
// A Value is a small tagged union. Scalar variants carry their payload
// inline; the string, list, map and anonymous variants point at a
// reference-counted heap object. Copying a Value does not touch any
// reference count: use Ref to take a new reference and Release to drop one.
//
// Layout:
//   - Int, Obj, Err: payload in n
//   - Float: IEEE 754 bits in n
//   - Str, List, Map, Anon: heap object in obj
type Value struct {
	typ Type
	n   int64
	obj object
}

// Type is the MOO type code of a value. The numeric codes match the ones
// returned by typeof() in the server.
type Type uint8

const (
	TypeInt   Type = 0
	TypeObj   Type = 1
	TypeStr   Type = 2
	TypeErr   Type = 3
	TypeList  Type = 4
	TypeFloat Type = 9
	TypeMap   Type = 10
	TypeAnon  Type = 12
)

// Objid is a database object number.
type Objid int64

// Well-known object numbers.
const (
	Nothing        Objid = -1
	AmbiguousMatch Objid = -2
	FailedMatch    Objid = -3
)

var typeNames = map[Type]string{
	TypeInt:   "INT",
	TypeObj:   "OBJ",
	TypeStr:   "STR",
	TypeErr:   "ERR",
	TypeList:  "LIST",
	TypeFloat: "FLOAT",
	TypeMap:   "MAP",
	TypeAnon:  "ANON",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ---------------------------------------------------------------------------
// Heap object header
// ---------------------------------------------------------------------------

// header holds the reference count shared by every heap variant.
// Counts are plain ints: values are only ever touched by one task at a time.
type header struct {
	refs int
}

func (h *header) hdr() *header { return h }

type object interface {
	hdr() *header
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Type returns the MOO type code of v.
func (v Value) Type() Type { return v.typ }

func (v Value) IsInt() bool   { return v.typ == TypeInt }
func (v Value) IsObj() bool   { return v.typ == TypeObj }
func (v Value) IsStr() bool   { return v.typ == TypeStr }
func (v Value) IsErr() bool   { return v.typ == TypeErr }
func (v Value) IsList() bool  { return v.typ == TypeList }
func (v Value) IsFloat() bool { return v.typ == TypeFloat }
func (v Value) IsMap() bool   { return v.typ == TypeMap }
func (v Value) IsAnon() bool  { return v.typ == TypeAnon }

// ---------------------------------------------------------------------------
// Scalar constructors and accessors
// ---------------------------------------------------------------------------

// Int creates an integer value.
func Int(n int64) Value {
	return Value{typ: TypeInt, n: n}
}

// Float creates a floating-point value.
func Float(f float64) Value {
	return Value{typ: TypeFloat, n: int64(math.Float64bits(f))}
}

// Obj creates an object reference.
func Obj(id Objid) Value {
	return Value{typ: TypeObj, n: int64(id)}
}

// Err creates an error value.
func Err(code ErrorCode) Value {
	return Value{typ: TypeErr, n: int64(code)}
}

// Int returns v as an int64.
// Panics if v is not an integer.
func (v Value) Int() int64 {
	if v.typ != TypeInt {
		panic("Value.Int: not an integer")
	}
	return v.n
}

// Float64 returns v as a float64.
// Panics if v is not a float.
func (v Value) Float64() float64 {
	if v.typ != TypeFloat {
		panic("Value.Float64: not a float")
	}
	return math.Float64frombits(uint64(v.n))
}

// ObjID returns the object number of v.
// Panics if v is not an object reference.
func (v Value) ObjID() Objid {
	if v.typ != TypeObj {
		panic("Value.ObjID: not an object")
	}
	return Objid(v.n)
}

// ErrCode returns the error code of v.
// Panics if v is not an error.
func (v Value) ErrCode() ErrorCode {
	if v.typ != TypeErr {
		panic("Value.ErrCode: not an error")
	}
	return ErrorCode(v.n)
}

// ---------------------------------------------------------------------------
// Truthiness
// ---------------------------------------------------------------------------

// IsTrue reports whether v counts as true in a MOO conditional.
// Non-zero numbers and non-empty strings, lists and maps are true;
// objects, errors and anonymous objects are always false.
func (v Value) IsTrue() bool {
	switch v.typ {
	case TypeInt:
		return v.n != 0
	case TypeFloat:
		return v.Float64() != 0
	case TypeStr:
		return v.StrLen() > 0
	case TypeList:
		return v.List().Len() > 0
	case TypeMap:
		return v.Map().Len() > 0
	default:
		return false
	}
}
