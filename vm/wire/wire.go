// Package wire encodes values as canonical CBOR, for snapshots and for
// passing values between processes.
package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/moocore/vm"
)

// ErrAnon is returned when encoding an anonymous object, which has no
// identity outside the process that created it.
var ErrAnon = errors.New("wire: anonymous objects cannot be encoded")

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// wireValue is the encoded form of a value. Exactly one payload field is
// set, selected by Type; map entries are stored as alternating keys and
// values in key order.
type wireValue struct {
	Type  vm.Type     `cbor:"1,keyasint"`
	Int   int64       `cbor:"2,keyasint,omitempty"`
	Float float64     `cbor:"3,keyasint,omitempty"`
	Str   string      `cbor:"4,keyasint,omitempty"`
	Elems []wireValue `cbor:"5,keyasint,omitempty"`
}

// MarshalValue encodes v. v is borrowed.
func MarshalValue(v vm.Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(w)
}

// UnmarshalValue decodes a value produced by MarshalValue. The caller owns
// the result.
func UnmarshalValue(data []byte) (vm.Value, error) {
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return vm.Value{}, fmt.Errorf("wire: unmarshal value: %w", err)
	}
	return fromWire(&w)
}

func toWire(v vm.Value) (wireValue, error) {
	w := wireValue{Type: v.Type()}
	switch v.Type() {
	case vm.TypeInt:
		w.Int = v.Int()
	case vm.TypeObj:
		w.Int = int64(v.ObjID())
	case vm.TypeErr:
		w.Int = int64(v.ErrCode())
	case vm.TypeFloat:
		w.Float = v.Float64()
	case vm.TypeStr:
		w.Str = v.Str()
	case vm.TypeList:
		w.Elems = make([]wireValue, 0, vm.ListLength(v))
		for _, elem := range v.List().Elements() {
			ew, err := toWire(elem)
			if err != nil {
				return wireValue{}, err
			}
			w.Elems = append(w.Elems, ew)
		}
	case vm.TypeMap:
		var err error
		vm.MapForEach(v, func(key, value vm.Value, first bool) int {
			var kw, vw wireValue
			if kw, err = toWire(key); err != nil {
				return 1
			}
			if vw, err = toWire(value); err != nil {
				return 1
			}
			w.Elems = append(w.Elems, kw, vw)
			return 0
		})
		if err != nil {
			return wireValue{}, err
		}
	case vm.TypeAnon:
		return wireValue{}, ErrAnon
	default:
		return wireValue{}, fmt.Errorf("wire: cannot encode value of type %v", v.Type())
	}
	return w, nil
}

func fromWire(w *wireValue) (vm.Value, error) {
	switch w.Type {
	case vm.TypeInt:
		return vm.Int(w.Int), nil
	case vm.TypeObj:
		return vm.Obj(vm.Objid(w.Int)), nil
	case vm.TypeErr:
		code := vm.ErrorCode(w.Int)
		if !code.Valid() {
			return vm.Value{}, fmt.Errorf("wire: unknown error code %d", w.Int)
		}
		return vm.Err(code), nil
	case vm.TypeFloat:
		return vm.Float(w.Float), nil
	case vm.TypeStr:
		return vm.Str(w.Str), nil
	case vm.TypeList:
		list := vm.NewList(len(w.Elems))
		for i := range w.Elems {
			elem, err := fromWire(&w.Elems[i])
			if err != nil {
				vm.Release(list)
				return vm.Value{}, err
			}
			list.List().Init(i+1, elem)
		}
		return list, nil
	case vm.TypeMap:
		if len(w.Elems)%2 != 0 {
			return vm.Value{}, errors.New("wire: map with odd element count")
		}
		m := vm.NewMap()
		for i := 0; i < len(w.Elems); i += 2 {
			key, err := fromWire(&w.Elems[i])
			if err != nil {
				vm.Release(m)
				return vm.Value{}, err
			}
			if key.IsList() || key.IsMap() {
				vm.Release(key)
				vm.Release(m)
				return vm.Value{}, errors.New("wire: collection used as map key")
			}
			value, err := fromWire(&w.Elems[i+1])
			if err != nil {
				vm.Release(key)
				vm.Release(m)
				return vm.Value{}, err
			}
			m = vm.MapInsert(m, key, value)
		}
		return m, nil
	}
	return vm.Value{}, fmt.Errorf("wire: unknown value type %d", w.Type)
}
