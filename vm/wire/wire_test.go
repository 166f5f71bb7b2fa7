package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/chazu/moocore/vm"
)

func TestValueCBORRoundTrip(t *testing.T) {
	tests := []string{
		`0`,
		`-9000000000`,
		`#42`,
		`E_INVARG`,
		`2.5`,
		`""`,
		`"text with \"quotes\""`,
		`{}`,
		`{1, {2, {3}}, "x"}`,
		`[]`,
		`[1 -> {1, 2}, "k" -> ["n" -> #3]]`,
	}
	before := vm.HeapStats()
	for _, text := range tests {
		v, err := vm.ParseLiteral(text)
		if err != nil {
			t.Fatalf("ParseLiteral(%s): %v", text, err)
		}
		data, err := MarshalValue(v)
		if err != nil {
			t.Errorf("MarshalValue(%s): %v", text, err)
			vm.Release(v)
			continue
		}
		got, err := UnmarshalValue(data)
		if err != nil {
			t.Errorf("UnmarshalValue(%s): %v", text, err)
			vm.Release(v)
			continue
		}
		if !vm.Equal(got, v, true) {
			t.Errorf("round trip of %s = %s", text, vm.Unparse(got))
		}
		vm.Release(got)
		vm.Release(v)
	}
	if after := vm.HeapStats(); after != before {
		t.Errorf("heap counts changed: %+v -> %+v", before, after)
	}
}

func TestFloatSpecials(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.MaxFloat64} {
		data, err := MarshalValue(vm.Float(f))
		if err != nil {
			t.Fatalf("MarshalValue(%v): %v", f, err)
		}
		got, err := UnmarshalValue(data)
		if err != nil {
			t.Fatalf("UnmarshalValue(%v): %v", f, err)
		}
		if got.Float64() != f {
			t.Errorf("round trip of %v = %v", f, got.Float64())
		}
	}
}

func TestEncodingIsCanonical(t *testing.T) {
	a, _ := vm.ParseLiteral(`["b" -> 1, "a" -> {1, 2}]`)
	b, _ := vm.ParseLiteral(`["a" -> {1, 2}, "b" -> 1]`)
	defer vm.Release(a)
	defer vm.Release(b)

	da, err := MarshalValue(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := MarshalValue(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Error("equal maps encoded differently")
	}
}

func TestAnonNotEncodable(t *testing.T) {
	anon := vm.NewAnon()
	list := vm.NewListOf(vm.Int(1), anon)
	defer vm.Release(list)

	if _, err := MarshalValue(list); !errors.Is(err, ErrAnon) {
		t.Errorf("MarshalValue error = %v, want ErrAnon", err)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	if _, err := UnmarshalValue([]byte{0xff, 0x00}); err == nil {
		t.Error("garbage decoded without error")
	}

	bad := []wireValue{
		{Type: vm.TypeErr, Int: 999},
		{Type: vm.Type(77)},
		{Type: vm.TypeMap, Elems: []wireValue{{Type: vm.TypeInt}}},
		{Type: vm.TypeMap, Elems: []wireValue{{Type: vm.TypeList}, {Type: vm.TypeInt}}},
		{Type: vm.TypeList, Elems: []wireValue{{Type: vm.TypeStr, Str: "ok"}, {Type: vm.Type(77)}}},
	}
	before := vm.HeapStats()
	for i, w := range bad {
		data, err := encMode.Marshal(w)
		if err != nil {
			t.Fatal(err)
		}
		if v, err := UnmarshalValue(data); err == nil {
			t.Errorf("case %d decoded to %s, want error", i, vm.Unparse(v))
			vm.Release(v)
		}
	}
	if after := vm.HeapStats(); after != before {
		t.Errorf("heap counts changed: %+v -> %+v", before, after)
	}
}
