package vm

import (
	"testing"
)

func TestSubstr(t *testing.T) {
	before := HeapStats()
	tests := []struct {
		s            string
		lower, upper int
		want         string
	}{
		{"hello", 2, 4, "ell"},
		{"hello", 1, 5, "hello"},
		{"hello", 3, 3, "l"},
		{"hello", 4, 3, ""},
		{"", 1, 0, ""},
	}
	for _, tt := range tests {
		r := Substr(Str(tt.s), tt.lower, tt.upper)
		if got := r.Str(); got != tt.want {
			t.Errorf("Substr(%q, %d, %d) = %q, want %q", tt.s, tt.lower, tt.upper, got, tt.want)
		}
		Release(r)
	}
	checkHeap(t, before)
}

func TestStrGet(t *testing.T) {
	s := Str("abc")
	c := StrGet(s, 2)
	if c.Str() != "b" {
		t.Errorf("StrGet = %q, want \"b\"", c.Str())
	}
	if Refcount(s) != 1 {
		t.Error("StrGet consumed its source")
	}
	Release(c)
	Release(s)
}

func TestStrRangeSet(t *testing.T) {
	tests := []struct {
		base     string
		from, to int
		repl     string
		want     string
	}{
		{"hello", 2, 3, "XYZ", "hXYZlo"},
		{"hello", 1, 5, "bye", "bye"},
		{"abc", 2, 1, "-", "a-bc"},
		{"abc", 4, 3, "d", "abcd"},
		{"abc", 1, 3, "", ""},
	}
	before := HeapStats()
	for _, tt := range tests {
		r := StrRangeSet(Str(tt.base), tt.from, tt.to, Str(tt.repl))
		if got := r.Str(); got != tt.want {
			t.Errorf("StrRangeSet(%q, %d, %d, %q) = %q, want %q", tt.base, tt.from, tt.to, tt.repl, got, tt.want)
		}
		Release(r)
	}
	checkHeap(t, before)
}

func TestStrIndex(t *testing.T) {
	tests := []struct {
		source, what string
		caseMatters  bool
		index        int
		rindex       int
	}{
		{"foobar", "o", false, 2, 3},
		{"foobar", "O", false, 2, 3},
		{"foobar", "O", true, 0, 0},
		{"abab", "ab", true, 1, 3},
		{"abc", "z", false, 0, 0},
		{"abc", "", false, 1, 4},
	}
	for _, tt := range tests {
		if got := StrIndex(tt.source, tt.what, tt.caseMatters); got != tt.index {
			t.Errorf("StrIndex(%q, %q, %v) = %d, want %d", tt.source, tt.what, tt.caseMatters, got, tt.index)
		}
		if got := StrRIndex(tt.source, tt.what, tt.caseMatters); got != tt.rindex {
			t.Errorf("StrRIndex(%q, %q, %v) = %d, want %d", tt.source, tt.what, tt.caseMatters, got, tt.rindex)
		}
	}
}

func TestStrSub(t *testing.T) {
	tests := []struct {
		source, what, with string
		caseMatters        bool
		want               string
	}{
		{"Hello hello", "hello", "bye", false, "bye bye"},
		{"Hello hello", "hello", "bye", true, "Hello bye"},
		{"aaa", "aa", "b", true, "ba"},
		{"abc", "x", "y", false, "abc"},
		{"abc", "b", "", false, "ac"},
	}
	for _, tt := range tests {
		if got := StrSub(tt.source, tt.what, tt.with, tt.caseMatters); got != tt.want {
			t.Errorf("StrSub(%q, %q, %q, %v) = %q, want %q", tt.source, tt.what, tt.with, tt.caseMatters, got, tt.want)
		}
	}
}

func TestStrCompare(t *testing.T) {
	if StrCompare("a", "b") != -1 || StrCompare("b", "a") != 1 || StrCompare("a", "a") != 0 {
		t.Error("StrCompare ordering is wrong")
	}
	if StrCompare("B", "a") != -1 {
		t.Error("StrCompare should be case-sensitive")
	}
}
