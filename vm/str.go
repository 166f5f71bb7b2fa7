package vm

import (
	"strings"
)

// String is a reference-counted, immutable byte string. The length is
// memoized by the Go string header.
type String struct {
	header
	s string
}

// Str creates a string value holding s with a single reference.
func Str(s string) Value {
	heap.Strings++
	return Value{typ: TypeStr, obj: &String{header: header{refs: 1}, s: s}}
}

// Str returns the content of v.
// Panics if v is not a string.
func (v Value) Str() string {
	if v.typ != TypeStr {
		panic("Value.Str: not a string")
	}
	return v.obj.(*String).s
}

// StrLen returns the byte length of v.
// Panics if v is not a string.
func (v Value) StrLen() int {
	return len(v.Str())
}

// ---------------------------------------------------------------------------
// Slicing: every operation builds a new, exactly sized buffer
// ---------------------------------------------------------------------------

// Substr returns bytes lower..upper (1-based, inclusive) of str. An inverted
// range yields "". Consumes str.
func Substr(str Value, lower, upper int) Value {
	var r Value
	if lower > upper {
		r = Str("")
	} else {
		r = Str(strings.Clone(str.Str()[lower-1 : upper]))
	}
	Release(str)
	return r
}

// StrGet returns the single byte at 1-based i as a new string. str is
// borrowed.
func StrGet(str Value, i int) Value {
	return Str(string([]byte{str.Str()[i-1]}))
}

// StrRangeSet replaces bytes from..to of base with value, keeping
// base[1..from-1] and base[to+1..]. Consumes base and value.
func StrRangeSet(base Value, from, to int, value Value) Value {
	b, v := base.Str(), value.Str()

	lenLeft := 0
	if from > 1 {
		lenLeft = from - 1
	}
	lenRight := 0
	if len(b) > to {
		lenRight = len(b) - to
	}

	var sb strings.Builder
	sb.Grow(lenLeft + len(v) + lenRight)
	sb.WriteString(b[:lenLeft])
	sb.WriteString(v)
	sb.WriteString(b[to : to+lenRight])

	r := Str(sb.String())
	Release(base)
	Release(value)
	return r
}

// ---------------------------------------------------------------------------
// Searching
// ---------------------------------------------------------------------------

// StrIndex returns the 1-based position of the first occurrence of what in
// source, or 0. An empty what is found at position 1.
func StrIndex(source, what string, caseMatters bool) int {
	if !caseMatters {
		source, what = foldString(source), foldString(what)
	}
	return strings.Index(source, what) + 1
}

// StrRIndex returns the 1-based position of the last occurrence of what in
// source, or 0. An empty what is found just past the end.
func StrRIndex(source, what string, caseMatters bool) int {
	if !caseMatters {
		source, what = foldString(source), foldString(what)
	}
	return strings.LastIndex(source, what) + 1
}

// StrSub replaces every non-overlapping occurrence of what in source with
// with, scanning left to right. what must not be empty.
func StrSub(source, what, with string, caseMatters bool) string {
	if what == "" {
		panic("StrSub: empty search string")
	}
	haystack, needle := source, what
	if !caseMatters {
		haystack, needle = foldString(source), foldString(what)
	}

	var sb strings.Builder
	for {
		i := strings.Index(haystack, needle)
		if i < 0 {
			break
		}
		sb.WriteString(source[:i])
		sb.WriteString(with)
		source = source[i+len(what):]
		haystack = haystack[i+len(needle):]
	}
	sb.WriteString(source)
	return sb.String()
}

// StrCompare compares two strings byte-wise, returning -1, 0 or 1.
func StrCompare(a, b string) int {
	return compareBytes(a, b)
}

func foldString(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				b[j] = lowerByte(b[j])
			}
			return string(b)
		}
	}
	return s
}
