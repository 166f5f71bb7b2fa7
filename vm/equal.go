package vm

// Equal reports whether a and b are the same MOO value. Values of different
// types are never equal, so 1 and 1.0 differ. Strings compare with ASCII
// case folding unless caseMatters is set; the flag is threaded into nested
// lists and maps.
func Equal(a, b Value, caseMatters bool) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeInt, TypeObj, TypeErr:
		return a.n == b.n
	case TypeFloat:
		return a.Float64() == b.Float64()
	case TypeStr:
		if caseMatters {
			return a.Str() == b.Str()
		}
		return equalFold(a.Str(), b.Str())
	case TypeList:
		return ListEqual(a, b, caseMatters)
	case TypeMap:
		return MapEqual(a, b, caseMatters)
	case TypeAnon:
		return a.obj == b.obj
	}
	return false
}

// Compare orders two scalar values: by type code first, then by payload.
// Strings compare with ASCII case folding unless caseMatters is set.
// Lists, maps and anonymous objects compare by type only.
func Compare(a, b Value, caseMatters bool) int {
	if a.typ != b.typ {
		return sign(int64(a.typ) - int64(b.typ))
	}
	switch a.typ {
	case TypeInt, TypeObj, TypeErr:
		switch {
		case a.n < b.n:
			return -1
		case a.n > b.n:
			return 1
		}
		return 0
	case TypeFloat:
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case TypeStr:
		if caseMatters {
			return compareBytes(a.Str(), b.Str())
		}
		return compareFold(a.Str(), b.Str())
	}
	return 0
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// ---------------------------------------------------------------------------
// ASCII case folding
// ---------------------------------------------------------------------------

func lowerByte(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerByte(a[i]) != lowerByte(b[i]) {
			return false
		}
	}
	return true
}

func compareFold(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		x, y := lowerByte(a[i]), lowerByte(b[i])
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return sign(int64(len(a)) - int64(len(b)))
}

func compareBytes(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
