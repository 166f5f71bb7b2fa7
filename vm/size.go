package vm

// SlotBytes is the accounting size of one value slot. It is fixed rather than
// taken from unsafe.Sizeof so that quotas mean the same thing on every
// platform; it matches the width of a value cell in the on-disk format.
const SlotBytes = 16

// floatBytes is the payload of a boxed float.
const floatBytes = 8

// ValueBytes returns the accounting size of v: one slot plus whatever v
// owns on the heap, counted recursively. Shared children are counted at
// every place they appear, so the figure is an upper bound on real usage.
func ValueBytes(v Value) int {
	size := SlotBytes
	switch v.typ {
	case TypeStr:
		size += v.StrLen() + 1
	case TypeFloat:
		size += floatBytes
	case TypeList:
		size += ListSizeOf(v.List())
	case TypeMap:
		size += mapSizeOf(v.Map())
	}
	return size
}
