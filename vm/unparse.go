package vm

import (
	"strconv"
	"strings"
)

// Unparse returns the literal form of v, as produced by toliteral():
// strings are quoted, errors print by name, lists as {a, b} and maps as
// [k -> v].
func Unparse(v Value) string {
	var sb strings.Builder
	unparseTo(&sb, v)
	return sb.String()
}

func unparseTo(sb *strings.Builder, v Value) {
	switch v.typ {
	case TypeInt:
		sb.WriteString(strconv.FormatInt(v.n, 10))
	case TypeObj:
		sb.WriteByte('#')
		sb.WriteString(strconv.FormatInt(v.n, 10))
	case TypeErr:
		sb.WriteString(v.ErrCode().Name())
	case TypeFloat:
		sb.WriteString(formatFloat(v.Float64()))
	case TypeStr:
		s := v.Str()
		sb.WriteByte('"')
		for i := 0; i < len(s); i++ {
			if s[i] == '"' || s[i] == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(s[i])
		}
		sb.WriteByte('"')
	case TypeList:
		sb.WriteByte('{')
		ListForEach(v, func(elem Value, first bool) int {
			if !first {
				sb.WriteString(", ")
			}
			unparseTo(sb, elem)
			return 0
		})
		sb.WriteByte('}')
	case TypeMap:
		sb.WriteByte('[')
		MapForEach(v, func(key, value Value, first bool) int {
			if !first {
				sb.WriteString(", ")
			}
			unparseTo(sb, key)
			sb.WriteString(" -> ")
			unparseTo(sb, value)
			return 0
		})
		sb.WriteByte(']')
	case TypeAnon:
		sb.WriteString("*anonymous*")
	default:
		log.Errorf("unparse: unknown value type %d", v.typ)
		sb.WriteString(">>Unknown value<<")
	}
}

// ToStr returns the tostr() form of v: strings are unquoted, errors print
// their message, and collections collapse to a placeholder.
func ToStr(v Value) string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.n, 10)
	case TypeObj:
		return "#" + strconv.FormatInt(v.n, 10)
	case TypeStr:
		return v.Str()
	case TypeErr:
		return v.ErrCode().Message()
	case TypeFloat:
		return formatFloat(v.Float64())
	case TypeMap:
		return "[map]"
	case TypeList:
		return "{list}"
	case TypeAnon:
		return "*anonymous*"
	}
	panic("ToStr: unknown value type")
}

// formatFloat prints f in the shortest form that reads back as the same
// float, always with a decimal point or exponent so it never reads as an int.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}
