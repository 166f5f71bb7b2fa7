package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Literal reader: the inverse of Unparse
// ---------------------------------------------------------------------------

// literalReader parses the toliteral() syntax: integers, floats, #objects,
// "strings", E_ERRORS, {lists} and [maps].
type literalReader struct {
	input string
	pos   int
}

// ParseLiteral reads a single literal value from text. Anonymous objects
// have no literal form. The caller owns the returned value.
func ParseLiteral(text string) (Value, error) {
	r := &literalReader{input: text}
	v, err := r.value()
	if err != nil {
		return Value{}, err
	}
	r.skipSpace()
	if r.pos < len(r.input) {
		Release(v)
		return Value{}, r.errorf("unexpected %q after value", r.input[r.pos])
	}
	return v, nil
}

// ParseLiteralList reads a comma separated sequence of literals, such as a
// built-in argument list without its braces, into a new list.
func ParseLiteralList(text string) (Value, error) {
	r := &literalReader{input: text}
	list, err := r.sequence(0)
	if err != nil {
		return Value{}, err
	}
	r.skipSpace()
	if r.pos < len(r.input) {
		Release(list)
		return Value{}, r.errorf("unexpected %q after arguments", r.input[r.pos])
	}
	return list, nil
}

func (r *literalReader) errorf(format string, args ...any) error {
	return fmt.Errorf("literal: offset %d: %s", r.pos, fmt.Sprintf(format, args...))
}

func (r *literalReader) skipSpace() {
	for r.pos < len(r.input) && strings.IndexByte(" \t\r\n", r.input[r.pos]) >= 0 {
		r.pos++
	}
}

func (r *literalReader) peek() byte {
	if r.pos >= len(r.input) {
		return 0
	}
	return r.input[r.pos]
}

func (r *literalReader) value() (Value, error) {
	r.skipSpace()
	switch c := r.peek(); {
	case c == 0:
		return Value{}, r.errorf("unexpected end of input")
	case c == '{':
		r.pos++
		return r.sequence('}')
	case c == '[':
		r.pos++
		return r.mapping()
	case c == '"':
		return r.str()
	case c == '#':
		r.pos++
		n, err := r.integer()
		if err != nil {
			return Value{}, err
		}
		return Obj(Objid(n)), nil
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return r.number()
	case c == 'E' || c == 'e':
		return r.errorName()
	default:
		return Value{}, r.errorf("unexpected %q", c)
	}
}

// sequence reads comma separated values up to closer, or to the end of
// input when closer is 0.
func (r *literalReader) sequence(closer byte) (Value, error) {
	list := NewList(0)
	r.skipSpace()
	if closer != 0 && r.peek() == closer {
		r.pos++
		return list, nil
	}
	if closer == 0 && r.pos >= len(r.input) {
		return list, nil
	}
	for {
		v, err := r.value()
		if err != nil {
			Release(list)
			return Value{}, err
		}
		list = ListAppend(list, v)

		r.skipSpace()
		switch c := r.peek(); {
		case c == ',':
			r.pos++
		case closer != 0 && c == closer:
			r.pos++
			return list, nil
		case closer == 0 && c == 0:
			return list, nil
		default:
			Release(list)
			if c == 0 {
				return Value{}, r.errorf("missing %q", closer)
			}
			return Value{}, r.errorf("expected ',' but found %q", c)
		}
	}
}

func (r *literalReader) mapping() (Value, error) {
	m := NewMap()
	r.skipSpace()
	if r.peek() == ']' {
		r.pos++
		return m, nil
	}
	for {
		key, err := r.value()
		if err != nil {
			Release(m)
			return Value{}, err
		}
		if key.typ == TypeList || key.typ == TypeMap {
			Release(key)
			Release(m)
			return Value{}, r.errorf("collections cannot be map keys")
		}
		r.skipSpace()
		if !strings.HasPrefix(r.input[r.pos:], "->") {
			Release(key)
			Release(m)
			return Value{}, r.errorf("expected '->'")
		}
		r.pos += 2
		val, err := r.value()
		if err != nil {
			Release(key)
			Release(m)
			return Value{}, err
		}
		m = MapInsert(m, key, val)

		r.skipSpace()
		switch r.peek() {
		case ',':
			r.pos++
		case ']':
			r.pos++
			return m, nil
		default:
			Release(m)
			return Value{}, r.errorf("expected ',' or ']'")
		}
	}
}

func (r *literalReader) str() (Value, error) {
	r.pos++ // opening quote
	var sb strings.Builder
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		r.pos++
		switch c {
		case '"':
			return Str(sb.String()), nil
		case '\\':
			if r.pos >= len(r.input) {
				return Value{}, r.errorf("unterminated string")
			}
			sb.WriteByte(r.input[r.pos])
			r.pos++
		default:
			sb.WriteByte(c)
		}
	}
	return Value{}, r.errorf("unterminated string")
}

func (r *literalReader) integer() (int64, error) {
	start := r.pos
	if c := r.peek(); c == '-' || c == '+' {
		r.pos++
	}
	for isDigit(r.peek()) {
		r.pos++
	}
	n, err := strconv.ParseInt(r.input[start:r.pos], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("literal: offset %d: bad integer: %w", start, err)
	}
	return n, nil
}

func (r *literalReader) number() (Value, error) {
	start := r.pos
	isFloat := false
	if c := r.peek(); c == '-' || c == '+' {
		r.pos++
	}
scan:
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		switch {
		case isDigit(c):
		case c == '.':
			isFloat = true
		case c == 'e' || c == 'E':
			isFloat = true
			if n := r.pos + 1; n < len(r.input) && (r.input[n] == '-' || r.input[n] == '+') {
				r.pos++
			}
		default:
			break scan
		}
		r.pos++
	}
	text := r.input[start:r.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("literal: offset %d: bad float: %w", start, err)
		}
		return Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("literal: offset %d: bad integer: %w", start, err)
	}
	return Int(n), nil
}

func (r *literalReader) errorName() (Value, error) {
	start := r.pos
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		if c != '_' && !isDigit(c) && !('A' <= c && c <= 'Z') && !('a' <= c && c <= 'z') {
			break
		}
		r.pos++
	}
	name := strings.ToUpper(r.input[start:r.pos])
	code, ok := ErrorByName(name)
	if !ok {
		return Value{}, fmt.Errorf("literal: offset %d: unknown error %q", start, name)
	}
	return Err(code), nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
