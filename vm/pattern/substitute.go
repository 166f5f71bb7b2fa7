package pattern

import (
	"errors"
	"strings"

	"github.com/chazu/moocore/vm"
)

var (
	// ErrBadSubs reports a substitution list that is not shaped like a
	// match() result for its own subject.
	ErrBadSubs = errors.New("pattern: malformed substitution list")
	// ErrBadTemplate reports a '%' in a template not followed by 0-9 or '%'.
	ErrBadTemplate = errors.New("pattern: bad substitution template")
)

// Substitute expands template against subs, a match() result of the form
// {start, end, {{s1, e1}, ..., {s9, e9}}, subject}. %0 is the whole match,
// %1..%9 the groups and %% a literal percent sign. subs is borrowed.
func Substitute(template string, subs vm.Value) (string, error) {
	subject, ok := checkSubs(subs)
	if !ok {
		return "", ErrBadSubs
	}
	l := subs.List()
	groups := l.At(3).List()

	var sb strings.Builder
	sb.Grow(len(template))
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(template) {
			return "", ErrBadTemplate
		}
		var pair *vm.List
		switch c = template[i]; {
		case c == '%':
			sb.WriteByte('%')
			continue
		case c == '0':
			pair = l
		case '1' <= c && c <= '9':
			pair = groups.At(int(c - '0')).List()
		default:
			return "", ErrBadTemplate
		}
		start, end := int(pair.At(1).Int()), int(pair.At(2).Int())
		if start <= end {
			sb.WriteString(subject[start-1 : end])
		}
	}
	return sb.String(), nil
}

func checkSubs(subs vm.Value) (string, bool) {
	if !subs.IsList() {
		return "", false
	}
	l := subs.List()
	if l.Len() != 4 || !l.At(1).IsInt() || !l.At(2).IsInt() || !l.At(3).IsList() ||
		l.At(3).List().Len() != MaxGroups || !l.At(4).IsStr() {
		return "", false
	}
	subject := l.At(4).Str()
	if !validPair(l.At(1), l.At(2), len(subject)) {
		return "", false
	}
	for _, p := range l.At(3).List().Elements() {
		if !p.IsList() {
			return "", false
		}
		pair := p.List()
		if pair.Len() != 2 || !pair.At(1).IsInt() || !pair.At(2).IsInt() ||
			!validPair(pair.At(1), pair.At(2), len(subject)) {
			return "", false
		}
	}
	return subject, true
}

// validPair accepts the unset pair {0, -1} or a range inside a subject of
// length max, where {n, n-1} is the empty range at n.
func validPair(first, second vm.Value, n int) bool {
	start, end := first.Int(), second.Int()
	return (start == 0 && end == -1) ||
		(start > 0 && end >= start-1 && end <= int64(n))
}
