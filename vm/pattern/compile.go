// Package pattern compiles and matches MOO search patterns and caches the
// compiled form.
//
// MOO patterns use the classic Emacs regular expression syntax with '%' in
// place of the backslash: %( %) group, %| alternates, %1..%9 refer back to a
// group, %b %B %< %> %w %W match word boundaries and characters, and %%
// matches a literal percent sign. Patterns are translated to the .NET style
// syntax of github.com/dlclark/regexp2, which supports back-references.
package pattern

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// MaxGroups is the number of capture groups a pattern may define.
const MaxGroups = 9

var (
	ErrTrailingPercent = errors.New("pattern: trailing %")
	ErrUnmatchedOpen   = errors.New("pattern: unmatched %(")
	ErrUnmatchedClose  = errors.New("pattern: unmatched %)")
	ErrUnmatchedClass  = errors.New("pattern: unmatched [")
	ErrTooManyGroups   = errors.New("pattern: too many groups")
)

// Pattern is a compiled search pattern.
type Pattern struct {
	text        string
	caseMatters bool

	re       *regexp2.Regexp // unanchored search
	anchored *regexp2.Regexp // \G-anchored, used to scan backwards for rmatch
}

// Text returns the source text the pattern was compiled from.
func (p *Pattern) Text() string { return p.text }

// CaseMatters reports whether the pattern matches case-sensitively.
func (p *Pattern) CaseMatters() bool { return p.caseMatters }

// Compiler turns pattern text into compiled patterns and releases them when
// the cache evicts them.
type Compiler interface {
	Compile(text string, caseMatters bool) (*Pattern, error)
	Release(p *Pattern)
}

// RegexpCompiler is the default Compiler.
type RegexpCompiler struct {
	// Timeout bounds a single match attempt; zero means no bound.
	Timeout time.Duration
}

// Compile translates text and compiles it with regexp2.
func (c RegexpCompiler) Compile(text string, caseMatters bool) (*Pattern, error) {
	expr, err := Translate(text)
	if err != nil {
		return nil, err
	}

	var opts regexp2.RegexOptions = regexp2.Singleline
	if !caseMatters {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", text, err)
	}
	anchored, err := regexp2.Compile(`\G(?:`+expr+`)`, opts)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", text, err)
	}
	if c.Timeout > 0 {
		re.MatchTimeout = c.Timeout
		anchored.MatchTimeout = c.Timeout
	}

	return &Pattern{text: text, caseMatters: caseMatters, re: re, anchored: anchored}, nil
}

// Release is a no-op: compiled regexps are reclaimed by the Go runtime.
func (c RegexpCompiler) Release(p *Pattern) {}

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

// translator rewrites a MOO pattern into regexp2 syntax one rune at a time.
// atom is the output offset where the most recent quantifiable item starts,
// or -1 at the start of an expression, where quantifiers are literal.
type translator struct {
	src    []rune
	out    strings.Builder
	atom   int
	quant  bool // the last item emitted was a quantifier
	opens  []int
	groups int
}

// Translate converts MOO pattern text to an equivalent regexp2 expression.
func Translate(text string) (string, error) {
	t := &translator{src: []rune(text), atom: -1}
	for i := 0; i < len(t.src); i++ {
		c := t.src[i]
		switch c {
		case '%':
			i++
			if i >= len(t.src) {
				return "", ErrTrailingPercent
			}
			if err := t.escape(t.src[i]); err != nil {
				return "", err
			}
		case '*', '+', '?':
			t.quantifier(c)
		case '.':
			t.emitAtom(".")
		case '^':
			if t.atom < 0 {
				t.emitAnchor("^")
			} else {
				t.emitAtom(`\^`)
			}
		case '$':
			if t.atEnd(i + 1) {
				t.emitAnchor("$")
			} else {
				t.emitAtom(`\$`)
			}
		case '[':
			end, err := t.class(i)
			if err != nil {
				return "", err
			}
			i = end
		default:
			t.emitAtom(quote(c))
		}
	}
	if len(t.opens) > 0 {
		return "", ErrUnmatchedOpen
	}
	return t.out.String(), nil
}

func (t *translator) escape(c rune) error {
	switch c {
	case '(':
		if t.groups == MaxGroups {
			return ErrTooManyGroups
		}
		t.groups++
		t.opens = append(t.opens, t.out.Len())
		t.out.WriteByte('(')
		t.atom, t.quant = -1, false
	case ')':
		if len(t.opens) == 0 {
			return ErrUnmatchedClose
		}
		start := t.opens[len(t.opens)-1]
		t.opens = t.opens[:len(t.opens)-1]
		t.out.WriteByte(')')
		t.atom, t.quant = start, false
	case '|':
		t.out.WriteByte('|')
		t.atom, t.quant = -1, false
	case 'b':
		t.emitAnchor(`\b`)
	case 'B':
		t.emitAnchor(`\B`)
	case '<':
		t.emitAnchor(`\b(?=\w)`)
	case '>':
		t.emitAnchor(`\b(?<=\w)`)
	case 'w':
		t.emitAtom(`\w`)
	case 'W':
		t.emitAtom(`\W`)
	default:
		if '1' <= c && c <= '9' {
			t.emitAtom(`(?:\` + string(c) + `)`)
		} else {
			t.emitAtom(quote(c))
		}
	}
	return nil
}

// quantifier applies c to the last atom. A quantifier with nothing before it
// matches itself; a quantifier applied to a quantified atom applies to the
// whole quantified item, so "a*?" means "(a*)?" rather than a lazy star.
func (t *translator) quantifier(c rune) {
	if t.atom < 0 {
		t.emitAtom(quote(c))
		return
	}
	if t.quant {
		s := t.out.String()
		t.out.Reset()
		t.out.WriteString(s[:t.atom])
		t.out.WriteString("(?:")
		t.out.WriteString(s[t.atom:])
		t.out.WriteString(")")
	}
	t.out.WriteRune(c)
	t.quant = true
}

func (t *translator) emitAtom(s string) {
	t.atom = t.out.Len()
	t.quant = false
	t.out.WriteString(s)
}

func (t *translator) emitAnchor(s string) {
	t.out.WriteString(s)
	t.atom, t.quant = -1, false
}

// atEnd reports whether position i ends the current alternative.
func (t *translator) atEnd(i int) bool {
	if i >= len(t.src) {
		return true
	}
	return t.src[i] == '%' && i+1 < len(t.src) && (t.src[i+1] == ')' || t.src[i+1] == '|')
}

// class copies the bracket expression starting at src[i] and returns the
// index of its closing bracket. A ']' right after '[' or '[^' is literal.
func (t *translator) class(i int) (int, error) {
	j := i + 1
	if j < len(t.src) && t.src[j] == '^' {
		j++
	}
	if j < len(t.src) && t.src[j] == ']' {
		j++
	}
	for j < len(t.src) && t.src[j] != ']' {
		j++
	}
	if j >= len(t.src) {
		return 0, ErrUnmatchedClass
	}

	var sb strings.Builder
	sb.WriteByte('[')
	k := i + 1
	if t.src[k] == '^' {
		sb.WriteByte('^')
		k++
	}
	for ; k < j; k++ {
		switch c := t.src[k]; c {
		case '\\', '[', ']':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte(']')
	t.emitAtom(sb.String())
	return j, nil
}

// quote returns c escaped for literal use in a regexp2 expression.
func quote(c rune) string {
	if strings.ContainsRune(`\.*+?()[]{}|^$#`, c) {
		return `\` + string(c)
	}
	return string(c)
}
