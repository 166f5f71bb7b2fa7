package pattern

import (
	"github.com/dlclark/regexp2"

	"github.com/chazu/moocore/vm"
)

// Outcome is the result kind of a match attempt.
type Outcome uint8

const (
	Succeeded Outcome = iota
	Failed
	Aborted // the match ran past its time bound
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Span is a matched byte range: 1-based, inclusive. An empty match at
// position p is {p, p-1}; a group that took no part in the match is {0, -1}.
type Span struct {
	Start int
	End   int
}

var unset = Span{Start: 0, End: -1}

// Result holds the overall match in Spans[0] and groups 1..9 after it.
type Result struct {
	Outcome Outcome
	Spans   [MaxGroups + 1]Span
}

// Match searches subject for p. With reverse set it finds the match that
// starts last instead of first.
func (p *Pattern) Match(subject string, reverse bool) Result {
	runes := []rune(subject)

	var m *regexp2.Match
	var err error
	if !reverse {
		m, err = p.re.FindRunesMatch(runes)
	} else {
		for start := len(runes); start >= 0; start-- {
			m, err = p.anchored.FindRunesMatchStartingAt(runes, start)
			if err != nil || m != nil {
				break
			}
		}
	}

	if err != nil {
		log.Debugf("match of %q aborted: %v", p.text, err)
		return Result{Outcome: Aborted}
	}
	if m == nil {
		return Result{Outcome: Failed}
	}

	offsets := byteOffsets(subject, len(runes))
	res := Result{Outcome: Succeeded}
	res.Spans[0] = span(offsets, m.Index, m.Length)
	for i := 1; i <= MaxGroups; i++ {
		g := m.GroupByNumber(i)
		if g == nil || len(g.Captures) == 0 {
			res.Spans[i] = unset
			continue
		}
		res.Spans[i] = span(offsets, g.Index, g.Length)
	}
	return res
}

// byteOffsets maps rune indexes of s to byte offsets; the final entry is len(s).
func byteOffsets(s string, n int) []int {
	offsets := make([]int, 0, n+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func span(offsets []int, index, length int) Span {
	return Span{Start: offsets[index] + 1, End: offsets[index+length]}
}

// Value converts a successful result to the match() return form:
// {start, end, {{s1, e1}, ..., {s9, e9}}, subject}. subject is borrowed.
func (r Result) Value(subject vm.Value) vm.Value {
	groups := vm.NewList(MaxGroups)
	for i := 1; i <= MaxGroups; i++ {
		s := r.Spans[i]
		groups.List().Init(i, vm.NewListOf(vm.Int(int64(s.Start)), vm.Int(int64(s.End))))
	}
	return vm.NewListOf(
		vm.Int(int64(r.Spans[0].Start)),
		vm.Int(int64(r.Spans[0].End)),
		groups,
		vm.Ref(subject),
	)
}
