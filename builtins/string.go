package builtins

import (
	"strings"

	"github.com/chazu/moocore/vm"
	"github.com/chazu/moocore/vm/pattern"
)

func (r *Registry) registerStrings() {
	r.Register("tostr", 0, -1, r.tostr)
	r.Register("toliteral", 1, 1, r.toliteral, Any)
	r.Register("match", 2, 3, r.match, vm.TypeStr, vm.TypeStr, Any)
	r.Register("rmatch", 2, 3, r.rmatch, vm.TypeStr, vm.TypeStr, Any)
	r.Register("substitute", 2, 2, r.substitute, vm.TypeStr, vm.TypeList)
	r.Register("index", 2, 3, r.index, vm.TypeStr, vm.TypeStr, Any)
	r.Register("rindex", 2, 3, r.rindex, vm.TypeStr, vm.TypeStr, Any)
	r.Register("strcmp", 2, 2, r.strcmp, vm.TypeStr, vm.TypeStr)
	r.Register("strsub", 3, 4, r.strsub, vm.TypeStr, vm.TypeStr, vm.TypeStr, Any)
	r.Register("string_hash", 1, 2, r.stringHash, vm.TypeStr, vm.TypeStr)
	r.Register("value_hash", 1, 2, r.valueHash, Any, vm.TypeStr)
}

func (r *Registry) tostr(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	var sb strings.Builder
	for _, v := range args.List().Elements() {
		sb.WriteString(vm.ToStr(v))
	}
	return r.strResult("tostr", sb.String())
}

func (r *Registry) toliteral(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	return r.strResult("toliteral", vm.Unparse(arg(args, 1)))
}

func (r *Registry) match(args vm.Value, progr vm.Objid) Package {
	return r.doMatch(args, false)
}

func (r *Registry) rmatch(args vm.Value, progr vm.Objid) Package {
	return r.doMatch(args, true)
}

// doMatch returns the match list, or the empty list when nothing matches.
// A pattern that does not compile raises E_INVARG and a match that runs out
// of time raises E_QUOTA.
func (r *Registry) doMatch(args vm.Value, reverse bool) Package {
	defer vm.Release(args)
	subject := arg(args, 1)
	p := r.cache.Lookup(arg(args, 2).Str(), optTrue(args, 3))
	if p == nil {
		return ErrorPack(vm.E_INVARG)
	}

	res := p.Match(subject.Str(), reverse)
	switch res.Outcome {
	case pattern.Succeeded:
		return ValuePack(res.Value(subject))
	case pattern.Aborted:
		return ErrorPack(vm.E_QUOTA)
	}
	return ValuePack(vm.NewList(0))
}

func (r *Registry) substitute(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	s, err := pattern.Substitute(arg(args, 1).Str(), arg(args, 2))
	if err != nil {
		return ErrorPack(vm.E_INVARG)
	}
	return r.strResult("substitute", s)
}

func (r *Registry) index(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	n := vm.StrIndex(arg(args, 1).Str(), arg(args, 2).Str(), optTrue(args, 3))
	return ValuePack(vm.Int(int64(n)))
}

func (r *Registry) rindex(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	n := vm.StrRIndex(arg(args, 1).Str(), arg(args, 2).Str(), optTrue(args, 3))
	return ValuePack(vm.Int(int64(n)))
}

func (r *Registry) strcmp(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	return ValuePack(vm.Int(int64(vm.StrCompare(arg(args, 1).Str(), arg(args, 2).Str()))))
}

// strsub replaces every occurrence of what in source; an empty what raises
// E_INVARG.
func (r *Registry) strsub(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	what := arg(args, 2).Str()
	if what == "" {
		return ErrorPack(vm.E_INVARG)
	}
	s := vm.StrSub(arg(args, 1).Str(), what, arg(args, 3).Str(), optTrue(args, 4))
	return r.strResult("strsub", s)
}
