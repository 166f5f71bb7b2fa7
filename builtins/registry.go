// Package builtins implements the list and string built-in functions on top
// of the vm value layer: argument checking, quota enforcement and mapping of
// engine results to values or errors.
package builtins

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/chazu/moocore/options"
	"github.com/chazu/moocore/vm"
	"github.com/chazu/moocore/vm/pattern"
)

var log = commonlog.GetLogger("moocore.builtins")

// Any accepts an argument of any type.
const Any vm.Type = 0xff

// ErrUnknownFunction is returned by Call for a name with no registration.
var ErrUnknownFunction = errors.New("unknown built-in function")

// Kind is the kind of result a built-in function produces.
type Kind uint8

const (
	KindValue Kind = iota
	KindError      // raise Error in the calling task
	KindAbort      // abort the calling task
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindError:
		return "error"
	case KindAbort:
		return "abort"
	}
	return "unknown"
}

// Package is the result of a built-in function. For KindValue the caller
// owns Value.
type Package struct {
	Kind  Kind
	Value vm.Value
	Error vm.ErrorCode
}

// ValuePack returns a package delivering v.
func ValuePack(v vm.Value) Package { return Package{Kind: KindValue, Value: v} }

// ErrorPack returns a package raising code.
func ErrorPack(code vm.ErrorCode) Package { return Package{Kind: KindError, Error: code} }

// AbortPack returns a package aborting the task.
func AbortPack() Package { return Package{Kind: KindAbort} }

// Func implements a built-in. It consumes args, a list whose arity and
// argument types have already been checked.
type Func func(args vm.Value, progr vm.Objid) Package

type builtin struct {
	name     string
	min, max int // max < 0 means no upper bound
	types    []vm.Type
	fn       Func
}

// Registry holds the built-in functions and the limits they enforce.
type Registry struct {
	funcs  map[string]*builtin
	limits options.Limits
	cache  *pattern.Cache
}

// New returns a registry with every list and string built-in registered.
// A nil opts uses options.Default(); a nil cache uses pattern.Default().
func New(opts *options.Options, cache *pattern.Cache) *Registry {
	if opts == nil {
		opts = options.Default()
	}
	if cache == nil {
		cache = pattern.Default()
	}
	r := &Registry{
		funcs:  make(map[string]*builtin),
		limits: opts.Limits,
		cache:  cache,
	}
	r.registerLists()
	r.registerStrings()
	return r
}

// Register adds fn under name, accepting between min and max arguments
// (max < 0 for no bound). types gives the required type of each leading
// argument; arguments past the end of types are unchecked.
func (r *Registry) Register(name string, min, max int, fn Func, types ...vm.Type) {
	if _, dup := r.funcs[name]; dup {
		panic(fmt.Sprintf("builtins: %s registered twice", name))
	}
	r.funcs[name] = &builtin{name: name, min: min, max: max, types: types, fn: fn}
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cache returns the pattern cache used by match() and rmatch().
func (r *Registry) Cache() *pattern.Cache { return r.cache }

// Call invokes the built-in name on args, which it consumes. A wrong
// argument count raises E_ARGS and a wrong argument type E_TYPE.
func (r *Registry) Call(name string, args vm.Value, progr vm.Objid) (Package, error) {
	b, ok := r.funcs[name]
	if !ok {
		vm.Release(args)
		return Package{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	n := vm.ListLength(args)
	if n < b.min || (b.max >= 0 && n > b.max) {
		vm.Release(args)
		return ErrorPack(vm.E_ARGS), nil
	}
	l := args.List()
	for i, t := range b.types {
		if i >= n {
			break
		}
		if t != Any && l.At(i+1).Type() != t {
			vm.Release(args)
			return ErrorPack(vm.E_TYPE), nil
		}
	}
	return b.fn(args, progr), nil
}

// spacePack is the result for a value over its size limit.
func (r *Registry) spacePack() Package {
	if r.limits.MaxConcatCatchable {
		return ErrorPack(vm.E_QUOTA)
	}
	return AbortPack()
}

// listResult delivers v unless its size exceeds the list limit.
func (r *Registry) listResult(name string, v vm.Value) Package {
	if limit := r.limits.MaxListValueBytes; limit > 0 {
		if size := vm.ValueBytes(v); size > limit {
			vm.Release(v)
			log.Warningf("%s: result of %d bytes exceeds max-list-value-bytes %d", name, size, limit)
			return r.spacePack()
		}
	}
	return ValuePack(v)
}

// strResult delivers s unless it is longer than the string limit.
func (r *Registry) strResult(name string, s string) Package {
	if limit := r.limits.MaxStringConcat; limit > 0 && len(s) > limit {
		log.Warningf("%s: result of %d bytes exceeds max-string-concat %d", name, len(s), limit)
		return r.spacePack()
	}
	return ValuePack(vm.Str(s))
}

func arg(args vm.Value, i int) vm.Value {
	return args.List().At(i)
}

// optTrue reports whether the optional argument i is present and true.
func optTrue(args vm.Value, i int) bool {
	return vm.ListLength(args) >= i && arg(args, i).IsTrue()
}

func boolValue(b bool) vm.Value {
	if b {
		return vm.Int(1)
	}
	return vm.Int(0)
}
