package builtins

import (
	"github.com/chazu/moocore/vm"
)

func (r *Registry) registerLists() {
	r.Register("length", 1, 1, r.length, Any)
	r.Register("setadd", 2, 2, r.setadd, vm.TypeList, Any)
	r.Register("setremove", 2, 2, r.setremove, vm.TypeList, Any)
	r.Register("listappend", 2, 3, r.listappend, vm.TypeList, Any, vm.TypeInt)
	r.Register("listinsert", 2, 3, r.listinsert, vm.TypeList, Any, vm.TypeInt)
	r.Register("listdelete", 2, 2, r.listdelete, vm.TypeList, vm.TypeInt)
	r.Register("listset", 3, 3, r.listset, vm.TypeList, Any, vm.TypeInt)
	r.Register("equal", 2, 2, r.equal, Any, Any)
	r.Register("value_bytes", 1, 1, r.valueBytes, Any)
}

func (r *Registry) length(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	switch v := arg(args, 1); v.Type() {
	case vm.TypeList:
		return ValuePack(vm.Int(int64(vm.ListLength(v))))
	case vm.TypeMap:
		return ValuePack(vm.Int(int64(vm.MapLength(v))))
	case vm.TypeStr:
		return ValuePack(vm.Int(int64(v.StrLen())))
	}
	return ErrorPack(vm.E_TYPE)
}

func (r *Registry) setadd(args vm.Value, progr vm.Objid) Package {
	list := vm.Ref(arg(args, 1))
	elem := vm.Ref(arg(args, 2))
	vm.Release(args)
	return r.listResult("setadd", vm.SetAdd(list, elem))
}

func (r *Registry) setremove(args vm.Value, progr vm.Objid) Package {
	result := vm.SetRemove(vm.Ref(arg(args, 1)), arg(args, 2))
	vm.Release(args)
	return r.listResult("setremove", result)
}

// insertOrAppend places the element before the index argument, or after it
// when appending. Without an index, listinsert prepends and listappend
// appends. Out of range indexes are clamped by ListInsert.
func (r *Registry) insertOrAppend(name string, args vm.Value, after bool) Package {
	list := vm.Ref(arg(args, 1))
	elem := vm.Ref(arg(args, 2))
	size := vm.ListLength(list)

	var pos int
	switch {
	case vm.ListLength(args) == 3:
		pos = int(arg(args, 3).Int())
		if after {
			pos++
		}
	case after:
		pos = size + 1
	default:
		pos = 1
	}
	vm.Release(args)

	return r.listResult(name, vm.ListInsert(list, elem, pos))
}

func (r *Registry) listappend(args vm.Value, progr vm.Objid) Package {
	return r.insertOrAppend("listappend", args, true)
}

func (r *Registry) listinsert(args vm.Value, progr vm.Objid) Package {
	return r.insertOrAppend("listinsert", args, false)
}

func (r *Registry) listdelete(args vm.Value, progr vm.Objid) Package {
	list := arg(args, 1)
	pos := arg(args, 2).Int()
	if pos <= 0 || pos > int64(vm.ListLength(list)) {
		vm.Release(args)
		return ErrorPack(vm.E_RANGE)
	}
	result := vm.ListDelete(vm.Ref(list), int(pos))
	vm.Release(args)
	return r.listResult("listdelete", result)
}

func (r *Registry) listset(args vm.Value, progr vm.Objid) Package {
	list := vm.Ref(arg(args, 1))
	elem := vm.Ref(arg(args, 2))
	pos := arg(args, 3).Int()
	vm.Release(args)

	if pos <= 0 || pos > int64(vm.ListLength(list)) {
		vm.Release(list)
		vm.Release(elem)
		return ErrorPack(vm.E_RANGE)
	}
	return r.listResult("listset", vm.ListSet(list, elem, int(pos)))
}

func (r *Registry) equal(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	return ValuePack(boolValue(vm.Equal(arg(args, 1), arg(args, 2), true)))
}

func (r *Registry) valueBytes(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	return ValuePack(vm.Int(int64(vm.ValueBytes(arg(args, 1)))))
}
