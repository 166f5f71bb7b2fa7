package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/chazu/moocore/vm"
)

var hashes = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// digest returns the upper-case hex digest of data under the algorithm named
// by the optional argument i, which defaults to sha256.
func digest(args vm.Value, i int, data string) (string, bool) {
	algo := "sha256"
	if vm.ListLength(args) >= i {
		algo = strings.ToLower(arg(args, i).Str())
	}
	newHash, ok := hashes[algo]
	if !ok {
		return "", false
	}
	h := newHash()
	h.Write([]byte(data))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), true
}

func (r *Registry) stringHash(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	sum, ok := digest(args, 2, arg(args, 1).Str())
	if !ok {
		return ErrorPack(vm.E_INVARG)
	}
	return ValuePack(vm.Str(sum))
}

// valueHash hashes the literal form of its argument.
func (r *Registry) valueHash(args vm.Value, progr vm.Objid) Package {
	defer vm.Release(args)
	literal := vm.Unparse(arg(args, 1))
	if limit := r.limits.MaxStringConcat; limit > 0 && len(literal) > limit {
		log.Warningf("value_hash: literal of %d bytes exceeds max-string-concat %d", len(literal), limit)
		return r.spacePack()
	}
	sum, ok := digest(args, 2, literal)
	if !ok {
		return ErrorPack(vm.E_INVARG)
	}
	return ValuePack(vm.Str(sum))
}
