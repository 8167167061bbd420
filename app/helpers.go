package app

import (
	"hash/maphash"
	"unsafe"
)

// PointerHasher hashes map keys by identity, which is exactly the semantic
// wanted for connection-keyed tables.
func PointerHasher[V any](_ maphash.Seed, k *V) uint64 {
	return uint64(uintptr(unsafe.Pointer(k)))
}
