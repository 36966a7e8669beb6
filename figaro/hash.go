// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package figaro

import (
	"sync"

	"golang.org/x/crypto/sha3"
)

// Hash represents the 256-bit (32 bytes) result of the slot and selector
// derivation function.
type Hash [32]byte

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// Keccak256 computes the Keccak256 hash of the given data.
func Keccak256(data []byte) Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

// Keccak256ForKey computes the Keccak256 hash of a storage key, the
// derivation step anchoring the element slots of a dynamic array.
func Keccak256ForKey(key Key) Hash {
	return Keccak256(key[:])
}

// SelectorFor computes the dispatch selector for the given canonical
// function signature, e.g. "f1(uint256)".
func SelectorFor(signature string) Selector {
	hash := Keccak256([]byte(signature))
	return Selector(hash[0:4])
}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}
