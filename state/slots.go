// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// Element slots of a dynamic array are derived from the array's base slot:
// the elements form a contiguous run starting at the hash of the base key.
// The hash step is the expensive part and identical for every element of one
// array, so its results are kept in a fixed-capacity cache shared by all
// simulations. Caching is a pure performance concern; derivation itself is
// deterministic and infallible.

var baseHashCache *lru.Cache[figaro.Key, figaro.Hash]

func init() {
	baseHashCache, _ = lru.New[figaro.Key, figaro.Hash](4096) // can only fail for non-positive size
}

// ElementSlot computes the slot holding element `index` of the dynamic array
// anchored at the given base slot.
func ElementSlot(base figaro.Key, index uint64) figaro.Key {
	anchor, found := baseHashCache.Get(base)
	if !found {
		anchor = figaro.Keccak256ForKey(base)
		baseHashCache.Add(base, anchor)
	}
	slot := new(uint256.Int).SetBytes(anchor[:])
	slot.AddUint64(slot, index)
	return figaro.Key(slot.Bytes32())
}
