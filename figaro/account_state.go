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

//go:generate mockgen -source account_state.go -destination account_state_mock.go -package figaro

// AccountState is an interface to access and manipulate the storage of one
// simulated account. Slots hold one word each and default to zero until
// written. Every access additionally reports the classification the cost
// ledger needs to price it: cold/warm for reads, the full write kind for
// writes.
//
// Dynamic arrays are addressed by the base slot of the array; element slots
// are derived from the base deterministically. Writing past the current
// logical length extends the array, with intervening elements remaining at
// their implicit zero value.
type AccountState interface {
	// Read returns the value of the given slot, or zero if it was never
	// written, together with the access status of the slot. It never fails.
	Read(Key) (Word, AccessStatus)

	// Write mutates the slot and classifies the write for pricing. The slot
	// is marked warm for the remainder of the simulation.
	Write(Key, Word) WriteKind

	// ArrayLength returns the current logical length of the dynamic array
	// anchored at the given base slot.
	ArrayLength(base Key) uint64

	// ArrayRead reads the element of a dynamic array at the given index.
	// Elements past the logical length read as zero.
	ArrayRead(base Key, index uint64) (Word, AccessStatus)

	// ArrayWrite writes the element of a dynamic array at the given index and
	// reports whether the write extended the logical length of the array.
	ArrayWrite(base Key, index uint64, value Word) (WriteKind, bool)
}
