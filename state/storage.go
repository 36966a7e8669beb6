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
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// Storage models the slot state of one simulated account. Slots are created
// lazily on first access and default to zero. Beyond current values, the
// model tracks the original (pre-simulation) value of every written slot and
// the set of slots already touched in the running simulation, which is all
// the cost ledger needs to classify accesses.
type Storage struct {
	current  map[figaro.Key]figaro.Word
	original map[figaro.Key]figaro.Word
	warm     map[figaro.Key]bool
	lengths  map[figaro.Key]uint64 // logical lengths of dynamic arrays by base slot
}

// NewStorage creates an all-zero storage, the state of a freshly deployed
// account.
func NewStorage() *Storage {
	return &Storage{
		current:  make(map[figaro.Key]figaro.Word),
		original: make(map[figaro.Key]figaro.Word),
		warm:     make(map[figaro.Key]bool),
		lengths:  make(map[figaro.Key]uint64),
	}
}

// Clone produces an independent snapshot of the storage. Call simulations
// each run on their own clone of the post-deployment state, so sibling
// simulations never observe each other's writes.
func (s *Storage) Clone() *Storage {
	return &Storage{
		current:  maps.Clone(s.current),
		original: maps.Clone(s.original),
		warm:     maps.Clone(s.warm),
		lengths:  maps.Clone(s.lengths),
	}
}

// Read returns the value of the given slot, or zero if it was never written,
// together with the access status of the slot before this read. The slot is
// warm afterwards.
func (s *Storage) Read(key figaro.Key) (figaro.Word, figaro.AccessStatus) {
	status := s.access(key)
	return s.current[key], status
}

// Write mutates the slot and classifies the write based on the access status
// of the slot and the value it held before. The slot is warm afterwards.
func (s *Storage) Write(key figaro.Key, value figaro.Word) figaro.WriteKind {
	prior := s.current[key]
	status := s.access(key)
	if _, found := s.original[key]; !found {
		s.original[key] = prior
	}
	s.current[key] = value
	return figaro.GetWriteKind(status, prior)
}

// IsWarm reports whether the slot was already touched in this simulation.
func (s *Storage) IsWarm(key figaro.Key) bool {
	return s.warm[key]
}

// MarkWarm marks a slot touched without accessing it, e.g. to seed an access
// list before a simulation starts.
func (s *Storage) MarkWarm(key figaro.Key) {
	s.warm[key] = true
}

// ArrayLength returns the current logical length of the dynamic array
// anchored at the given base slot.
func (s *Storage) ArrayLength(base figaro.Key) uint64 {
	return s.lengths[base]
}

// ArrayRead reads the element of a dynamic array at the given index.
// Elements past the logical length read as zero.
func (s *Storage) ArrayRead(base figaro.Key, index uint64) (figaro.Word, figaro.AccessStatus) {
	return s.Read(ElementSlot(base, index))
}

// ArrayWrite writes the element of a dynamic array at the given index and
// reports whether the write extended the logical length of the array.
// Writing at an index at or past the current length grows the array to
// index+1; intervening elements keep their implicit zero value.
func (s *Storage) ArrayWrite(base figaro.Key, index uint64, value figaro.Word) (figaro.WriteKind, bool) {
	kind := s.Write(ElementSlot(base, index), value)
	grew := false
	if index >= s.lengths[base] {
		s.lengths[base] = index + 1
		grew = true
	}
	return kind, grew
}

// access marks the slot warm and returns its status before this access.
func (s *Storage) access(key figaro.Key) figaro.AccessStatus {
	if s.warm[key] {
		return figaro.WarmAccess
	}
	s.warm[key] = true
	return figaro.ColdAccess
}

// Eq reports whether two storages hold the same observable state. Slots
// holding zero are indistinguishable from absent slots.
func (a *Storage) Eq(b *Storage) bool {
	return mapEqualIgnoringZeroValues(a.current, b.current) &&
		maps.Equal(a.original, b.original) &&
		maps.Equal(a.warm, b.warm) &&
		maps.Equal(a.lengths, b.lengths)
}

func mapEqualIgnoringZeroValues(a map[figaro.Key]figaro.Word, b map[figaro.Key]figaro.Word) bool {
	for key, valueA := range a {
		valueB, contained := b[key]
		if !contained && !valueA.IsZero() {
			return false
		} else if valueA != valueB {
			return false
		}
	}
	for key, valueB := range b {
		if _, contained := a[key]; !contained && !valueB.IsZero() {
			return false
		}
	}
	return true
}

// Diff produces a human-readable list of differences between two storages,
// intended for test diagnostics.
func (a *Storage) Diff(b *Storage) (res []string) {
	for key, valueA := range a.current {
		valueB, contained := b.current[key]
		if !contained && !valueA.IsZero() {
			res = append(res, fmt.Sprintf("Different current entry:\n\t[%v]=%v\n\tvs\n\tmissing", key, valueA))
		} else if valueA != valueB {
			res = append(res, fmt.Sprintf("Different current entry:\n\t[%v]=%v\n\tvs\n\t[%v]=%v", key, valueA, key, valueB))
		}
	}
	for key, valueB := range b.current {
		if _, contained := a.current[key]; !contained && !valueB.IsZero() {
			res = append(res, fmt.Sprintf("Different current entry:\n\tmissing\n\tvs\n\t[%v]=%v", key, valueB))
		}
	}

	for key := range a.warm {
		if _, contained := b.warm[key]; !contained {
			res = append(res, fmt.Sprintf("Different warm entry: %v vs missing", key))
		}
	}
	for key := range b.warm {
		if _, contained := a.warm[key]; !contained {
			res = append(res, fmt.Sprintf("Different warm entry: missing vs %v", key))
		}
	}

	for base, lengthA := range a.lengths {
		if lengthB := b.lengths[base]; lengthA != lengthB {
			res = append(res, fmt.Sprintf("Different array length for %v: %d vs %d", base, lengthA, lengthB))
		}
	}
	for base, lengthB := range b.lengths {
		if _, contained := a.lengths[base]; !contained && lengthB != 0 {
			res = append(res, fmt.Sprintf("Different array length for %v: missing vs %d", base, lengthB))
		}
	}

	return
}
