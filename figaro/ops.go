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
	"fmt"
	"strings"
)

// Provenance tags the origin of a storage-operation operand. It is the sole
// input the boundedness analysis needs: an operand is either a compile-time
// literal or derived from the call input.
type Provenance int

const (
	Literal Provenance = iota
	InputDerived
)

func (p Provenance) String() string {
	switch p {
	case Literal:
		return "Literal"
	case InputDerived:
		return "InputDerived"
	}
	return fmt.Sprintf("Provenance(%d)", int(p))
}

// IndexRange is the statically known value range of an input-derived operand.
// It is retained for diagnostics; it does not make an input-derived operand
// statically enumerable, since the set of slots touched across successive
// calls remains state dependent.
type IndexRange struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

// Operand is a provenance-tagged value used as an array index in a storage
// operation.
type Operand struct {
	Provenance Provenance
	Value      Word        // the operand value, only meaningful for Literal
	Range      *IndexRange // optional range of an InputDerived operand, nil if unbounded
}

// LiteralIndex creates an operand holding a fixed index value.
func LiteralIndex(value uint64) Operand {
	return Operand{Provenance: Literal, Value: NewWord(value)}
}

// InputIndex creates an operand derived from unconstrained call input.
func InputIndex(r *IndexRange) Operand {
	return Operand{Provenance: InputDerived, Range: r}
}

func (o Operand) String() string {
	if o.Provenance == Literal {
		return fmt.Sprintf("Literal(%v)", o.Value)
	}
	if o.Range != nil {
		return fmt.Sprintf("InputDerived[%d..%d]", o.Range.Min, o.Range.Max)
	}
	return "InputDerived[unbounded]"
}

// OpKind distinguishes storage reads from storage writes.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
)

func (k OpKind) String() string {
	switch k {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// StorageOp is one storage access of a handler body. Scalar accesses target a
// fixed slot; array accesses target the element of a dynamic array identified
// by its base slot and an index operand.
type StorageOp struct {
	Kind  OpKind
	Array bool
	Slot  Key     // target slot, only meaningful for scalar accesses
	Base  Key     // array base slot, only meaningful for array accesses
	Index Operand // element index, only meaningful for array accesses
}

func ReadOp(slot Key) StorageOp {
	return StorageOp{Kind: OpRead, Slot: slot}
}

func WriteOp(slot Key) StorageOp {
	return StorageOp{Kind: OpWrite, Slot: slot}
}

func ArrayReadOp(base Key, index Operand) StorageOp {
	return StorageOp{Kind: OpRead, Array: true, Base: base, Index: index}
}

func ArrayWriteOp(base Key, index Operand) StorageOp {
	return StorageOp{Kind: OpWrite, Array: true, Base: base, Index: index}
}

func (op StorageOp) String() string {
	if op.Array {
		return fmt.Sprintf("%v %v[%v]", op.Kind, op.Base, op.Index)
	}
	return fmt.Sprintf("%v %v", op.Kind, op.Slot)
}

// Handler describes one external entry point of a contract as the symbolic
// sequence of storage operations its body performs. Arithmetic and other
// non-storage work is folded into the intrinsic cost of the entry.
type Handler struct {
	Name        string   // function name, empty for the fallback
	Params      []string // canonical parameter type names
	Payable     bool
	ReturnWords int // number of words returned to the caller
	Ops         []StorageOp
}

// IsFallback reports whether the handler is the unnamed catch-all entry.
func (h Handler) IsFallback() bool {
	return h.Name == ""
}

// Signature returns the canonical signature of the handler, with parameter
// types comma-joined without spaces. The fallback is reported by its literal
// token.
func (h Handler) Signature() string {
	if h.IsFallback() {
		return "fallback"
	}
	return h.Name + "(" + strings.Join(h.Params, ",") + ")"
}

// Selector returns the dispatch selector of the handler. It must not be
// called for the fallback, which is routed by exclusion rather than by
// selector.
func (h Handler) Selector() Selector {
	if h.IsFallback() {
		panic("fallback handlers have no selector")
	}
	return SelectorFor(h.Signature())
}
