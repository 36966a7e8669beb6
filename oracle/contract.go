// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package oracle

import (
	"fmt"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// VarKind distinguishes the storage shapes a state variable can take.
type VarKind int

const (
	Scalar VarKind = iota
	DynamicArray
)

func (k VarKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case DynamicArray:
		return "dynamic-array"
	}
	return fmt.Sprintf("VarKind(%d)", int(k))
}

// StateVar is one declared state variable of a contract. Scalars occupy the
// slot matching their declaration position; dynamic arrays anchor their
// element run at that slot.
type StateVar struct {
	Name   string
	Kind   VarKind
	Type   string // canonical value or element type, e.g. "uint256"
	Public bool
}

// Contract is the storage-and-dispatch model of one contract: its state
// variables in declaration order, its explicitly declared external functions,
// and an optional fallback. It is the unit a deployment simulation turns into
// an account.
type Contract struct {
	Name      string
	Vars      []StateVar
	Functions []figaro.Handler
	Fallback  *figaro.Handler
}

// SlotOf returns the slot assigned to the named state variable. Slots are
// assigned sequentially in declaration order, each variable occupying one
// slot (the base slot, for dynamic arrays).
func (c *Contract) SlotOf(name string) (figaro.Key, bool) {
	for i, v := range c.Vars {
		if v.Name == name {
			return figaro.NewKey(uint64(i)), true
		}
	}
	return figaro.Key{}, false
}

// Var returns the declaration of the named state variable.
func (c *Contract) Var(name string) (StateVar, bool) {
	for _, v := range c.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return StateVar{}, false
}

// EntryPoints returns all selector-dispatched entry points of the contract:
// the synthesized getters of public state variables followed by the declared
// functions. The fallback is not included; it is routed by exclusion.
func (c *Contract) EntryPoints() []figaro.Handler {
	var res []figaro.Handler
	for i, v := range c.Vars {
		if !v.Public {
			continue
		}
		res = append(res, makeGetter(v, figaro.NewKey(uint64(i))))
	}
	res = append(res, c.Functions...)
	return res
}

// makeGetter synthesizes the accessor entry of a public state variable: a
// scalar getter reads its fixed slot; an array getter takes the element index
// as its single argument and reads the element it selects. The index argument
// is unconstrained input, so the accessed slot is input derived.
func makeGetter(v StateVar, slot figaro.Key) figaro.Handler {
	if v.Kind == Scalar {
		return figaro.Handler{
			Name:        v.Name,
			ReturnWords: 1,
			Ops:         []figaro.StorageOp{figaro.ReadOp(slot)},
		}
	}
	return figaro.Handler{
		Name:        v.Name,
		Params:      []string{"uint256"},
		ReturnWords: 1,
		Ops:         []figaro.StorageOp{figaro.ArrayReadOp(slot, figaro.InputIndex(nil))},
	}
}
