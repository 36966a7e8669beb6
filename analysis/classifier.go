// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package analysis

import (
	"strconv"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// Boundedness is the result of classifying a handler body: either the set of
// slots it can touch is finite and enumerable from its static structure, in
// which case its cost is a concrete number, or it is not, in which case no
// single number bounds the cost over all inputs.
type Boundedness int

const (
	Concrete Boundedness = iota
	Unbounded
)

func (b Boundedness) String() string {
	switch b {
	case Concrete:
		return "Concrete"
	case Unbounded:
		return "Unbounded"
	}
	return "Boundedness(" + strconv.Itoa(int(b)) + ")"
}

// Classify decides whether the cost of a handler body is bounded. The
// decision is a pure function over the provenance tags of the slot operands:
// a body touching only literal slots follows a single fixed path and is
// Concrete; any input-derived slot operand makes it Unbounded, since
// successive calls can steer the access to ever-untouched zero slots, each
// re-incurring the cold and zero-initialization tariffs. A declared value
// range on an input-derived operand (e.g. from a truncating cast) does not
// restore boundedness: which slots are cold remains state dependent, so no
// single figure covers all calls.
func Classify(ops []figaro.StorageOp) Boundedness {
	for _, op := range ops {
		if op.Array && op.Index.Provenance == figaro.InputDerived {
			return Unbounded
		}
	}
	return Concrete
}

// Cost is the classified cost of one entry point: a concrete gas figure or
// the unbounded sentinel.
type Cost struct {
	unbounded bool
	value     figaro.Gas
}

// ConcreteCost creates a bounded cost figure.
func ConcreteCost(value figaro.Gas) Cost {
	return Cost{value: value}
}

// UnboundedCost creates the unbounded sentinel.
func UnboundedCost() Cost {
	return Cost{unbounded: true}
}

// IsUnbounded reports whether the cost is the unbounded sentinel.
func (c Cost) IsUnbounded() bool {
	return c.unbounded
}

// Value returns the concrete gas figure; it is zero for the unbounded
// sentinel.
func (c Cost) Value() figaro.Gas {
	return c.value
}

// String renders the cost the way golden expectation blocks spell it: the
// decimal figure, or the literal token `infinite` for the sentinel.
func (c Cost) String() string {
	if c.unbounded {
		return "infinite"
	}
	return strconv.FormatInt(int64(c.value), 10)
}
