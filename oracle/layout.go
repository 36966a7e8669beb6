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

import "github.com/Fantom-foundation/Figaro/figaro"

// Options control the assumed code layout of a deployment: whether the
// optimizing layout is used, and the run-count the optimizer tunes for.
// They correspond to the directive block of a fixture.
type Options struct {
	Optimize     bool
	OptimizeRuns int
}

// optimizeRunsSizeThreshold is the run count above which the optimizing
// layout starts trading code size for cheaper dispatch, inlining the
// comparison sequence of every selector stub.
const optimizeRunsSizeThreshold = 200

// codeLayout tabulates the byte sizes the layout model assigns to the
// building blocks of runtime code. The model does not reproduce real
// codegen; it only needs to be deterministic in the contract structure and
// the layout options, since deployment cost is priced per byte.
type codeLayout struct {
	prelude        int // call value check and calldata setup
	selectorStub   int // per dispatched selector
	runsTunedExtra int // per selector stub when tuned for many runs
	fallbackStub   int // catch-all tail of the dispatcher
	scalarGetter   int // body of a synthesized scalar accessor
	arrayGetter    int // body of a synthesized array accessor
	funcBase       int // body scaffold of a declared function
	storageOp      int // per storage operation in a declared function body
}

var optimizedLayout = codeLayout{
	prelude:        17,
	selectorStub:   15,
	runsTunedExtra: 2,
	fallbackStub:   8,
	scalarGetter:   28,
	arrayGetter:    112,
	funcBase:       55,
	storageOp:      40,
}

var unoptimizedLayout = codeLayout{
	prelude:        29,
	selectorStub:   22,
	runsTunedExtra: 0,
	fallbackStub:   13,
	scalarGetter:   46,
	arrayGetter:    181,
	funcBase:       92,
	storageOp:      63,
}

// CodeSize returns the runtime code size the layout model assigns to the
// contract under the given options. The result is deterministic in the
// contract structure and the options.
func CodeSize(contract *Contract, options Options) int {
	layout := unoptimizedLayout
	if options.Optimize {
		layout = optimizedLayout
	}

	stub := layout.selectorStub
	if options.Optimize && options.OptimizeRuns > optimizeRunsSizeThreshold {
		stub += layout.runsTunedExtra
	}

	size := layout.prelude
	for _, entry := range contract.EntryPoints() {
		size += stub
		size += bodySize(entry, layout)
	}
	if contract.Fallback != nil {
		size += layout.fallbackStub
		size += layout.storageOp * len(contract.Fallback.Ops)
	}
	return size
}

func bodySize(entry figaro.Handler, layout codeLayout) int {
	if isGetter(entry) {
		if entry.Ops[0].Array {
			return layout.arrayGetter
		}
		return layout.scalarGetter
	}
	return layout.funcBase + layout.storageOp*len(entry.Ops)
}

// isGetter identifies synthesized accessors: a single read, one returned
// word, no side effects.
func isGetter(entry figaro.Handler) bool {
	return len(entry.Ops) == 1 && entry.Ops[0].Kind == figaro.OpRead && entry.ReturnWords == 1
}
