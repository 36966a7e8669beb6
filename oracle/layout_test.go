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
	"testing"

	"github.com/Fantom-foundation/Figaro/figaro"
)

func TestCodeSize_ReferenceContract(t *testing.T) {
	contract := referenceContract()
	if want, got := 345, CodeSize(contract, Options{Optimize: true, OptimizeRuns: 2}); want != got {
		t.Errorf("unexpected optimized code size, wanted %d, got %d", want, got)
	}
}

func TestCodeSize_UnoptimizedLayoutIsLarger(t *testing.T) {
	contract := referenceContract()
	optimized := CodeSize(contract, Options{Optimize: true, OptimizeRuns: 2})
	unoptimized := CodeSize(contract, Options{})
	if unoptimized <= optimized {
		t.Errorf("unoptimized layout (%d) not larger than optimized (%d)", unoptimized, optimized)
	}
}

func TestCodeSize_HighRunCountsGrowSelectorStubs(t *testing.T) {
	contract := referenceContract()
	tuned := CodeSize(contract, Options{Optimize: true, OptimizeRuns: 201})
	compact := CodeSize(contract, Options{Optimize: true, OptimizeRuns: 200})
	// one extra word-aligned comparison per dispatched selector
	if want, got := compact+2*3, tuned; want != got {
		t.Errorf("unexpected tuned code size, wanted %d, got %d", want, got)
	}
	// run tuning has no effect on the unoptimized layout
	if a, b := CodeSize(contract, Options{OptimizeRuns: 1000}), CodeSize(contract, Options{}); a != b {
		t.Errorf("run count changed unoptimized size, %d vs %d", a, b)
	}
}

func TestCodeSize_IsDeterministic(t *testing.T) {
	contract := referenceContract()
	options := Options{Optimize: true, OptimizeRuns: 2}
	first := CodeSize(contract, options)
	for i := 0; i < 10; i++ {
		if got := CodeSize(contract, options); first != got {
			t.Fatalf("code size not deterministic, got %d and %d", first, got)
		}
	}
}

func TestCodeSize_GrowsWithEveryEntry(t *testing.T) {
	base := &Contract{Name: "C"}
	withGetter := &Contract{Name: "C",
		Vars: []StateVar{{Name: "a", Kind: Scalar, Type: "uint256", Public: true}}}
	withFallback := &Contract{Name: "C", Fallback: &figaro.Handler{Payable: true}}

	options := Options{Optimize: true}
	if CodeSize(withGetter, options) <= CodeSize(base, options) {
		t.Errorf("adding a getter did not grow the code")
	}
	if CodeSize(withFallback, options) <= CodeSize(base, options) {
		t.Errorf("adding a fallback did not grow the code")
	}
}
