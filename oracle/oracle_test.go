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
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Fantom-foundation/Figaro/figaro"
	"github.com/Fantom-foundation/Figaro/state"
)

// referenceContract models the storage-cost probe used as the baseline across
// the oracle tests: one public scalar, one public byte array, one function
// writing to both, and a bare payable fallback.
func referenceContract() *Contract {
	return &Contract{
		Name: "C",
		Vars: []StateVar{
			{Name: "a", Kind: Scalar, Type: "uint256", Public: true},
			{Name: "b", Kind: DynamicArray, Type: "uint8", Public: true},
		},
		Functions: []figaro.Handler{{
			Name:        "f1",
			Params:      []string{"uint256"},
			ReturnWords: 1,
			Ops: []figaro.StorageOp{
				figaro.WriteOp(figaro.NewKey(0)),
				figaro.ArrayWriteOp(figaro.NewKey(1), figaro.InputIndex(&figaro.IndexRange{Min: 0, Max: 255})),
			},
		}},
		Fallback: &figaro.Handler{Payable: true},
	}
}

func TestOracle_AnalyzeProducesReferenceFigures(t *testing.T) {
	report, err := New(nil).Analyze(referenceContract(), Options{Optimize: true, OptimizeRuns: 2})
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	want := "creation: { codeDepositCost: 69000, executionCost: 117, totalCost: 69117 }\n" +
		"external: { fallback: 118, a(): 2305, b(uint256): \"infinite\", f1(uint256): \"infinite\" }\n"
	if got := report.String(); want != got {
		t.Errorf("unexpected report, wanted:\n%sgot:\n%s", want, got)
	}
}

func TestOracle_AnalyzeIsReproducible(t *testing.T) {
	contract := referenceContract()
	options := Options{Optimize: true, OptimizeRuns: 2}
	first, err := New(nil).Analyze(contract, options)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := New(nil).Analyze(contract, options)
		if err != nil {
			t.Fatalf("analysis failed: %v", err)
		}
		if first.String() != next.String() {
			t.Fatalf("reports deviate:\n%svs\n%s", first, next)
		}
	}
}

func TestOracle_DeployPricesCreation(t *testing.T) {
	account, creation, err := New(nil).Deploy(referenceContract(), Options{Optimize: true, OptimizeRuns: 2})
	if err != nil {
		t.Fatalf("deployment failed: %v", err)
	}
	if want, got := 345, account.CodeSize(); want != got {
		t.Errorf("unexpected code size, wanted %d, got %d", want, got)
	}
	if want, got := figaro.Gas(69000), creation.CodeDepositCost; want != got {
		t.Errorf("unexpected deposit cost, wanted %d, got %d", want, got)
	}
	if want, got := figaro.Gas(117), creation.ExecutionCost; want != got {
		t.Errorf("unexpected execution cost, wanted %d, got %d", want, got)
	}
	if creation.TotalCost != creation.CodeDepositCost+creation.ExecutionCost {
		t.Errorf("total %d is not the sum of its components", creation.TotalCost)
	}
}

func TestOracle_DeploymentIsIdempotent(t *testing.T) {
	contract := referenceContract()
	options := Options{Optimize: true, OptimizeRuns: 2}
	_, first, err := New(nil).Deploy(contract, options)
	if err != nil {
		t.Fatalf("deployment failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		_, next, err := New(nil).Deploy(contract, options)
		if err != nil {
			t.Fatalf("deployment failed: %v", err)
		}
		if first != next {
			t.Fatalf("creation figures deviate, %+v vs %+v", first, next)
		}
	}
}

func TestOracle_DeployedAccountDispatchesEveryEntry(t *testing.T) {
	account, _, err := New(nil).Deploy(referenceContract(), Options{})
	if err != nil {
		t.Fatalf("deployment failed: %v", err)
	}

	selector := figaro.SelectorFor("f1(uint256)")
	handler, _, err := account.Dispatch(figaro.Data(selector[:]))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if want, got := "f1(uint256)", handler.Signature(); want != got {
		t.Errorf("unexpected handler, wanted %s, got %s", want, got)
	}

	// short and unmatched call data reach the fallback
	for _, input := range []figaro.Data{{}, {0x01, 0x02}, {0xFF, 0xFF, 0xFF, 0xFF}} {
		handler, _, err := account.Dispatch(input)
		if err != nil {
			t.Fatalf("dispatch of %x failed: %v", input, err)
		}
		if !handler.IsFallback() {
			t.Errorf("input %x not routed to the fallback, got %s", input, handler.Signature())
		}
	}
}

func TestOracle_DeployRejectsSelectorCollisions(t *testing.T) {
	contract := &Contract{
		Name: "C",
		Functions: []figaro.Handler{
			{Name: "f1", Params: []string{"uint256"}},
			{Name: "f1", Params: []string{"uint256"}},
		},
	}
	if _, _, err := New(nil).Deploy(contract, Options{}); err == nil {
		t.Errorf("deployment with colliding selectors should fail")
	}
}

func TestOracle_AnalyzeEntryChargesMockedAccesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := figaro.NewMockAccountState(ctrl)

	slot := figaro.NewKey(0)
	base := figaro.NewKey(1)
	entry := figaro.Handler{
		Name: "f",
		Ops: []figaro.StorageOp{
			figaro.ReadOp(slot),
			figaro.WriteOp(slot),
			figaro.ArrayReadOp(base, figaro.LiteralIndex(3)),
		},
	}

	gomock.InOrder(
		mock.EXPECT().Read(slot).Return(figaro.Word{}, figaro.ColdAccess),
		mock.EXPECT().Write(slot, gomock.Any()).Return(figaro.WarmZeroToNonzero),
		mock.EXPECT().ArrayRead(base, uint64(3)).Return(figaro.Word{}, figaro.WarmAccess),
	)

	result := New(nil).AnalyzeEntry(entry, mock)
	if result.Err != nil {
		t.Fatalf("analysis failed: %v", result.Err)
	}
	// entry base 147, cold read 2100, warm zero-write 20000, warm read 100
	if want, got := figaro.Gas(147+2100+20000+100), result.Cost.Value(); want != got {
		t.Errorf("unexpected cost, wanted %d, got %d", want, got)
	}
}

func TestOracle_AnalyzeEntrySkipsSimulationOfUnboundedEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := figaro.NewMockAccountState(ctrl) // no calls expected

	entry := figaro.Handler{
		Name: "f",
		Ops:  []figaro.StorageOp{figaro.ArrayWriteOp(figaro.NewKey(1), figaro.InputIndex(nil))},
	}
	result := New(nil).AnalyzeEntry(entry, mock)
	if result.Err != nil {
		t.Fatalf("analysis failed: %v", result.Err)
	}
	if !result.Cost.IsUnbounded() {
		t.Errorf("input-derived array write should be unbounded")
	}
}

func TestOracle_AnalyzeEntryReportsOversizedLiteralIndices(t *testing.T) {
	entry := figaro.Handler{
		Name: "f",
		Ops: []figaro.StorageOp{{
			Kind:  figaro.OpWrite,
			Array: true,
			Base:  figaro.NewKey(1),
			Index: figaro.Operand{Provenance: figaro.Literal, Value: figaro.NewWord(1, 0)},
		}},
	}
	result := New(nil).AnalyzeEntry(entry, state.NewStorage())
	if result.Err == nil || !strings.Contains(result.Err.Error(), "out of range") {
		t.Errorf("expected out-of-range error, got %v", result.Err)
	}
}

func TestOracle_RepeatedAccessesArePricedWarm(t *testing.T) {
	slot := figaro.NewKey(0)
	entry := figaro.Handler{
		Name: "f",
		Ops:  []figaro.StorageOp{figaro.ReadOp(slot), figaro.ReadOp(slot)},
	}
	result := New(nil).AnalyzeEntry(entry, state.NewStorage())
	if result.Err != nil {
		t.Fatalf("analysis failed: %v", result.Err)
	}
	if want, got := figaro.Gas(147+2100+100), result.Cost.Value(); want != got {
		t.Errorf("unexpected cost, wanted %d, got %d", want, got)
	}
}

func TestOracle_EntryItemizationSumsToTheFigure(t *testing.T) {
	entry := figaro.Handler{
		Name: "f",
		Ops: []figaro.StorageOp{
			figaro.ReadOp(figaro.NewKey(0)),
			figaro.WriteOp(figaro.NewKey(1)),
		},
	}
	result := New(nil).AnalyzeEntry(entry, state.NewStorage())
	if result.Err != nil {
		t.Fatalf("analysis failed: %v", result.Err)
	}
	var sum figaro.Gas
	for _, item := range result.Items {
		sum += item
	}
	if want, got := result.Cost.Value(), sum; want != got {
		t.Errorf("items do not sum to the figure, wanted %d, got %d", want, got)
	}
}

func TestOracle_SiblingEntriesDoNotShareWarmth(t *testing.T) {
	// two entries reading the same slot must both pay the cold tariff
	slot := figaro.NewKey(0)
	contract := &Contract{
		Name: "C",
		Vars: []StateVar{{Name: "a", Kind: Scalar, Type: "uint256", Public: true}},
		Functions: []figaro.Handler{{
			Name:        "peek",
			ReturnWords: 1,
			Ops:         []figaro.StorageOp{figaro.ReadOp(slot), figaro.ReadOp(slot)},
		}},
	}
	report, err := New(nil).Analyze(contract, Options{})
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	for _, result := range report.External {
		if result.Err != nil {
			t.Fatalf("entry %s failed: %v", result.Entry.Signature(), result.Err)
		}
		if got := result.Cost.Value(); got < 2100 {
			t.Errorf("entry %s priced below the cold tariff: %d", result.Entry.Signature(), got)
		}
	}
}
