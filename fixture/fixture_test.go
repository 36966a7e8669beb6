// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fixture

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Figaro/oracle"
)

func TestParseFile_GoldenFixture(t *testing.T) {
	fixture, err := ParseFile(filepath.Join("testdata", "storage_costs.sol"))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	if want, got := "C", fixture.Contract.Name; want != got {
		t.Errorf("unexpected contract name, wanted %s, got %s", want, got)
	}
	if want, got := (oracle.Options{Optimize: true, OptimizeRuns: 2}), fixture.Options; want != got {
		t.Errorf("unexpected options, wanted %+v, got %+v", want, got)
	}
	if fixture.Expected == nil {
		t.Fatalf("expected block missing")
	}
	if want, got := int64(69117), fixture.Expected.Creation.TotalCost; want != got {
		t.Errorf("unexpected expected total, wanted %d, got %d", want, got)
	}
	if want, got := 4, len(fixture.Expected.External); want != got {
		t.Errorf("unexpected number of expected figures, wanted %d, got %d", want, got)
	}
}

func TestGoldenFixture_OracleMatchesExpectation(t *testing.T) {
	fixture, err := ParseFile(filepath.Join("testdata", "storage_costs.sol"))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	report, err := oracle.New(nil).Analyze(fixture.Contract, fixture.Options)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if diffs := fixture.Expected.Diff(report); len(diffs) > 0 {
		t.Errorf("report deviates from expectation:\n\t%s", strings.Join(diffs, "\n\t"))
	}
}

func TestParse_ContractModel(t *testing.T) {
	fixture, err := Parse(`
		contract C {
			uint public a;
			uint8[] public b;
			uint internal hidden;
			function f1(uint256 x) public returns (uint256) {
				a = x;
				b[uint8(msg.data[0])] = uint8(x);
			}
			fallback() external payable {}
		}
	`)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	contract := fixture.Contract

	if want, got := 3, len(contract.Vars); want != got {
		t.Fatalf("unexpected number of state variables, wanted %d, got %d", want, got)
	}
	if v, _ := contract.Var("a"); v.Kind != oracle.Scalar || !v.Public || v.Type != "uint256" {
		t.Errorf("unexpected declaration of a: %+v", v)
	}
	if v, _ := contract.Var("b"); v.Kind != oracle.DynamicArray || !v.Public || v.Type != "uint8" {
		t.Errorf("unexpected declaration of b: %+v", v)
	}
	if v, _ := contract.Var("hidden"); v.Public {
		t.Errorf("internal variable parsed as public")
	}

	if want, got := 1, len(contract.Functions); want != got {
		t.Fatalf("unexpected number of functions, wanted %d, got %d", want, got)
	}
	f1 := contract.Functions[0]
	if want, got := "f1(uint256)", f1.Signature(); want != got {
		t.Errorf("unexpected signature, wanted %s, got %s", want, got)
	}
	if want, got := 1, f1.ReturnWords; want != got {
		t.Errorf("unexpected return words, wanted %d, got %d", want, got)
	}
	if want, got := 2, len(f1.Ops); want != got {
		t.Fatalf("unexpected number of operations, wanted %d, got %d", want, got)
	}
	slotA, _ := contract.SlotOf("a")
	slotB, _ := contract.SlotOf("b")
	if op := f1.Ops[0]; op.Array || op.Slot != slotA {
		t.Errorf("unexpected first operation: %v", op)
	}
	if op := f1.Ops[1]; !op.Array || op.Base != slotB {
		t.Errorf("unexpected second operation: %v", op)
	}
	if op := f1.Ops[1]; op.Index.Range == nil || op.Index.Range.Max != 255 {
		t.Errorf("narrowing cast range not retained: %v", op.Index)
	}

	if contract.Fallback == nil || !contract.Fallback.Payable {
		t.Errorf("payable fallback not parsed: %+v", contract.Fallback)
	}
}

func TestParse_IndexProvenance(t *testing.T) {
	tests := map[string]struct {
		statement  string
		provenance string
	}{
		"literal":        {"b[3] = x", "Literal"},
		"parameter":      {"b[x] = 1", "InputDerived[unbounded]"},
		"cast parameter": {"b[uint8(x)] = 1", "InputDerived[0..255]"},
		"call data":      {"b[uint16(msg.data[0])] = 1", "InputDerived[0..65535]"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fixture, err := Parse(`
				contract C {
					uint8[] b;
					function f(uint256 x) public {
						` + test.statement + `;
					}
				}
			`)
			if err != nil {
				t.Fatalf("failed to parse fixture: %v", err)
			}
			op := fixture.Contract.Functions[0].Ops[0]
			if got := op.Index.String(); !strings.HasPrefix(got, test.provenance) {
				t.Errorf("unexpected operand, wanted prefix %s, got %s", test.provenance, got)
			}
		})
	}
}

func TestParse_ReadsPrecedeTheWrite(t *testing.T) {
	fixture, err := Parse(`
		contract C {
			uint a;
			uint b;
			function f() public {
				a = b;
			}
		}
	`)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	ops := fixture.Contract.Functions[0].Ops
	if len(ops) != 2 {
		t.Fatalf("unexpected number of operations: %v", ops)
	}
	if ops[0].Kind.String() != "read" || ops[1].Kind.String() != "write" {
		t.Errorf("unexpected operation order: %v", ops)
	}
}

func TestParse_Directives(t *testing.T) {
	fixture, err := Parse(`
		contract C { }
		// ====
		// optimize: false
		// optimize-runs: 200
		// schedule: istanbul
	`)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	if fixture.Options.Optimize {
		t.Errorf("optimize directive not honored")
	}
	if want, got := 200, fixture.Options.OptimizeRuns; want != got {
		t.Errorf("unexpected run count, wanted %d, got %d", want, got)
	}
	if want, got := "istanbul", fixture.Schedule; want != got {
		t.Errorf("unexpected schedule, wanted %s, got %s", want, got)
	}
	if fixture.Expected != nil {
		t.Errorf("fixture without expectations should have a nil expected block")
	}
}

func TestParse_DetectsIssues(t *testing.T) {
	tests := map[string]string{
		"empty input": "",
		"missing contract keyword": `
			agreement C { }`,
		"unterminated contract": `
			contract C {`,
		"trailing input": `
			contract C { } contract D { }`,
		"unsupported declaration": `
			contract C { uint super public a; }`,
		"unsupported visibility": `
			contract C { uint borked a; }`,
		"duplicate variable": `
			contract C { uint a; uint a; }`,
		"unsupported member": `
			contract C { constructor() { } }`,
		"fallback with body": `
			contract C { fallback() external { a = 1; } }`,
		"duplicate fallback": `
			contract C { fallback() external { } fallback() external { } }`,
		"nested block": `
			contract C { function f() public { if { } } }`,
		"assignment to undeclared": `
			contract C { function f() public { a = 1; } }`,
		"missing array index": `
			contract C { uint8[] b; function f() public { b = 1; } }`,
		"index on scalar": `
			contract C { uint a; function f() public { a[0] = 1; } }`,
		"unsupported index": `
			contract C { uint8[] b; function f() public { b[y] = 1; } }`,
		"unsupported statement": `
			contract C { uint a; function f() public { a += 1; } }`,
		"unknown directive": `
			contract C { }
			// ====
			// optimise: true`,
		"invalid optimize value": `
			contract C { }
			// ====
			// optimize: yep`,
		"negative run count": `
			contract C { }
			// ====
			// optimize-runs: -1`,
		"malformed expectation": `
			contract C { }
			// ====
			// ----
			// creation: 42`,
		"unknown expectation block": `
			contract C { }
			// ====
			// ----
			// internal: { }`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(src); err == nil {
				t.Errorf("expected parsing to fail")
			}
		})
	}
}

func TestExpected_DiffDetectsDeviations(t *testing.T) {
	fixture, err := Parse(`
		contract C { uint public a; }
		// ====
		// optimize: true
		// ----
		// creation: { codeDepositCost: 0, executionCost: 0, totalCost: 0 }
		// external: { a(): 1, gone(): 2 }
	`)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	report, err := oracle.New(nil).Analyze(fixture.Contract, fixture.Options)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	diffs := fixture.Expected.Diff(report)
	if len(diffs) == 0 {
		t.Fatalf("expected deviations to be reported")
	}
	joined := strings.Join(diffs, "\n")
	for _, fragment := range []string{"codeDepositCost", "different figure for a()", "missing figure for gone()"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("missing deviation %q in:\n%s", fragment, joined)
		}
	}
}
