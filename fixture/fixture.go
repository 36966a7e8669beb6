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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/Figaro/oracle"
)

// Fixture is one parsed golden test case: a contract definition, the layout
// directives it is to be priced under, and the optional expected-output block
// a harness diffs oracle results against.
//
// The file format has three sections. The contract definition comes first;
// a `// ====` line opens the directive block; a `// ----` line opens the
// expected block:
//
//	contract C { ... }
//	// ====
//	// optimize: true
//	// optimize-runs: 2
//	// ----
//	// creation: { codeDepositCost: 69000, executionCost: 117, totalCost: 69117 }
//	// external: { fallback: 118, a(): 2305, ... }
type Fixture struct {
	Contract *oracle.Contract
	Options  oracle.Options
	Schedule string // cost schedule name, empty for the default
	Expected *Expected
}

const (
	directiveMarker = "// ===="
	expectedMarker  = "// ----"
)

// ParseFile loads and parses a fixture file.
func ParseFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	fixture, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fixture, nil
}

// Parse parses fixture source.
func Parse(src string) (*Fixture, error) {
	contractSrc, directives, expected := splitSections(src)

	contract, err := parseContract(contractSrc)
	if err != nil {
		return nil, err
	}

	res := &Fixture{Contract: contract}
	if err := res.parseDirectives(directives); err != nil {
		return nil, err
	}
	if expected != nil {
		block, err := parseExpected(expected)
		if err != nil {
			return nil, err
		}
		res.Expected = block
	}
	return res, nil
}

// splitSections separates the contract source from the directive and
// expected-output comment blocks. A section marker must be the only content
// of its line.
func splitSections(src string) (contract string, directives, expected []string) {
	var section int
	var contractLines []string
	for _, line := range strings.Split(src, "\n") {
		switch {
		case strings.TrimSpace(line) == directiveMarker:
			section = 1
		case strings.TrimSpace(line) == expectedMarker:
			section = 2
		case section == 0:
			contractLines = append(contractLines, line)
		case section == 1:
			directives = append(directives, line)
		default:
			expected = append(expected, line)
		}
	}
	if section < 2 {
		expected = nil
	}
	return strings.Join(contractLines, "\n"), directives, expected
}

func (f *Fixture) parseDirectives(lines []string) error {
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return fmt.Errorf("malformed directive %q", line)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "optimize":
			optimize, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid optimize directive %q", value)
			}
			f.Options.Optimize = optimize
		case "optimize-runs":
			runs, err := strconv.Atoi(value)
			if err != nil || runs < 0 {
				return fmt.Errorf("invalid optimize-runs directive %q", value)
			}
			f.Options.OptimizeRuns = runs
		case "schedule":
			f.Schedule = value
		default:
			return fmt.Errorf("unrecognized directive %q", key)
		}
	}
	return nil
}

// Expected is the parsed expected-output block of a fixture.
type Expected struct {
	Creation ExpectedCreation
	External []ExpectedFigure
}

// ExpectedCreation holds the expected deployment figures.
type ExpectedCreation struct {
	CodeDepositCost int64
	ExecutionCost   int64
	TotalCost       int64
}

// ExpectedFigure holds the expected cost token of one external entry, either
// a decimal figure or the quoted sentinel `"infinite"`.
type ExpectedFigure struct {
	Signature string
	Token     string
}

func parseExpected(lines []string) (*Expected, error) {
	res := &Expected{}
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("malformed expectation %q", line)
		}
		body, err := blockBody(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("malformed expectation %q: %w", line, err)
		}
		switch strings.TrimSpace(key) {
		case "creation":
			if err := res.parseCreation(body); err != nil {
				return nil, err
			}
		case "external":
			if err := res.parseExternal(body); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unrecognized expectation block %q", key)
		}
	}
	return res, nil
}

func blockBody(value string) (string, error) {
	if !strings.HasPrefix(value, "{") || !strings.HasSuffix(value, "}") {
		return "", fmt.Errorf("expected a { ... } block")
	}
	return strings.TrimSpace(value[1 : len(value)-1]), nil
}

func (e *Expected) parseCreation(body string) error {
	for _, field := range strings.Split(body, ",") {
		key, value, found := strings.Cut(field, ":")
		if !found {
			return fmt.Errorf("malformed creation field %q", field)
		}
		cost, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed creation cost %q", value)
		}
		switch strings.TrimSpace(key) {
		case "codeDepositCost":
			e.Creation.CodeDepositCost = cost
		case "executionCost":
			e.Creation.ExecutionCost = cost
		case "totalCost":
			e.Creation.TotalCost = cost
		default:
			return fmt.Errorf("unrecognized creation field %q", key)
		}
	}
	return nil
}

func (e *Expected) parseExternal(body string) error {
	for _, field := range strings.Split(body, ",") {
		// Signatures contain no colons, so the last colon separates the token.
		pos := strings.LastIndex(field, ":")
		if pos < 0 {
			return fmt.Errorf("malformed external figure %q", field)
		}
		e.External = append(e.External, ExpectedFigure{
			Signature: strings.TrimSpace(field[:pos]),
			Token:     strings.TrimSpace(field[pos+1:]),
		})
	}
	return nil
}

// Diff compares a produced report against the expected block and returns a
// human-readable list of deviations, empty if the report matches.
func (e *Expected) Diff(report *oracle.Report) (res []string) {
	if want, got := e.Creation.CodeDepositCost, int64(report.Creation.CodeDepositCost); want != got {
		res = append(res, fmt.Sprintf("different codeDepositCost, want %d, got %d", want, got))
	}
	if want, got := e.Creation.ExecutionCost, int64(report.Creation.ExecutionCost); want != got {
		res = append(res, fmt.Sprintf("different executionCost, want %d, got %d", want, got))
	}
	if want, got := e.Creation.TotalCost, int64(report.Creation.TotalCost); want != got {
		res = append(res, fmt.Sprintf("different totalCost, want %d, got %d", want, got))
	}

	figures := report.Figures()
	produced := make(map[string]string, len(figures))
	for _, figure := range figures {
		produced[figure.Signature] = figure.Token
	}
	for _, want := range e.External {
		got, found := produced[want.Signature]
		if !found {
			res = append(res, fmt.Sprintf("missing figure for %s", want.Signature))
			continue
		}
		delete(produced, want.Signature)
		if got != want.Token {
			res = append(res, fmt.Sprintf("different figure for %s, want %s, got %s", want.Signature, want.Token, got))
		}
	}
	for signature, token := range produced {
		res = append(res, fmt.Sprintf("unexpected figure %s: %s", signature, token))
	}
	return res
}
