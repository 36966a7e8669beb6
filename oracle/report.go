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
	"strings"

	"golang.org/x/exp/slices"
)

// Report is the full output of one oracle run: the creation figures and one
// classified figure per external entry point.
type Report struct {
	Creation CreationCost
	External []EntryResult
}

// String renders the report in the golden block shape harnesses diff against:
//
//	creation: { codeDepositCost: N, executionCost: N, totalCost: N }
//	external: { fallback: N, name(argtypes): N | "infinite", ... }
//
// The fallback entry comes first, named entries follow in signature order.
// The sentinel for an unbounded entry is the literal token "infinite",
// quotes included. An entry whose simulation failed renders a distinct error
// marker instead of a figure, so it can never be mistaken for a cost.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "creation: { codeDepositCost: %d, executionCost: %d, totalCost: %d }\n",
		r.Creation.CodeDepositCost, r.Creation.ExecutionCost, r.Creation.TotalCost)

	entries := make([]string, 0, len(r.External))
	for _, figure := range r.Figures() {
		entries = append(entries, fmt.Sprintf("%s: %s", figure.Signature, figure.Token))
	}
	fmt.Fprintf(&b, "external: { %s }\n", strings.Join(entries, ", "))
	return b.String()
}

// Figure is one rendered external entry of a report: the entry signature and
// the literal cost token a harness diffs against.
type Figure struct {
	Signature string
	Token     string
}

// Figures returns the rendered external figures in report order: fallback
// first, named entries sorted by signature.
func (r *Report) Figures() []Figure {
	res := make([]Figure, 0, len(r.External))
	for _, result := range r.sortedExternal() {
		res = append(res, Figure{Signature: result.Entry.Signature(), Token: renderCost(result)})
	}
	return res
}

func renderCost(result EntryResult) string {
	if result.Err != nil {
		return fmt.Sprintf("error(%q)", result.Err.Error())
	}
	if result.Cost.IsUnbounded() {
		return `"infinite"`
	}
	return result.Cost.String()
}

func (r *Report) sortedExternal() []EntryResult {
	res := slices.Clone(r.External)
	slices.SortFunc(res, func(a, b EntryResult) int {
		if a.Entry.IsFallback() != b.Entry.IsFallback() {
			if a.Entry.IsFallback() {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Entry.Signature(), b.Entry.Signature())
	})
	return res
}
