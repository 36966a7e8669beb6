// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package dispatch

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// Table routes external calls to registered handlers by the leading 4-byte
// selector of the call data, with an optional single fallback handler
// receiving everything that matches no selector. Registration happens during
// deployment, before any call is dispatched; a populated table is never
// mutated afterwards and is safe for concurrent dispatching.
type Table[H any] struct {
	handlers map[figaro.Selector]H
	fallback *H
}

// NewTable creates an empty dispatch table.
func NewTable[H any]() *Table[H] {
	return &Table[H]{
		handlers: make(map[figaro.Selector]H),
	}
}

// Register binds a handler to a selector. Binding the same selector twice is
// an error.
func (t *Table[H]) Register(selector figaro.Selector, handler H) error {
	if _, found := t.handlers[selector]; found {
		return fmt.Errorf("selector %v registered twice", selector)
	}
	t.handlers[selector] = handler
	return nil
}

// RegisterFallback installs the handler invoked when no selector matches.
// At most one fallback may be registered.
func (t *Table[H]) RegisterFallback(handler H) error {
	if t.fallback != nil {
		return fmt.Errorf("fallback handler registered twice")
	}
	t.fallback = &handler
	return nil
}

// HasFallback reports whether a fallback handler is installed.
func (t *Table[H]) HasFallback() bool {
	return t.fallback != nil
}

// NumSelectors returns the number of selector-bound handlers, excluding the
// fallback. The dispatcher's intrinsic cost scales with this number.
func (t *Table[H]) NumSelectors() int {
	return len(t.handlers)
}

// Selectors returns all bound selectors in ascending byte order.
func (t *Table[H]) Selectors() []figaro.Selector {
	res := make([]figaro.Selector, 0, len(t.handlers))
	for selector := range t.handlers {
		res = append(res, selector)
	}
	slices.SortFunc(res, func(a, b figaro.Selector) int {
		return bytes.Compare(a[:], b[:])
	})
	return res
}

// Dispatch selects the handler for the given call data and returns it
// together with the argument bytes to be passed to it. Exactly one handler is
// selected for every possible byte sequence, or an error is reported:
//   - call data shorter than a selector is absorbed in full by the fallback,
//     or fails with ErrMalformedCallData if none is installed;
//   - a matching selector receives the bytes following the selector;
//   - anything else goes to the fallback in full, or fails with ErrNoHandler.
func (t *Table[H]) Dispatch(callData figaro.Data) (H, figaro.Data, error) {
	var none H
	if len(callData) < len(figaro.Selector{}) {
		if t.fallback != nil {
			return *t.fallback, callData, nil
		}
		return none, nil, figaro.ErrMalformedCallData
	}
	selector := figaro.Selector(callData[0:4])
	if handler, found := t.handlers[selector]; found {
		return handler, figaro.Data(callData[4:]), nil
	}
	if t.fallback != nil {
		return *t.fallback, callData, nil
	}
	return none, nil, figaro.ErrNoHandler
}
