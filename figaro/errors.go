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

// ConstError is an error type for constant error values.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrNoHandler is reported when call data matches no registered selector
	// and no fallback handler is installed.
	ErrNoHandler = ConstError("no handler for call")

	// ErrMalformedCallData is reported when the call data is too short to
	// contain a selector and no fallback handler is installed to absorb it.
	ErrMalformedCallData = ConstError("malformed call data")
)
