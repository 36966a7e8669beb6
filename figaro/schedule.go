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

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Schedule is the versioned cost table the oracle prices simulations with.
// All golden figures produced by the oracle are relative to one schedule;
// swapping the schedule reproducibly swaps the figures. Schedules contain
// plain integers only, keeping every derived total exactly reproducible.
type Schedule struct {
	Name string `json:"name"`

	// Intrinsic call overhead.
	EntryPointBaseGas Gas `json:"entryPointBaseGas"` // dispatching into a named entry
	DecodeArgWordGas  Gas `json:"decodeArgWordGas"`  // per decoded argument word
	ReturnWordGas     Gas `json:"returnWordGas"`     // per returned word
	FallbackBaseGas   Gas `json:"fallbackBaseGas"`   // full cost of a bare fallback entry

	// Storage access tariffs.
	ColdSloadGas           Gas `json:"coldSloadGas"`           // first-touch read of a slot
	WarmStorageReadGas     Gas `json:"warmStorageReadGas"`     // repeated read of a slot
	ColdAccessSurchargeGas Gas `json:"coldAccessSurchargeGas"` // extra cost of a first-touch write
	SstoreSetGas           Gas `json:"sstoreSetGas"`           // write turning a zero slot non-zero
	SstoreResetGas         Gas `json:"sstoreResetGas"`         // write to an already non-zero slot

	// Deployment cost model.
	CodeDepositPerByteGas Gas `json:"codeDepositPerByteGas"`
	CodeCopyWordGas       Gas `json:"codeCopyWordGas"`
	CreationExecBaseGas   Gas `json:"creationExecBaseGas"`
}

// ReadCost returns the tariff of a storage read with the given access status.
func (s *Schedule) ReadCost(status AccessStatus) Gas {
	if status == ColdAccess {
		return s.ColdSloadGas
	}
	return s.WarmStorageReadGas
}

// WriteColdSurcharge returns the extra tariff of a first-touch write.
func (s *Schedule) WriteColdSurcharge() Gas {
	return s.ColdAccessSurchargeGas
}

// WriteTransitionCost returns the value-transition component of a write
// tariff, depending on whether the slot held zero before the write.
func (s *Schedule) WriteTransitionCost(zeroToNonzero bool) Gas {
	if zeroToNonzero {
		return s.SstoreSetGas
	}
	return s.SstoreResetGas
}

// WriteCost returns the full tariff of a storage write of the given kind.
func (s *Schedule) WriteCost(kind WriteKind) Gas {
	cost := Gas(0)
	if kind == ColdZeroToNonzero || kind == ColdNonzeroToNonzero {
		cost += s.WriteColdSurcharge()
	}
	zeroToNonzero := kind == ColdZeroToNonzero || kind == WarmZeroToNonzero
	return cost + s.WriteTransitionCost(zeroToNonzero)
}

// DeploymentCost returns the code-deposit and creation-execution components
// of deploying runtime code of the given size.
func (s *Schedule) DeploymentCost(codeSizeBytes int) (deposit, execution Gas) {
	deposit = Gas(codeSizeBytes) * s.CodeDepositPerByteGas
	execution = s.CreationExecBaseGas + s.CodeCopyWordGas*Gas(SizeInWords(uint64(codeSizeBytes)))
	return deposit, execution
}

// Validate checks the internal consistency of the schedule: all tariffs must
// be non-negative and write tariffs must not grow when a slot gets warmer or
// stays non-zero.
func (s *Schedule) Validate() error {
	values := []Gas{
		s.EntryPointBaseGas, s.DecodeArgWordGas, s.ReturnWordGas, s.FallbackBaseGas,
		s.ColdSloadGas, s.WarmStorageReadGas, s.ColdAccessSurchargeGas,
		s.SstoreSetGas, s.SstoreResetGas,
		s.CodeDepositPerByteGas, s.CodeCopyWordGas, s.CreationExecBaseGas,
	}
	for _, value := range values {
		if value < 0 {
			return fmt.Errorf("schedule %q contains negative tariff %d", s.Name, value)
		}
	}
	// together with non-negativity this keeps the full write tariff order:
	// cold writes are warm writes plus the non-negative surcharge
	if s.WriteCost(WarmZeroToNonzero) < s.WriteCost(WarmNonzeroToNonzero) {
		return fmt.Errorf("schedule %q prices zero-initialization below a plain update", s.Name)
	}
	return nil
}

// ScheduleFromFile loads a schedule from a JSON configuration file.
func ScheduleFromFile(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}
	var schedule Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file %s: %w", path, err)
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// SizeInWords returns the number of words required to store the given size,
// checking that size+32 does not overflow uint64.
func SizeInWords(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}
