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
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for cost schedules in Figaro.
//
// Golden cost figures are only meaningful relative to one versioned cost
// schedule. The registry makes schedules addressable by name so that the
// oracle, its driver, and test harnesses agree on the table in use, and so
// that additional schedules can be installed by package initialization code
// or loaded from configuration files.

// GetSchedule performs a lookup for the given name (case-insensitive) in the
// registry. The result is nil if no schedule was registered under the given
// name.
func GetSchedule(name string) *Schedule {
	scheduleRegistryLock.Lock()
	defer scheduleRegistryLock.Unlock()
	schedule, found := scheduleRegistry[strings.ToLower(name)]
	if !found {
		return nil
	}
	copy := schedule // callers must not mutate registered schedules
	return &copy
}

// GetAllRegisteredSchedules obtains all registered schedules by name.
func GetAllRegisteredSchedules() map[string]Schedule {
	scheduleRegistryLock.Lock()
	defer scheduleRegistryLock.Unlock()
	return maps.Clone(scheduleRegistry)
}

// RegisterSchedule registers a new cost schedule to be exported for general
// use in the binary. The name is not case-sensitive. An error is reported if
// a schedule was bound to the same name before or the schedule is invalid.
// This function is mainly intended to be used by package initialization code.
func RegisterSchedule(name string, schedule Schedule) error {
	key := strings.ToLower(name)
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("invalid initialization: %w", err)
	}
	scheduleRegistryLock.Lock()
	defer scheduleRegistryLock.Unlock()
	if _, found := scheduleRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple schedules registered for `%s`", key)
	}
	scheduleRegistry[key] = schedule
	return nil
}

// scheduleRegistry is a global registry for cost schedules of different
// protocol revisions.
var scheduleRegistry = map[string]Schedule{}

// scheduleRegistryLock to protect access to the registry.
var scheduleRegistryLock sync.Mutex

func init() {
	for _, schedule := range []Schedule{berlinSchedule, istanbulSchedule} {
		if err := RegisterSchedule(schedule.Name, schedule); err != nil {
			panic(err)
		}
	}
}

// berlinSchedule prices storage accesses with the cold/warm split introduced
// by EIP-2929. It is the default schedule of the oracle.
var berlinSchedule = Schedule{
	Name:                   "berlin",
	EntryPointBaseGas:      147,
	DecodeArgWordGas:       72,
	ReturnWordGas:          58,
	FallbackBaseGas:        118,
	ColdSloadGas:           2100,
	WarmStorageReadGas:     100,
	ColdAccessSurchargeGas: 2100,
	SstoreSetGas:           20000,
	SstoreResetGas:         2900, // SSTORE_RESET_GAS minus the cold surcharge, per EIP-2929
	CodeDepositPerByteGas:  200,
	CodeCopyWordGas:        3,
	CreationExecBaseGas:    84,
}

// istanbulSchedule prices storage accesses without a cold/warm split, as
// defined before EIP-2929.
var istanbulSchedule = Schedule{
	Name:                   "istanbul",
	EntryPointBaseGas:      147,
	DecodeArgWordGas:       72,
	ReturnWordGas:          58,
	FallbackBaseGas:        118,
	ColdSloadGas:           800,
	WarmStorageReadGas:     800,
	ColdAccessSurchargeGas: 0,
	SstoreSetGas:           20000,
	SstoreResetGas:         5000,
	CodeDepositPerByteGas:  200,
	CodeCopyWordGas:        3,
	CreationExecBaseGas:    84,
}

// DefaultSchedule returns the schedule golden figures are produced with
// unless a fixture or caller selects another one.
func DefaultSchedule() *Schedule {
	return GetSchedule("berlin")
}
