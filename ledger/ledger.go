// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"fmt"

	"github.com/Fantom-foundation/Figaro/figaro"
)

// Category itemizes the running total of a cost ledger. Every charged amount
// is attributed to exactly one category; the total is always the sum of the
// items.
type Category int

const (
	Intrinsic Category = iota
	StorageColdAccess
	StorageZeroToNonzero
	StorageNonzeroToNonzero
	CodeDeposit
	numCategories int = iota
)

func (c Category) String() string {
	switch c {
	case Intrinsic:
		return "intrinsic"
	case StorageColdAccess:
		return "storage-cold-first-access"
	case StorageZeroToNonzero:
		return "storage-write-zero-to-nonzero"
	case StorageNonzeroToNonzero:
		return "storage-write-nonzero-to-nonzero"
	case CodeDeposit:
		return "code-deposit"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// GetAllCategories returns all itemization categories.
func GetAllCategories() []Category {
	return []Category{
		Intrinsic,
		StorageColdAccess,
		StorageZeroToNonzero,
		StorageNonzeroToNonzero,
		CodeDeposit,
	}
}

// CostLedger accumulates the cost of one simulation against a fixed cost
// schedule. All accounting is plain integer arithmetic: for a fixed sequence
// of charges the total is exactly reproducible, which is the load-bearing
// contract of the oracle. A ledger only ever grows; there are no refunds.
type CostLedger struct {
	schedule *figaro.Schedule
	items    [numCategories]figaro.Gas
}

// New creates an empty ledger pricing with the given schedule.
func New(schedule *figaro.Schedule) *CostLedger {
	return &CostLedger{schedule: schedule}
}

// ChargeIntrinsic adds a fixed base cost, e.g. the call overhead of an entry
// point. Negative amounts are rejected, totals never decrease.
func (l *CostLedger) ChargeIntrinsic(amount figaro.Gas) {
	l.charge(Intrinsic, amount)
}

// ChargeRead prices a storage read with the given access status. The warm
// tariff counts as part of the baseline execution cost; only the cold
// first-touch tariff is itemized separately.
func (l *CostLedger) ChargeRead(status figaro.AccessStatus) {
	if status == figaro.ColdAccess {
		l.charge(StorageColdAccess, l.schedule.ReadCost(figaro.ColdAccess))
		return
	}
	l.charge(Intrinsic, l.schedule.ReadCost(figaro.WarmAccess))
}

// ChargeWrite prices a storage write of the given kind. The cold surcharge
// and the value-transition tariff are itemized separately; their sum equals
// the schedule's fixed tariff for the kind.
func (l *CostLedger) ChargeWrite(kind figaro.WriteKind) {
	if kind == figaro.ColdZeroToNonzero || kind == figaro.ColdNonzeroToNonzero {
		l.charge(StorageColdAccess, l.schedule.WriteColdSurcharge())
	}
	if kind == figaro.ColdZeroToNonzero || kind == figaro.WarmZeroToNonzero {
		l.charge(StorageZeroToNonzero, l.schedule.WriteTransitionCost(true))
	} else {
		l.charge(StorageNonzeroToNonzero, l.schedule.WriteTransitionCost(false))
	}
}

// ChargeDeployment prices the deployment of runtime code of the given size:
// the per-byte code deposit plus the creation execution overhead.
func (l *CostLedger) ChargeDeployment(codeSizeBytes int) {
	deposit, execution := l.schedule.DeploymentCost(codeSizeBytes)
	l.charge(CodeDeposit, deposit)
	l.charge(Intrinsic, execution)
}

// Total returns the accumulated cost, the sum of all itemized categories.
func (l *CostLedger) Total() figaro.Gas {
	var res figaro.Gas
	for _, item := range l.items {
		res += item
	}
	return res
}

// Item returns the accumulated cost of one category.
func (l *CostLedger) Item(category Category) figaro.Gas {
	return l.items[category]
}

// Items returns the non-zero items of the ledger by category, for diagnostic
// output. Mutating the result does not affect the ledger.
func (l *CostLedger) Items() map[Category]figaro.Gas {
	res := make(map[Category]figaro.Gas)
	for _, category := range GetAllCategories() {
		if item := l.items[category]; item != 0 {
			res[category] = item
		}
	}
	return res
}

func (l *CostLedger) charge(category Category, amount figaro.Gas) {
	if amount < 0 {
		panic(fmt.Sprintf("negative charge of %d to %v", amount, category))
	}
	l.items[category] += amount
}
