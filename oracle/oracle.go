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
	"sync"

	"github.com/Fantom-foundation/Figaro/analysis"
	"github.com/Fantom-foundation/Figaro/dispatch"
	"github.com/Fantom-foundation/Figaro/figaro"
	"github.com/Fantom-foundation/Figaro/ledger"
	"github.com/Fantom-foundation/Figaro/state"
)

// Oracle assigns deterministic gas figures to contract deployments and to
// each of their external entry points, relative to one cost schedule. Any two
// runs over the same contract and options produce byte-identical figures;
// that reproducibility is the whole point of the component, since its output
// serves as a regression baseline.
type Oracle struct {
	schedule *figaro.Schedule
}

// New creates an oracle pricing with the given schedule, or with the default
// schedule if nil is passed.
func New(schedule *figaro.Schedule) *Oracle {
	if schedule == nil {
		schedule = figaro.DefaultSchedule()
	}
	return &Oracle{schedule: schedule}
}

// Account is the result of a deployment simulation: an all-zero storage
// instance paired with the immutable dispatch table of the contract.
type Account struct {
	storage  *state.Storage
	table    *dispatch.Table[figaro.Handler]
	codeSize int
}

// Snapshot returns an independent copy of the account storage. Every call
// simulation runs on its own snapshot of the post-deployment state.
func (a *Account) Snapshot() *state.Storage {
	return a.storage.Clone()
}

// Dispatch routes raw call data through the account's dispatch table.
func (a *Account) Dispatch(callData figaro.Data) (figaro.Handler, figaro.Data, error) {
	return a.table.Dispatch(callData)
}

// CodeSize returns the runtime code size the deployment was priced with.
func (a *Account) CodeSize() int {
	return a.codeSize
}

// CreationCost summarizes the cost figures of a deployment simulation.
type CreationCost struct {
	CodeDepositCost figaro.Gas
	ExecutionCost   figaro.Gas
	TotalCost       figaro.Gas
}

// Deploy simulates the deployment of the contract: it instantiates an
// all-zero storage, populates the dispatch table, and prices the code deposit
// and creation execution. Deploying the same contract with the same options
// repeatedly yields identical figures.
func (o *Oracle) Deploy(contract *Contract, options Options) (*Account, CreationCost, error) {
	table := dispatch.NewTable[figaro.Handler]()
	for _, entry := range contract.EntryPoints() {
		if err := table.Register(entry.Selector(), entry); err != nil {
			return nil, CreationCost{}, fmt.Errorf("failed to build dispatch table for %s: %w", contract.Name, err)
		}
	}
	if contract.Fallback != nil {
		if err := table.RegisterFallback(*contract.Fallback); err != nil {
			return nil, CreationCost{}, err
		}
	}

	size := CodeSize(contract, options)
	costs := ledger.New(o.schedule)
	costs.ChargeDeployment(size)

	account := &Account{
		storage:  state.NewStorage(),
		table:    table,
		codeSize: size,
	}
	creation := CreationCost{
		CodeDepositCost: costs.Item(ledger.CodeDeposit),
		ExecutionCost:   costs.Item(ledger.Intrinsic),
		TotalCost:       costs.Total(),
	}
	return account, creation, nil
}

// EntryResult is the outcome of analyzing one entry point: a classified cost
// figure, or an error that aborted this entry's figure without affecting its
// siblings. For concrete figures, Items carries the ledger itemization for
// diagnostic output.
type EntryResult struct {
	Entry figaro.Handler
	Cost  analysis.Cost
	Items map[ledger.Category]figaro.Gas
	Err   error
}

// Analyze deploys the contract and produces the full cost report: the
// creation figures plus one classified figure per external entry point,
// including the fallback. Entry points are evaluated concurrently, each
// against its own snapshot of the post-deployment state.
func (o *Oracle) Analyze(contract *Contract, options Options) (*Report, error) {
	account, creation, err := o.Deploy(contract, options)
	if err != nil {
		return nil, err
	}

	entries := contract.EntryPoints()
	if contract.Fallback != nil {
		entries = append(entries, *contract.Fallback)
	}

	results := make([]EntryResult, len(entries))
	var wg sync.WaitGroup
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.AnalyzeEntry(entries[i], account.Snapshot())
		}(i)
	}
	wg.Wait()

	return &Report{Creation: creation, External: results}, nil
}

// AnalyzeEntry classifies and, if bounded, simulates a single entry point
// against the given state. The state is mutated by the simulation; callers
// must pass an isolated snapshot.
func (o *Oracle) AnalyzeEntry(entry figaro.Handler, st figaro.AccountState) EntryResult {
	if analysis.Classify(entry.Ops) == analysis.Unbounded {
		return EntryResult{Entry: entry, Cost: analysis.UnboundedCost()}
	}
	costs, err := o.simulate(entry, st)
	if err != nil {
		return EntryResult{Entry: entry, Err: err}
	}
	return EntryResult{
		Entry: entry,
		Cost:  analysis.ConcreteCost(costs.Total()),
		Items: costs.Items(),
	}
}

// symbolicNonzero is the value simulated writes store. The written value is
// unconstrained input, so writes are priced for the value-carrying case,
// turning the target slot non-zero.
var symbolicNonzero = figaro.NewWord(1)

// simulate executes the single fixed path of a bounded handler body against
// the given state and returns the itemized cost ledger of the run.
func (o *Oracle) simulate(entry figaro.Handler, st figaro.AccountState) (*ledger.CostLedger, error) {
	costs := ledger.New(o.schedule)
	costs.ChargeIntrinsic(o.intrinsicCost(entry))
	for _, op := range entry.Ops {
		switch {
		case !op.Array && op.Kind == figaro.OpRead:
			_, status := st.Read(op.Slot)
			costs.ChargeRead(status)
		case !op.Array:
			costs.ChargeWrite(st.Write(op.Slot, symbolicNonzero))
		default:
			index := op.Index.Value.ToUint256()
			if !index.IsUint64() {
				return nil, fmt.Errorf("array index %v out of range in %s", op.Index.Value, entry.Signature())
			}
			if op.Kind == figaro.OpRead {
				_, status := st.ArrayRead(op.Base, index.Uint64())
				costs.ChargeRead(status)
			} else {
				kind, _ := st.ArrayWrite(op.Base, index.Uint64(), symbolicNonzero)
				costs.ChargeWrite(kind)
			}
		}
	}
	return costs, nil
}

// intrinsicCost is the call overhead of an entry: the bare fallback pays only
// its base tariff, named entries additionally pay for argument decoding and
// for returning results.
func (o *Oracle) intrinsicCost(entry figaro.Handler) figaro.Gas {
	if entry.IsFallback() {
		return o.schedule.FallbackBaseGas
	}
	return o.schedule.EntryPointBaseGas +
		o.schedule.DecodeArgWordGas*figaro.Gas(len(entry.Params)) +
		o.schedule.ReturnWordGas*figaro.Gas(entry.ReturnWords)
}
