// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Figaro/figaro"
)

var SchedulesCmd = cli.Command{
	Action: doListSchedules,
	Name:   "schedules",
	Usage:  "List the registered cost schedules and their storage tariffs",
}

func doListSchedules(context *cli.Context) error {
	schedules := figaro.GetAllRegisteredSchedules()
	names := maps.Keys(schedules)
	slices.Sort(names)

	for _, name := range names {
		schedule := schedules[name]
		fmt.Printf("%s:\n", name)
		for _, kind := range figaro.GetAllWriteKinds() {
			fmt.Printf("\t%-22v %6d\n", kind, schedule.WriteCost(kind))
		}
		fmt.Printf("\t%-22s %6d\n", "ColdRead", schedule.ReadCost(figaro.ColdAccess))
		fmt.Printf("\t%-22s %6d\n", "WarmRead", schedule.ReadCost(figaro.WarmAccess))
		fmt.Printf("\t%-22s %6d\n", "CodeDepositPerByte", schedule.CodeDepositPerByteGas)
	}
	return nil
}
