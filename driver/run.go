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
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/Figaro/figaro"
	"github.com/Fantom-foundation/Figaro/fixture"
	"github.com/Fantom-foundation/Figaro/oracle"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Evaluate gas cost fixtures and diff them against their expectations",
	ArgsUsage: "<fixture> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "schedule",
			Usage: "cost schedule to price with, overriding fixture directives",
		},
		&cli.StringFlag{
			Name:  "schedule-file",
			Usage: "load the cost schedule from the given JSON file",
		},
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "number of fixtures evaluated simultaneously",
			Value: runtime.NumCPU(),
		},
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() == 0 {
		return fmt.Errorf("no fixture files given")
	}

	override, err := resolveScheduleOverride(context)
	if err != nil {
		return err
	}

	jobCount := context.Int("jobs")
	if jobCount <= 0 {
		jobCount = runtime.NumCPU()
	}

	collector := issuesCollector{}
	var totalGas atomic.Int64
	var figureCount atomic.Int64

	start := time.Now()
	paths := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < jobCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				gas, figures, err := runFixture(path, override)
				if err != nil {
					collector.AddIssue(path, err)
					continue
				}
				totalGas.Add(int64(gas))
				figureCount.Add(int64(figures))
			}
		}()
	}
	for _, path := range context.Args().Slice() {
		paths <- path
	}
	close(paths)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf(
		"Evaluated %d fixtures with %d figures in %v, ~%sgas total, found issues %d\n",
		context.Args().Len(), figureCount.Load(), elapsed.Round(time.Millisecond),
		unitconv.FormatPrefix(float64(totalGas.Load()), unitconv.SI, 0), collector.NumIssues(),
	)

	issues := collector.Issues()
	if len(issues) == 0 {
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("----------------------------\n")
		fmt.Printf("%s:\n%v\n", issue.path, issue.err)
	}
	return fmt.Errorf("failed to pass %d fixtures", len(issues))
}

// runFixture evaluates one fixture file and reports the sum of its concrete
// figures and their count. The produced block is printed; if the fixture
// carries an expected block, deviations are reported as an error.
func runFixture(path string, override *figaro.Schedule) (figaro.Gas, int, error) {
	parsed, err := fixture.ParseFile(path)
	if err != nil {
		return 0, 0, err
	}

	schedule := override
	if schedule == nil && parsed.Schedule != "" {
		if schedule = figaro.GetSchedule(parsed.Schedule); schedule == nil {
			return 0, 0, fmt.Errorf("unknown cost schedule %q", parsed.Schedule)
		}
	}

	report, err := oracle.New(schedule).Analyze(parsed.Contract, parsed.Options)
	if err != nil {
		return 0, 0, err
	}
	fmt.Printf("%s:\n%s", path, report)

	gas := report.Creation.TotalCost
	for _, result := range report.External {
		if result.Err == nil && !result.Cost.IsUnbounded() {
			gas += result.Cost.Value()
		}
	}

	if parsed.Expected != nil {
		if diffs := parsed.Expected.Diff(report); len(diffs) > 0 {
			return 0, 0, fmt.Errorf("report does not match expectation:\n\t%s", formatDiffs(diffs))
		}
	}
	return gas, len(report.External), nil
}

func resolveScheduleOverride(context *cli.Context) (*figaro.Schedule, error) {
	if path := context.String("schedule-file"); path != "" {
		return figaro.ScheduleFromFile(path)
	}
	if name := context.String("schedule"); name != "" {
		schedule := figaro.GetSchedule(name)
		if schedule == nil {
			return nil, fmt.Errorf("unknown cost schedule %q", name)
		}
		return schedule, nil
	}
	return nil, nil
}

func formatDiffs(diffs []string) string {
	res := ""
	for i, diff := range diffs {
		if i > 0 {
			res += "\n\t"
		}
		res += diff
	}
	return res
}

type issue struct {
	path string
	err  error
}

type issuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *issuesCollector) AddIssue(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{path, err})
}

func (c *issuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

func (c *issuesCollector) Issues() []issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issues
}
