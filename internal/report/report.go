package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"relane/internal/sim"
	"relane/internal/trace"
	"relane/internal/workload"
)

var printer = message.NewPrinter(language.English)

// Number formats an integer with thousands separators.
func Number(v uint64) string {
	return printer.Sprintf("%d", v)
}

// Summary lists headline figures for a completed run as label/value pairs.
func Summary(spec sim.Spec, result *workload.Result) [][2]string {
	pairs := [][2]string{
		{"Lanes", fmt.Sprintf("%d", spec.Lanes)},
		{"Depth", fmt.Sprintf("%d", spec.Depth)},
		{"Ticks", Number(result.Ticks)},
		{"Blocks admitted", Number(result.Admitted)},
		{"Blocks released", Number(result.Released)},
		{"Counter blocks", Number(result.Counters.BlocksProcessed)},
		{"Counter cycles", Number(result.Counters.CyclesElapsed)},
	}
	if result.Ticks > 0 {
		pairs = append(pairs, [2]string{
			"Throughput",
			printer.Sprintf("%.3f blocks/tick", float64(result.Released)/float64(result.Ticks)),
		})
	}
	return pairs
}

// LaneAdmits lists per-lane admission counts for a completed run.
func LaneAdmits(result *workload.Result) (headers []string, rows [][]string) {
	headers = []string{"Lane", "Admitted"}
	for lane, n := range result.LaneAdmits {
		rows = append(rows, []string{fmt.Sprintf("%d", lane), Number(n)})
	}
	return headers, rows
}

// Runs lists stored runs newest first.
func Runs(runs []trace.RunInfo) (headers []string, rows [][]string) {
	headers = []string{"Run", "Created", "Ticks", "Admitted", "Released", "Status"}
	for _, run := range runs {
		status := "incomplete"
		if run.Completed {
			status = "complete"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			Number(run.Ticks),
			Number(run.BlocksAdmitted),
			Number(run.BlocksReleased),
			status,
		})
	}
	return headers, rows
}

// Lanes lists a stored run's per-lane event breakdown.
func Lanes(stats []trace.LaneStats) (headers []string, rows [][]string) {
	headers = []string{"Lane", "Admits", "Releases", "Stalls"}
	for _, ls := range stats {
		rows = append(rows, []string{
			fmt.Sprintf("%d", ls.Lane),
			Number(ls.Admits),
			Number(ls.Releases),
			Number(ls.Stalls),
		})
	}
	return headers, rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
