// Package report renders calibration results for humans: a text summary,
// PNG membership-function plots, and a standalone HTML chart page.
package report

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/calib"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/window"
)

// termRank fixes the display order of linguistic terms, low to high.
var termRank = map[string]int{
	"low": 0, "slow": 0,
	"medium": 1,
	"high":   2, "fast": 2,
}

// orderedTerms returns the set names of a trimf map in linguistic order.
// Unknown names sort alphabetically after the known ones.
func orderedTerms(trimf map[string]fuzzy.Triangle) []string {
	names := make([]string, 0, len(trimf))
	for n := range trimf {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := termRank[names[i]]
		rj, jok := termRank[names[j]]
		switch {
		case iok && jok && ri != rj:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// WriteText renders the calibration summary: run parameters, per-feature
// distribution statistics, and the derived membership triples. The section
// order is fixed so diffs between runs are meaningful.
func WriteText(w io.Writer, res *calib.Result) error {
	ps := res.Params
	fmt.Fprintf(w, "calibration report\n")
	fmt.Fprintf(w, "------------------\n")
	fmt.Fprintf(w, "policy:        %s\n", ps.Policy)
	fmt.Fprintf(w, "sampling rate: %.2f Hz\n", ps.SampleRate)
	fmt.Fprintf(w, "window:        %d samples, hop %d\n", res.Plan.WinN, res.Plan.HopN)
	fmt.Fprintf(w, "windows:       %d\n\n", ps.Windows)

	for _, name := range window.FeatureNames {
		vp, ok := ps.Variables[name]
		if !ok {
			continue
		}
		col := window.Column(res.Features, name)
		fmt.Fprintf(w, "%s  universe [%g, %g]\n", name, vp.Universe[0], vp.Universe[1])
		fmt.Fprintf(w, "  mean %.4f  stddev %.4f\n", stat.Mean(col, nil), stat.StdDev(col, nil))
		if vp.Percentiles != nil {
			p := vp.Percentiles
			fmt.Fprintf(w, "  min %.4f  p25 %.4f  p50 %.4f  p75 %.4f  p95 %.4f  max %.4f\n",
				p.Min, p.P25, p.P50, p.P75, p.P95, p.Max)
		}
		for _, cls := range sortedKeys(vp.ClassPercentiles) {
			p := vp.ClassPercentiles[cls]
			fmt.Fprintf(w, "  %s: p50 %.4f  p95 %.4f\n", cls, p.P50, p.P95)
		}
		if vp.Threshold != nil {
			fmt.Fprintf(w, "  threshold %.4f\n", *vp.Threshold)
		}
		for _, term := range orderedTerms(vp.Trimf) {
			t := vp.Trimf[term]
			fmt.Fprintf(w, "  %-6s (%.4f, %.4f, %.4f)\n", term, t.A, t.B, t.C)
		}
		fmt.Fprintln(w)
	}

	if vp, ok := ps.Variables[fuzzy.ScoreFeature]; ok {
		fmt.Fprintf(w, "%s  universe [%g, %g]\n", fuzzy.ScoreFeature, vp.Universe[0], vp.Universe[1])
		for _, term := range orderedTerms(vp.Trimf) {
			t := vp.Trimf[term]
			fmt.Fprintf(w, "  %-6s (%.4f, %.4f, %.4f)\n", term, t.A, t.B, t.C)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
