package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
)

// chartSamples is the number of x positions per membership curve in the
// HTML chart. Coarser than the PNG sampling; the chart is interactive.
const chartSamples = 200

// RenderMembershipHTML writes a standalone HTML page charting the
// membership functions of the engine variables (inputs and output).
func RenderMembershipHTML(w io.Writer, ps *fuzzy.ParameterSet) error {
	page := components.NewPage()
	page.PageTitle = "fall detector calibration"

	for _, name := range []string{fuzzy.AccelFeature, fuzzy.GyroFeature, fuzzy.ScoreFeature} {
		v, ok := ps.Variable(name)
		if !ok {
			continue
		}
		page.AddCharts(membershipChart(v))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render membership charts: %w", err)
	}
	return nil
}

func membershipChart(v fuzzy.Variable) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    v.Name,
			Subtitle: fmt.Sprintf("universe [%g, %g]", v.Lo, v.Hi),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: v.Name}),
		charts.WithYAxisOpts(opts.YAxis{Name: "membership", Min: 0, Max: 1}),
	)

	step := (v.Hi - v.Lo) / float64(chartSamples-1)
	xs := make([]string, chartSamples)
	for j := range xs {
		xs[j] = fmt.Sprintf("%.3g", v.Lo+float64(j)*step)
	}
	line.SetXAxis(xs)

	for _, term := range orderedTerms(v.Sets) {
		data := make([]opts.LineData, chartSamples)
		for j := range data {
			x := v.Lo + float64(j)*step
			data[j] = opts.LineData{Value: v.Membership(term, x)}
		}
		line.AddSeries(term, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}
	return line
}
