package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
)

// plotSamples is the number of x positions sampled per membership curve.
const plotSamples = 400

var termColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
}

// SaveMembershipPNG renders one variable's membership functions to a PNG
// file: one line per linguistic term over the variable's universe.
func SaveMembershipPNG(path string, v fuzzy.Variable) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s membership", v.Name)
	p.X.Label.Text = v.Name
	p.Y.Label.Text = "membership"
	p.Y.Min, p.Y.Max = 0, 1.05

	terms := orderedTerms(v.Sets)
	step := (v.Hi - v.Lo) / float64(plotSamples-1)
	for i, term := range terms {
		pts := make(plotter.XYs, plotSamples)
		for j := range pts {
			x := v.Lo + float64(j)*step
			pts[j].X = x
			pts[j].Y = v.Membership(term, x)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build %s line: %w", term, err)
		}
		line.Color = termColors[i%len(termColors)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(term, line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save membership plot: %w", err)
	}
	return nil
}

// SaveMembershipPlots writes one PNG per engine variable (the two inputs
// and the output) into dir, creating it if needed. File names follow the
// variable names.
func SaveMembershipPlots(dir string, ps *fuzzy.ParameterSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot dir: %w", err)
	}
	for _, name := range []string{fuzzy.AccelFeature, fuzzy.GyroFeature, fuzzy.ScoreFeature} {
		v, ok := ps.Variable(name)
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+".png")
		if err := SaveMembershipPNG(path, v); err != nil {
			return err
		}
	}
	return nil
}
