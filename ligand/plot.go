/*
 * plot.go, part of goDock.
 *
 * Copyright 2024 The goDock Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ligand

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/godock/histo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Summary describes a set of RMSDs.
type Summary struct {
	N                   int
	Mean, Std, Min, Max float64
	Below               int //values at or below the threshold
}

// Summarize returns a summary of rmsds, counting how many are at or below threshold.
func Summarize(rmsds []float64, threshold float64) Summary {
	s := Summary{N: len(rmsds)}
	if len(rmsds) == 0 {
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(rmsds, nil)
	if len(rmsds) == 1 {
		s.Std = 0
	}
	s.Min = floats.Min(rmsds)
	s.Max = floats.Max(rmsds)
	for _, v := range rmsds {
		if v <= threshold {
			s.Below++
		}
	}
	return s
}

func (S Summary) String() string {
	return fmt.Sprintf("%d conformers, RMSD %.3f +/- %.3f A (min %.3f, max %.3f), %d below the threshold", S.N, S.Mean, S.Std, S.Min, S.Max, S.Below)
}

// Histogram returns a histogram of the rmsds with bins of binwidth A, starting at 0.
func Histogram(rmsds []float64, binwidth float64) *histo.Data {
	top := binwidth
	if len(rmsds) > 0 {
		top = math.Max(binwidth, math.Ceil(floats.Max(rmsds)/binwidth+1)*binwidth)
	}
	n := int(math.Round(top / binwidth))
	h := histo.NewData(histo.Dividers(0, top, n), nil)
	h.AddData(rmsds...)
	return h
}

// PlotRMSDs saves a histogram of the RMSDs to the file filename. The format is
// deduced from the extension (png, svg, pdf, ...). The threshold is drawn as a vertical line.
// If fraction is true, the bins show the fraction of conformers instead of their number.
func PlotRMSDs(rmsds []float64, threshold float64, filename string, fraction bool) error {
	errid := "ligand/PlotRMSDs"
	if len(rmsds) == 0 {
		return fmt.Errorf("%s: no RMSDs to plot", errid)
	}
	const binwidth = 0.1
	h := Histogram(rmsds, binwidth)
	if fraction {
		h.Normalize()
	}
	p := plot.New()
	p.Title.Text = "Conformer RMSD to the anchor"
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "RMSD (A)"
	p.Y.Label.Text = "Conformers"
	if h.Normalized() {
		p.Y.Label.Text = "Fraction of conformers"
	}
	p.Add(plotter.NewGrid())
	div := h.Dividers()
	bars := make(plotter.XYs, 0, len(h.View()))
	for i, v := range h.View() {
		bars = append(bars, plotter.XY{X: (div[i] + div[i+1]) / 2, Y: v})
	}
	hist, err := plotter.NewHistogram(bars, len(bars))
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	hist.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(hist)
	line, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: h.Max()}})
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	line.Color = color.RGBA{R: 200, A: 255}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}
