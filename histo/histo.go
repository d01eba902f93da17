/*
 * histo.go, part of goDock.
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

// Package histo contains a simple histogram type, used to summarize
// distributions of RMSDs and scores.
package histo

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram. Values outside the dividers are not counted.
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

// Dividers returns n+1 evenly spaced dividers from min to max, for a histogram of n bins.
func Dividers(min, max float64, n int) []float64 {
	if n < 1 || max <= min {
		panic("goDock/histo.Dividers: Ill-formed range or number of bins")
	}
	return floats.Span(make([]float64, n+1), min, max)
}

// NewData returns a new histogram from the dividers and rawdata given.
// rawdata can be nil. In that case, an empty histogram is created.
func NewData(dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) {
		panic("goDock/histo.NewData: at least 2 sorted dividers are needed")
	}
	d := new(Data)
	//I prefer to copy the slice to avoid somebody changing it from outside
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	return d
}

// AddData adds the given data point(s) to the histogram
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.normaunnorma(false)
	}
	for _, v := range point {
		for j, w := range D.dividers[:len(D.dividers)-1] {
			if w <= v && v < D.dividers[j+1] {
				D.histo[j]++
				D.total++
				break
			}
		}
	}
	//if it was normalized, we should return it to that state
	if norma {
		D.Normalize()
	}
}

// ReHisto replaces the contents of the histogram with the histogram of rawdata.
// rawdata is not modified.
func (D *Data) ReHisto(rawdata []float64) {
	data := make([]float64, len(rawdata))
	copy(data, rawdata)
	sort.Float64s(data)
	//stat.Histogram just panics instead of omitting the values that are off limits
	//so we remove them here before the call.
	maxi := sort.SearchFloat64s(data, D.dividers[len(D.dividers)-1])
	data = data[:maxi]
	mini := sort.SearchFloat64s(data, D.dividers[0])
	data = data[mini:]
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, data, nil)
}

// Total returns the number of data points in the histogram.
func (D *Data) Total() int {
	return D.total
}

// Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize normalizes the histogram, so the bins add up to 1.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// normalizes or un-normalizes the histogram depending
// on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// Dividers returns a copy of the dividers of the histogram
func (D *Data) Dividers() []float64 {
	ret := make([]float64, len(D.dividers))
	copy(ret, D.dividers)
	return ret
}

// View returns the bins of the histogram. Changes to the slice are reflected in the histogram.
func (D *Data) View() []float64 {
	return D.histo
}

// Max returns the value of the largest bin.
func (D *Data) Max() float64 {
	return floats.Max(D.histo)
}

// String prints a -hopefully- pretty string representation of
// the histogram, in 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("Normalized: %v, TotalData: %d\n", D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}
