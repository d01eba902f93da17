package histo

import (
	"math"
	"testing"
)

func TestHisto(Te *testing.T) {
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	D := NewData([]float64{0, 1, 2, 3, 4, 8}, rawdata)
	//44 and 32 are outside, and so is 8, the last divider.
	if D.Total() != 26 {
		Te.Errorf("Expected 26 data points, got %d", D.Total())
	}
	want := []float64{2, 6, 2, 7, 9}
	for i, v := range D.View() {
		if v != want[i] {
			Te.Errorf("Bin %d: expected %v, got %v", i, want[i], v)
		}
	}
	if D.Max() != 9 {
		Te.Errorf("Expected 9 as largest bin, got %v", D.Max())
	}
	D.Normalize()
	sum := 0.0
	for _, v := range D.View() {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		Te.Errorf("Normalized histogram adds up to %v", sum)
	}
	D.AddData(0.5)
	if !D.Normalized() || D.Total() != 27 {
		Te.Errorf("AddData on a normalized histogram: normalized %v, total %d", D.Normalized(), D.Total())
	}
	D.normaunnorma(false)
	if math.Abs(D.View()[0]-3) > 1e-9 {
		Te.Errorf("Expected 3 in the first bin, got %v", D.View()[0])
	}
	Te.Log(D.String())
}

func TestDividers(Te *testing.T) {
	d := Dividers(0, 2, 4)
	want := []float64{0, 0.5, 1, 1.5, 2}
	for i, v := range want {
		if math.Abs(d[i]-v) > 1e-12 {
			Te.Errorf("Divider %d: expected %v, got %v", i, v, d[i])
		}
	}
}
