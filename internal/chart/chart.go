// Package chart lays out the test price bar chart as SVG geometry.
package chart

import (
	"errors"
	"math"

	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/format"
)

// ErrMismatchedDataset is returned when labels and values differ in length.
var ErrMismatchedDataset = errors.New("chart: labels and values differ in length")

// Dataset is one bar per label.
type Dataset struct {
	Title  string
	Labels []string
	Values []int
}

// FromCatalog builds the price dataset in catalog order.
func FromCatalog(s *catalog.Store) Dataset {
	all := s.All()
	ds := Dataset{
		Title:  "Keemat (₹)",
		Labels: make([]string, 0, len(all)),
		Values: make([]int, 0, len(all)),
	}
	for _, rec := range all {
		ds.Labels = append(ds.Labels, rec.Name)
		ds.Values = append(ds.Values, rec.Price)
	}
	return ds
}

// Style holds the colours of the bars and grid.
type Style struct {
	Fill      string
	Stroke    string
	Grid      string
	TickColor string
	Radius    int
}

// DefaultStyle matches the site palette.
var DefaultStyle = Style{
	Fill:      "rgba(59, 130, 246, 0.8)",
	Stroke:    "rgba(59, 130, 246, 1)",
	Grid:      "rgba(148, 163, 184, 0.1)",
	TickColor: "rgba(148, 163, 184, 0.8)",
	Radius:    8,
}

// Bar is one rendered bar.
type Bar struct {
	Label      string
	Value      int
	ValueLabel string
	X, Y, W, H float64
	LabelX     float64
	LabelY     float64
}

// Tick is a horizontal grid line on the y axis.
type Tick struct {
	Value int
	Label string
	Y     float64
}

// Chart is a laid-out bar chart bound to a surface.
type Chart struct {
	Surface    string
	Generation int
	Title      string
	Width      float64
	Height     float64
	PlotLeft   float64
	PlotBottom float64
	Bars       []Bar
	Ticks      []Tick
	Style      Style
}

const (
	defaultWidth  = 800
	defaultHeight = 400
	marginLeft    = 64
	marginRight   = 16
	marginTop     = 16
	marginBottom  = 96
	tickCount     = 5
)

// Layout computes bar and tick geometry. The y axis always begins at zero.
func Layout(ds Dataset, width, height float64) (Chart, error) {
	if len(ds.Labels) != len(ds.Values) {
		return Chart{}, ErrMismatchedDataset
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	c := Chart{
		Title:      ds.Title,
		Width:      width,
		Height:     height,
		PlotLeft:   marginLeft,
		PlotBottom: height - marginBottom,
		Style:      DefaultStyle,
	}

	peak := 0
	for _, v := range ds.Values {
		if v > peak {
			peak = v
		}
	}
	step := niceStep(float64(peak) / tickCount)
	top := step * math.Ceil(float64(peak)/step)
	if top == 0 {
		top = step
	}

	plotW := width - marginLeft - marginRight
	plotH := c.PlotBottom - marginTop
	for v := 0.0; v <= top+step/2; v += step {
		c.Ticks = append(c.Ticks, Tick{
			Value: int(v),
			Label: format.RupeeTick(int(v)),
			Y:     c.PlotBottom - plotH*v/top,
		})
	}

	if n := len(ds.Values); n > 0 {
		slot := plotW / float64(n)
		barW := slot * 0.7
		for i, v := range ds.Values {
			h := plotH * float64(max(v, 0)) / top
			x := marginLeft + slot*float64(i) + (slot-barW)/2
			c.Bars = append(c.Bars, Bar{
				Label:      ds.Labels[i],
				Value:      v,
				ValueLabel: format.RupeesGrouped(v),
				X:          x,
				Y:          c.PlotBottom - h,
				W:          barW,
				H:          h,
				LabelX:     x + barW/2,
				LabelY:     c.PlotBottom + 12,
			})
		}
	}
	return c, nil
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*exp >= raw {
			return m * exp
		}
	}
	return 10 * exp
}
