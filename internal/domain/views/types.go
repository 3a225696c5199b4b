// Package views assembles the render payloads for the dashboard tabs. Each
// view is a pure function of the joined table and its user-selected
// parameters, producing tables, scalar metrics and chart specifications.
// The shapes are opaque rendering targets for the frontend; nothing here
// mutates the table.
package views

import (
	"fmt"
	"math"
	"strconv"
)

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	Type       string      `json:"type"`  // "text", "number", "ratio"
	Align      string      `json:"align"` // "left", "right"
	ColorScale *ColorScale `json:"colorScale,omitempty"`
}

// ColorScale asks the renderer to background-shade a column. Min/Max clip
// the display domain only; the underlying cell values are not clipped.
// Nil bounds scale to the column's own range.
type ColorScale struct {
	Palette string   `json:"palette"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// Palette used by every shaded column.
const paletteRdYlGn = "RdYlGn"

// ScalarMetric is a single headline number. Defined is false when the
// value is an undefined ratio (zero denominator); the renderer shows a
// placeholder instead.
type ScalarMetric struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Help    string  `json:"help,omitempty"`
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "bar", "line", "choropleth"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	BarMode    string        `json:"barMode,omitempty"` // "group" for grouped bars
	Series     []ChartSeries `json:"series"`
	ShowLegend bool          `json:"showLegend"`
	Map        *MapSpec      `json:"map,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MapSpec carries the choropleth rendering inputs. Point labels are
// matched to boundary polygons by exact string equality on FeatureKey.
type MapSpec struct {
	FeatureKey string  `json:"featureKey"`
	CenterLat  float64 `json:"centerLat"`
	CenterLon  float64 `json:"centerLon"`
	Zoom       int     `json:"zoom"`
	Metric     string  `json:"metric"`
}

// formatRatio renders a ratio cell with two decimals; undefined ratios
// render empty.
func formatRatio(v float64, defined bool) string {
	if !defined || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

func formatCount(v float64) string {
	return strconv.Itoa(int(v))
}

// round2 rounds a defined ratio to two decimals for scalar metric display.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floatPtr(v float64) *float64 {
	return &v
}
