package views

import (
	"sort"
	"time"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

const dateLayout = "2006-01-02"

// Series name for the full-population curve.
const allMunicipalities = "All municipalities"

// TimingResult is the application timing tab: daily submission shares for
// the whole population overlaid with one municipality, on a shared date
// axis.
type TimingResult struct {
	Municipality string       `json:"municipality"`
	StageStart   string       `json:"stageStart"`
	StageEnd     string       `json:"stageEnd"`
	Chart        *ChartConfig `json:"chart"`
}

// Timing builds the two normalized share-per-day series. Each series is
// divided by its own total so the curves are comparable despite different
// absolute volumes; summed over its full date range a series adds up to 1.
func Timing(t *dataset.Table, municipality string) *TimingResult {
	all := t.All()
	selected := all.Where(func(r *dataset.Record) bool {
		v, ok := r.Dimension(dataset.DimMunicipality)
		return ok && v == municipality
	})

	chart := &ChartConfig{
		ChartType:  "line",
		Title:      "Application Timing Distribution",
		XAxis:      "Date",
		YAxis:      "Share of Applications",
		ShowLegend: true,
		Series: []ChartSeries{
			shareSeries(all, allMunicipalities),
			shareSeries(selected, municipality),
		},
	}

	start, end := stageBounds(all)
	return &TimingResult{
		Municipality: municipality,
		StageStart:   start,
		StageEnd:     end,
		Chart:        chart,
	}
}

// shareSeries counts applications per choice date and normalizes each day
// to a share of the series total. Rows with a null choice timestamp are
// excluded.
func shareSeries(v *dataset.View, name string) ChartSeries {
	counts := make(map[time.Time]int)
	total := 0
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if !r.ChoiceTimeValid {
			continue
		}
		counts[r.ChoiceDate]++
		total++
	}

	dates := make([]time.Time, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]ChartPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, ChartPoint{
			Label: d.Format(dateLayout),
			Value: float64(counts[d]) / float64(total),
		})
	}
	return ChartSeries{Name: name, Data: points}
}

// stageBounds returns the earliest stage start and latest stage end across
// the table, formatted as dates.
func stageBounds(v *dataset.View) (string, string) {
	var start, end time.Time
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if !r.StageStartDate.IsZero() && (start.IsZero() || r.StageStartDate.Before(start)) {
			start = r.StageStartDate
		}
		if !r.StageEndDate.IsZero() && (end.IsZero() || r.StageEndDate.After(end)) {
			end = r.StageEndDate
		}
	}
	fmtDate := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	}
	return fmtDate(start), fmtDate(end)
}
