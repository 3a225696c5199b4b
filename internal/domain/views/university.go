package views

import (
	"fmt"
	"sort"

	"github.com/admitlab/admitboard/internal/domain/aggregate"
	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// Map metrics selectable on the university tab.
const (
	MapMetricCount       = "count"
	MapMetricInvitedRate = "invited_rate"
	MapMetricSignedRate  = "signed_rate"
)

// Geographic frame for the municipality basemap.
const (
	mapCenterLat = 55.1694
	mapCenterLon = 23.8813
	mapZoom      = 6
)

// UniversityResult is the institution drill-down tab: a choropleth of the
// chosen metric per residence municipality, plus the competitor table.
type UniversityResult struct {
	Institution string       `json:"institution"`
	Metric      string       `json:"metric"`
	Map         *ChartConfig `json:"map"`
	Competitors *TableData   `json:"competitors"`
}

// University computes the drill-down for one educational institution. The
// metric choice selects which aggregate colors the map; it defaults to the
// applicant count.
func University(t *dataset.Table, institution, metric string) (*UniversityResult, error) {
	if metric == "" {
		metric = MapMetricCount
	}
	switch metric {
	case MapMetricCount, MapMetricInvitedRate, MapMetricSignedRate:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	filtered := t.All().Where(func(r *dataset.Record) bool {
		v, ok := r.Dimension(dataset.DimInstitution)
		return ok && v == institution
	})

	groups, err := aggregate.Run(filtered, aggregate.Spec{
		GroupBy: dataset.DimMunicipality,
		Metrics: []aggregate.Metric{
			aggregate.Count("count"),
			aggregate.Sum("invited_count", dataset.FlagInvited),
			aggregate.Sum("signed_count", dataset.FlagSigned),
			aggregate.Ratio("invited_rate", "invited_count", "count"),
			aggregate.Ratio("signed_rate", "signed_count", "invited_count"),
		},
	})
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(groups))
	for i := range groups {
		v, ok := groups[i].Value(metric)
		if !ok {
			// Undefined ratio: the municipality stays uncolored.
			continue
		}
		points = append(points, ChartPoint{Label: groups[i].Key, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })

	mapChart := &ChartConfig{
		ChartType: "choropleth",
		Title:     "Geographic Distribution of Applicants",
		Series:    []ChartSeries{{Name: metric, Data: points}},
		Map: &MapSpec{
			FeatureKey: "properties.name",
			CenterLat:  mapCenterLat,
			CenterLon:  mapCenterLon,
			Zoom:       mapZoom,
			Metric:     metric,
		},
	}

	return &UniversityResult{
		Institution: institution,
		Metric:      metric,
		Map:         mapChart,
		Competitors: competitors(t, institution),
	}, nil
}

// competitors counts, per other institution, the distinct persons from the
// institution's applicant set who also applied there. The institution
// under analysis never appears in its own table.
func competitors(t *dataset.Table, institution string) *TableData {
	applicants := t.All().Where(func(r *dataset.Record) bool {
		v, ok := r.Dimension(dataset.DimInstitution)
		return ok && v == institution
	}).Persons()

	byInstitution := make(map[string]map[string]struct{})
	all := t.All()
	for i := 0; i < all.Len(); i++ {
		r := all.Record(i)
		if _, ok := applicants[r.PersonID]; !ok {
			continue
		}
		inst, ok := r.Dimension(dataset.DimInstitution)
		if !ok || inst == institution {
			continue
		}
		if byInstitution[inst] == nil {
			byInstitution[inst] = make(map[string]struct{})
		}
		byInstitution[inst][r.PersonID] = struct{}{}
	}

	names := sortedKeys(byInstitution)
	sort.SliceStable(names, func(i, j int) bool {
		return len(byInstitution[names[i]]) > len(byInstitution[names[j]])
	})

	table := &TableData{
		Title: "Competitors",
		Columns: []Column{
			{Key: "institution", Label: "educational_institution", Type: "text", Align: "left"},
			{Key: "count", Label: "count", Type: "number", Align: "right"},
		},
		Rows: make([][]string, 0, len(names)),
	}
	for _, name := range names {
		table.Rows = append(table.Rows, []string{name, formatCount(float64(len(byInstitution[name])))})
	}
	return table
}
