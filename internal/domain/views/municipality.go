package views

import (
	"sort"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// MunicipalityResult is the municipality drill-down tab: headline metrics,
// the programs intent-vs-outcome table, and the residence-type x financing
// share chart.
type MunicipalityResult struct {
	Municipality   string         `json:"municipality"`
	Metrics        []ScalarMetric `json:"metrics"`
	Programs       *TableData     `json:"programs"`
	FinancingShare *ChartConfig   `json:"financingShare"`
}

// Municipality computes the drill-down for one residence municipality. An
// unknown municipality yields empty results rather than an error, matching
// the empty-filter fallback policy.
func Municipality(t *dataset.Table, name string) *MunicipalityResult {
	filtered := t.All().Where(func(r *dataset.Record) bool {
		v, ok := r.Dimension(dataset.DimMunicipality)
		return ok && v == name
	})

	return &MunicipalityResult{
		Municipality:   name,
		Metrics:        municipalityMetrics(filtered),
		Programs:       programComparison(filtered),
		FinancingShare: financingShare(filtered),
	}
}

func municipalityMetrics(v *dataset.View) []ScalarMetric {
	applicants := v.DistinctPersons()
	invited := v.SumFlag(dataset.FlagInvited)
	signed := v.SumFlag(dataset.FlagSigned)

	metrics := []ScalarMetric{
		{Label: "Total Applicants", Value: float64(applicants), Defined: true, Help: "Total number of unique applicants"},
		{Label: "Total Invited", Value: float64(invited), Defined: true, Help: "Total number of invited applicants"},
		{Label: "Invitation Rate", Help: "Ratio of invited applicants to total applicants"},
		{Label: "Total Signed", Value: float64(signed), Defined: true, Help: "Total number of signed applicants"},
		{Label: "Signed Rate", Help: "Ratio of signed applicants to invited applicants"},
	}
	if applicants > 0 {
		metrics[2].Value = round2(float64(invited) / float64(applicants))
		metrics[2].Defined = true
	}
	if invited > 0 {
		metrics[4].Value = round2(float64(signed) / float64(invited))
		metrics[4].Defined = true
	}
	return metrics
}

// programComparison counts, per program, invited applications against
// first-priority applications whose person was invited to any choice. The
// ratio's color domain is clipped to 0-2 for display; the cell value is
// not clipped.
func programComparison(v *dataset.View) *TableData {
	invited := make(map[string]int)
	applied := make(map[string]int)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		name, ok := r.Dimension(dataset.DimProgram)
		if !ok {
			continue
		}
		if r.Invited {
			invited[name]++
		}
		if r.PriorityNumber == 1 && r.InvitedToAnyChoice {
			applied[name]++
		}
	}

	names := make([]string, 0, len(invited)+len(applied))
	seen := make(map[string]struct{})
	for name := range invited {
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for name := range applied {
		if _, dup := seen[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if invited[names[i]] != invited[names[j]] {
			return invited[names[i]] > invited[names[j]]
		}
		return names[i] < names[j]
	})

	table := &TableData{
		Title: "Programs Overview",
		Columns: []Column{
			{Key: "program", Label: "program_name", Type: "text", Align: "left"},
			{Key: "invited", Label: "invited", Type: "number", Align: "right"},
			{Key: "applied_as_first", Label: "applied_as_first", Type: "number", Align: "right"},
			{Key: "ratio", Label: "ratio", Type: "ratio", Align: "right",
				ColorScale: &ColorScale{Palette: paletteRdYlGn, Min: floatPtr(0), Max: floatPtr(2)}},
		},
		Rows: make([][]string, 0, len(names)),
	}
	for _, name := range names {
		inv := invited[name]
		app := applied[name]
		ratio := ""
		if inv > 0 {
			ratio = formatRatio(float64(app)/float64(inv), true)
		}
		table.Rows = append(table.Rows, []string{
			name,
			formatCount(float64(inv)),
			formatCount(float64(app)),
			ratio,
		})
	}
	return table
}

// financingShare builds the grouped bar chart of financing-category shares
// per residence type among invited applicants. A person holding several
// financing categories counts once per category, so shares within a
// residence type may not sum exactly to 1; that ambiguity comes from the
// source data and is surfaced as-is.
func financingShare(v *dataset.View) *ChartConfig {
	invited := v.Where(func(r *dataset.Record) bool { return r.Invited })

	totals := make(map[string]map[string]struct{})        // residence type -> persons
	perFinancing := make(map[string]map[string]map[string]struct{}) // financing -> residence type -> persons
	for i := 0; i < invited.Len(); i++ {
		r := invited.Record(i)
		resType, ok := r.Dimension(dataset.DimResidenceType)
		if !ok {
			continue
		}
		if totals[resType] == nil {
			totals[resType] = make(map[string]struct{})
		}
		totals[resType][r.PersonID] = struct{}{}

		financing, ok := r.Dimension(dataset.DimFinancing)
		if !ok {
			continue
		}
		if perFinancing[financing] == nil {
			perFinancing[financing] = make(map[string]map[string]struct{})
		}
		if perFinancing[financing][resType] == nil {
			perFinancing[financing][resType] = make(map[string]struct{})
		}
		perFinancing[financing][resType][r.PersonID] = struct{}{}
	}

	resTypes := sortedKeys(totals)
	financings := make([]string, 0, len(perFinancing))
	for f := range perFinancing {
		financings = append(financings, f)
	}
	sort.Strings(financings)

	series := make([]ChartSeries, 0, len(financings))
	for _, f := range financings {
		points := make([]ChartPoint, 0, len(resTypes))
		for _, rt := range resTypes {
			total := len(totals[rt])
			if total == 0 {
				continue
			}
			share := float64(len(perFinancing[f][rt])) / float64(total)
			points = append(points, ChartPoint{Label: rt, Value: share})
		}
		series = append(series, ChartSeries{Name: f, Data: points})
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Residence Type x Financing",
		XAxis:      "Residence Type",
		YAxis:      "Share of Applicants",
		BarMode:    "group",
		Series:     series,
		ShowLegend: true,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
