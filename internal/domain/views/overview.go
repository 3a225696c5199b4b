package views

import (
	"fmt"

	"github.com/admitlab/admitboard/internal/domain/aggregate"
	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// OverviewResult is the aggregate comparison tab: key metrics per
// institution or per municipality.
type OverviewResult struct {
	GroupBy string     `json:"groupBy"`
	Table   *TableData `json:"table"`
}

// Overview group dimensions exposed to the user.
var overviewDimensions = []string{dataset.DimInstitution, dataset.DimMunicipality}

// OverviewDimensions lists the selectable group-by dimensions.
func OverviewDimensions() []string {
	out := make([]string, len(overviewDimensions))
	copy(out, overviewDimensions)
	return out
}

// Overview computes count, invitation_rate, signed_rate and
// financed_invitation_rate per group, sorted by count descending. An empty
// filter selects all values; an empty groupBy defaults to institutions.
func Overview(t *dataset.Table, groupBy string, filter []string) (*OverviewResult, error) {
	if groupBy == "" {
		groupBy = dataset.DimInstitution
	}
	allowed := false
	for _, d := range overviewDimensions {
		if d == groupBy {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, groupBy)
	}

	groups, err := aggregate.Run(t.All(), aggregate.Spec{
		GroupBy: groupBy,
		Allowed: filter,
		Metrics: []aggregate.Metric{
			aggregate.Count("count"),
			aggregate.Sum("invited", dataset.FlagInvited),
			aggregate.Sum("signed", dataset.FlagSigned),
			aggregate.Sum("financed_invitation", dataset.FlagFinancedInvitation),
			aggregate.Ratio("invitation_rate", "invited", "count"),
			aggregate.Ratio("signed_rate", "signed", "invited"),
			aggregate.Ratio("financed_invitation_rate", "financed_invitation", "invited"),
		},
		SortByDesc: "count",
	})
	if err != nil {
		return nil, err
	}

	table := &TableData{
		Title: "Key metrics by " + groupBy,
		Columns: []Column{
			{Key: "group", Label: groupLabel(groupBy), Type: "text", Align: "left"},
			{Key: "count", Label: "count", Type: "number", Align: "right"},
			{Key: "invitation_rate", Label: "invitation_rate", Type: "ratio", Align: "right", ColorScale: &ColorScale{Palette: paletteRdYlGn}},
			{Key: "signed_rate", Label: "signed_rate", Type: "ratio", Align: "right", ColorScale: &ColorScale{Palette: paletteRdYlGn}},
			{Key: "financed_invitation_rate", Label: "financed_invitation_rate", Type: "ratio", Align: "right", ColorScale: &ColorScale{Palette: paletteRdYlGn}},
		},
		Rows: make([][]string, 0, len(groups)),
	}
	for i := range groups {
		g := &groups[i]
		count, _ := g.Value("count")
		inv, invOK := g.Value("invitation_rate")
		sgn, sgnOK := g.Value("signed_rate")
		fin, finOK := g.Value("financed_invitation_rate")
		table.Rows = append(table.Rows, []string{
			g.Key,
			formatCount(count),
			formatRatio(inv, invOK),
			formatRatio(sgn, sgnOK),
			formatRatio(fin, finOK),
		})
	}

	return &OverviewResult{GroupBy: groupBy, Table: table}, nil
}

func groupLabel(dim string) string {
	switch dim {
	case dataset.DimInstitution:
		return "educational_institution"
	case dataset.DimMunicipality:
		return "residence_municipality"
	default:
		return dim
	}
}
