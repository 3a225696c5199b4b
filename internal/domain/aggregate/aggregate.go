// Package aggregate computes per-group summaries over the joined table:
// group by a dimension, reduce with count-distinct-person / sum-of-flag
// reducers, then derive ratios between already-computed metrics. Pure
// functions of their inputs; calling twice with identical arguments yields
// identical output.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// Kind selects a reducer.
type Kind int

const (
	// CountDistinctPersons counts distinct person_ids per group.
	CountDistinctPersons Kind = iota
	// SumFlag sums a boolean column per group.
	SumFlag
	// RatioOf divides two previously computed metrics of the same group.
	RatioOf
)

// Metric names one output column of a group summary.
type Metric struct {
	Name   string
	Kind   Kind
	Column string // flag column for SumFlag
	Num    string // metric names for RatioOf
	Den    string
}

// Count builds a count-distinct-person metric.
func Count(name string) Metric {
	return Metric{Name: name, Kind: CountDistinctPersons}
}

// Sum builds a sum-of-flag metric over a boolean column.
func Sum(name, column string) Metric {
	return Metric{Name: name, Kind: SumFlag, Column: column}
}

// Ratio builds a derived metric dividing two earlier metrics of the same
// group. A zero denominator leaves the ratio undefined, never a crash.
func Ratio(name, num, den string) Metric {
	return Metric{Name: name, Kind: RatioOf, Num: num, Den: den}
}

// Spec describes one aggregation run.
type Spec struct {
	// GroupBy is the grouping dimension; must be a known dimension name.
	GroupBy string
	// Allowed restricts rows to those whose group value is in the list.
	// Empty means select-all.
	Allowed []string
	// Metrics are computed left to right, so a ratio may reference any
	// metric declared before it.
	Metrics []Metric
	// SortByDesc orders groups by the named metric descending (key
	// ascending as tiebreak). Empty preserves first-seen order.
	SortByDesc string
}

// Group is one output row of an aggregation run. Defined is false for
// metrics whose value is undefined (ratio over a zero denominator); such
// metrics carry no meaningful Value.
type Group struct {
	Key     string
	Values  map[string]float64
	Defined map[string]bool
}

// Value returns a metric value and whether it is defined.
func (g *Group) Value(name string) (float64, bool) {
	if !g.Defined[name] {
		return 0, false
	}
	return g.Values[name], true
}

// Run executes an aggregation over a view. Rows with a null group key are
// excluded from grouping, so empty groups never appear in the output.
func Run(v *dataset.View, spec Spec) ([]Group, error) {
	if !dataset.IsDimension(spec.GroupBy) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, spec.GroupBy)
	}
	if err := validateMetrics(spec.Metrics); err != nil {
		return nil, err
	}

	v = v.WhereDimension(spec.GroupBy, spec.Allowed)

	// Group row indices by dimension value, preserving first-seen order.
	grouped := make(map[string][]int)
	order := make([]string, 0)
	for i := 0; i < v.Len(); i++ {
		key, ok := v.Record(i).Dimension(spec.GroupBy)
		if !ok {
			continue
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := Group{
			Key:     key,
			Values:  make(map[string]float64, len(spec.Metrics)),
			Defined: make(map[string]bool, len(spec.Metrics)),
		}
		rows := grouped[key]
		for _, m := range spec.Metrics {
			reduce(&g, m, v, rows)
		}
		groups = append(groups, g)
	}

	if spec.SortByDesc != "" {
		sort.SliceStable(groups, func(i, j int) bool {
			vi, oki := groups[i].Value(spec.SortByDesc)
			vj, okj := groups[j].Value(spec.SortByDesc)
			if oki != okj {
				return oki // defined sorts before undefined
			}
			if vi != vj {
				return vi > vj
			}
			return groups[i].Key < groups[j].Key
		})
	}

	return groups, nil
}

func validateMetrics(metrics []Metric) error {
	if len(metrics) == 0 {
		return ErrNoMetrics
	}
	declared := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		if m.Name == "" {
			return fmt.Errorf("%w: empty metric name", ErrInvalidMetric)
		}
		if _, dup := declared[m.Name]; dup {
			return fmt.Errorf("%w: duplicate metric %q", ErrInvalidMetric, m.Name)
		}
		if m.Kind == RatioOf {
			if _, ok := declared[m.Num]; !ok {
				return fmt.Errorf("%w: ratio %q references unknown numerator %q", ErrInvalidMetric, m.Name, m.Num)
			}
			if _, ok := declared[m.Den]; !ok {
				return fmt.Errorf("%w: ratio %q references unknown denominator %q", ErrInvalidMetric, m.Name, m.Den)
			}
		}
		declared[m.Name] = struct{}{}
	}
	return nil
}

func reduce(g *Group, m Metric, v *dataset.View, rows []int) {
	switch m.Kind {
	case CountDistinctPersons:
		persons := make(map[string]struct{}, len(rows))
		for _, i := range rows {
			persons[v.Record(i).PersonID] = struct{}{}
		}
		g.Values[m.Name] = float64(len(persons))
		g.Defined[m.Name] = true
	case SumFlag:
		n := 0
		for _, i := range rows {
			if v.Record(i).Flag(m.Column) {
				n++
			}
		}
		g.Values[m.Name] = float64(n)
		g.Defined[m.Name] = true
	case RatioOf:
		num, okNum := g.Value(m.Num)
		den, okDen := g.Value(m.Den)
		if !okNum || !okDen || den == 0 {
			g.Defined[m.Name] = false
			return
		}
		g.Values[m.Name] = num / den
		g.Defined[m.Name] = true
	}
}
