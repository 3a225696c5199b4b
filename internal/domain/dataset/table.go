package dataset

import (
	"sort"
)

// Table is the read-only joined table, built once at startup and shared by
// every view. No method mutates it, so concurrent readers need no locking.
type Table struct {
	records []Record
}

// Len returns the number of joined records.
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns the record at position i.
func (t *Table) Record(i int) *Record {
	return &t.records[i]
}

// All returns a view over every row.
func (t *Table) All() *View {
	idx := make([]int, len(t.records))
	for i := range idx {
		idx[i] = i
	}
	return &View{table: t, idx: idx}
}

// DistinctPersons counts distinct person_ids across the whole table.
func (t *Table) DistinctPersons() int {
	return t.All().DistinctPersons()
}

// UniqueValues returns the distinct values of a dimension, ordered by
// distinct-person count descending with key ascending as tiebreak. Rows
// where the dimension is null are excluded.
func (t *Table) UniqueValues(dim string) []string {
	persons := make(map[string]map[string]struct{})
	for i := range t.records {
		r := &t.records[i]
		v, ok := r.Dimension(dim)
		if !ok {
			continue
		}
		set, ok := persons[v]
		if !ok {
			set = make(map[string]struct{})
			persons[v] = set
		}
		set[r.PersonID] = struct{}{}
	}

	values := make([]string, 0, len(persons))
	for v := range persons {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		ci, cj := len(persons[values[i]]), len(persons[values[j]])
		if ci != cj {
			return ci > cj
		}
		return values[i] < values[j]
	})
	return values
}

// View is an index list into a Table. Filtering produces new views without
// copying rows (the joined table stays the single in-memory instance).
type View struct {
	table *Table
	idx   []int
}

// Len returns the number of rows in the view.
func (v *View) Len() int {
	return len(v.idx)
}

// Record returns the i-th row of the view.
func (v *View) Record(i int) *Record {
	return &v.table.records[v.idx[i]]
}

// Where returns a sub-view of rows for which keep returns true.
func (v *View) Where(keep func(*Record) bool) *View {
	idx := make([]int, 0, len(v.idx))
	for _, i := range v.idx {
		if keep(&v.table.records[i]) {
			idx = append(idx, i)
		}
	}
	return &View{table: v.table, idx: idx}
}

// WhereDimension restricts the view to rows whose dimension value is in
// allowed. An empty allowed list means no restriction (select-all). Rows
// with a null dimension value never match a non-empty list.
func (v *View) WhereDimension(dim string, allowed []string) *View {
	if len(allowed) == 0 {
		return v
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return v.Where(func(r *Record) bool {
		val, ok := r.Dimension(dim)
		if !ok {
			return false
		}
		_, match := set[val]
		return match
	})
}

// Persons returns the set of distinct person_ids in the view.
func (v *View) Persons() map[string]struct{} {
	set := make(map[string]struct{})
	for _, i := range v.idx {
		set[v.table.records[i].PersonID] = struct{}{}
	}
	return set
}

// DistinctPersons counts distinct person_ids in the view.
func (v *View) DistinctPersons() int {
	return len(v.Persons())
}

// SumFlag sums a boolean column over the view.
func (v *View) SumFlag(name string) int {
	n := 0
	for _, i := range v.idx {
		if v.table.records[i].Flag(name) {
			n++
		}
	}
	return n
}
