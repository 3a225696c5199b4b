package views

import (
	"math/rand"
	"strconv"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// HomeResult is the homepage tab: dataset headline numbers, a sample of
// joined records, and the dataset documentation rendered verbatim.
type HomeResult struct {
	Rows    int        `json:"rows"`
	Persons int        `json:"persons"`
	Sample  *TableData `json:"sample"`
	Docs    string     `json:"docs"`
}

// Home builds the homepage payload. The sample is pseudo-random but seeded
// from the table size, so it is stable for a given dataset.
func Home(t *dataset.Table, sampleRows int, docs string) *HomeResult {
	return &HomeResult{
		Rows:    t.Len(),
		Persons: t.DistinctPersons(),
		Sample:  sample(t, sampleRows),
		Docs:    docs,
	}
}

func sample(t *dataset.Table, n int) *TableData {
	table := &TableData{
		Title: "Dataset sample",
		Columns: []Column{
			{Key: "application_id", Label: "application_id", Type: "text", Align: "left"},
			{Key: "person_id", Label: "person_id", Type: "text", Align: "left"},
			{Key: "priority_number", Label: "priority_number", Type: "number", Align: "right"},
			{Key: "program_name", Label: "program_name", Type: "text", Align: "left"},
			{Key: "educational_institution", Label: "educational_institution", Type: "text", Align: "left"},
			{Key: "financing", Label: "financing", Type: "text", Align: "left"},
			{Key: "invited", Label: "invited", Type: "text", Align: "left"},
			{Key: "signed", Label: "signed", Type: "text", Align: "left"},
			{Key: "residence_municipality", Label: "residence_municipality", Type: "text", Align: "left"},
			{Key: "residence_type", Label: "residence_type", Type: "text", Align: "left"},
			{Key: "choice_at", Label: "choice_at", Type: "text", Align: "left"},
		},
	}

	if t.Len() == 0 || n <= 0 {
		return table
	}
	if n > t.Len() {
		n = t.Len()
	}

	rng := rand.New(rand.NewSource(int64(t.Len())))
	picked := rng.Perm(t.Len())[:n]
	table.Rows = make([][]string, 0, n)
	for _, i := range picked {
		r := t.Record(i)
		choiceAt := ""
		if r.ChoiceTimeValid {
			choiceAt = r.ChoiceAt.Format("2006-01-02 15:04:05")
		}
		table.Rows = append(table.Rows, []string{
			r.ApplicationID,
			r.PersonID,
			strconv.FormatInt(r.PriorityNumber, 10),
			r.ProgramName,
			r.EducationalInstitution,
			r.Financing,
			strconv.FormatBool(r.Invited),
			strconv.FormatBool(r.Signed),
			r.ResidenceMunicipality,
			r.ResidenceType,
			choiceAt,
		})
	}
	return table
}
