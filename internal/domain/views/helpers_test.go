package views_test

import (
	"time"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// fixtureTable builds a small joined table spanning two municipalities and
// two institutions:
//
//	p1 (Vilnius): invited+signed to Computer Science (Financed), second
//	    choice Software Engineering
//	p2 (Vilnius): first choice Computer Science, never invited
//	p3 (Kaunas):  invited to Software Engineering (Stipend, null choice
//	    time), second choice Law
func fixtureTable() *dataset.Table {
	profiles := []dataset.Profile{
		{PersonID: "p1", ApplicationYear: 2024, Gender: "Female", ResidenceMunicipality: "Vilniaus m. sav.", ResidenceType: "Urban"},
		{PersonID: "p2", ApplicationYear: 2024, Gender: "Male", ResidenceMunicipality: "Vilniaus m. sav.", ResidenceType: "Urban"},
		{PersonID: "p3", ApplicationYear: 2024, Gender: "Female", ResidenceMunicipality: "Kauno m. sav.", ResidenceType: "Rural"},
	}
	programs := []dataset.Program{
		{ProgramID: "prog-a", ProgramYear: jan(2024), ProgramName: "Computer Science", EducationalInstitution: "Vilnius University"},
		{ProgramID: "prog-b", ProgramYear: jan(2024), ProgramName: "Law", EducationalInstitution: "Vilnius University"},
		{ProgramID: "prog-c", ProgramYear: jan(2024), ProgramName: "Software Engineering", EducationalInstitution: "Kaunas University of Technology"},
	}

	a1 := baseApp("a1", "p1", "prog-a", 1)
	a1.Financing = dataset.FinancingFinanced
	a1.Invited = true
	a1.Signed = true
	a1.ChoiceAt = time.Date(2024, time.June, 5, 14, 30, 0, 0, time.UTC)

	a2 := baseApp("a2", "p1", "prog-c", 2)
	a2.ChoiceAt = time.Date(2024, time.June, 6, 10, 0, 0, 0, time.UTC)

	a3 := baseApp("a3", "p2", "prog-a", 1)
	a3.ChoiceAt = time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC)

	a4 := baseApp("a4", "p3", "prog-c", 1)
	a4.Financing = dataset.FinancingStipend
	a4.Invited = true
	a4.ChoiceAt = time.Time{} // null choice timestamp

	a5 := baseApp("a5", "p3", "prog-b", 2)
	a5.ChoiceAt = time.Date(2024, time.June, 7, 18, 0, 0, 0, time.UTC)

	return dataset.Build(
		[]dataset.Application{a1, a2, a3, a4, a5},
		profiles, programs, dataset.DefaultPredicate(),
	)
}

func baseApp(id, person, program string, priority int64) dataset.Application {
	return dataset.Application{
		ApplicationID:             id,
		PersonID:                  person,
		PriorityNumber:            priority,
		ProgramID:                 program,
		Financing:                 "Self-funded",
		StageStartDate:            time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		StageEndDate:              time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC),
		AdmissionStage:            "Main Admission",
		ParticipatedInCompetition: true,
	}
}

func jan(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}
