// Package dataset holds the in-memory admissions dataset: the three source
// tables, the one-time join-and-derive pass, and the read-only joined table
// shared by every view.
package dataset

import (
	"time"
)

// Financing categories considered favorable for an invitation.
const (
	FinancingFinanced = "Financed"
	FinancingStipend  = "Stipend"
)

// Application is one row of the applications table: one submitted choice,
// uniquely identified by application_id and by the tuple
// (person_id, priority_number, program_id, financing).
type Application struct {
	ApplicationID             string
	PersonID                  string
	PriorityNumber            int64
	ProgramID                 string
	Financing                 string
	Invited                   bool
	Signed                    bool
	ChoiceAt                  time.Time
	StageStartDate            time.Time
	StageEndDate              time.Time
	AdmissionStage            string
	ParticipatedInCompetition bool
}

// Profile is one row of the profiles table: one person in one application
// year.
type Profile struct {
	PersonID              string
	ApplicationYear       int64
	Gender                string
	ResidenceMunicipality string
	ResidenceType         string
	ResidencePlace        string
}

// Program is one row of the programs table: one program offering in one
// year.
type Program struct {
	ProgramID              string
	ProgramYear            time.Time
	ProgramName            string
	EducationalInstitution string
}

// Record is one joined row: an application that survived the fixed
// load-time predicate, with its profile and program fields merged in and
// the derived columns computed. HasProfile/HasProgram are false when the
// left join found no match; the joined fields are then zero values and
// Dimension reports them as absent.
type Record struct {
	Application

	HasProfile            bool
	Gender                string
	ResidenceMunicipality string
	ResidenceType         string
	ResidencePlace        string

	HasProgram             bool
	ProgramName            string
	EducationalInstitution string

	// FinancedInvitation is true iff the financing category is Financed or
	// Stipend and the application was invited.
	FinancedInvitation bool

	// InvitedToAnyChoice is true iff any surviving application of the same
	// person was invited. Identical across all rows of a person.
	InvitedToAnyChoice bool

	// Time parts of ChoiceAt. ChoiceTimeValid is false when choice_at was
	// null; the row stays but its time parts are excluded from grouping.
	ChoiceTimeValid bool
	ChoiceHour      int
	ChoiceWeekday   int // Monday = 0
	ChoiceDate      time.Time
	ChoiceWeek      time.Time // start of the ISO week containing ChoiceDate
}

// Dimension names addressable for grouping and filtering.
const (
	DimInstitution   = "educational_institution"
	DimMunicipality  = "residence_municipality"
	DimResidenceType = "residence_type"
	DimProgram       = "program_name"
	DimFinancing     = "financing"
	DimGender        = "gender"
)

// Flag columns addressable for sum reducers.
const (
	FlagInvited            = "invited"
	FlagSigned             = "signed"
	FlagFinancedInvitation = "financed_invitation"
)

// Dimension returns the named dimension value and whether it is present.
// Fields behind an unmatched left join are absent; an empty string on a
// matched row also counts as absent.
func (r *Record) Dimension(name string) (string, bool) {
	switch name {
	case DimInstitution:
		return r.EducationalInstitution, r.HasProgram && r.EducationalInstitution != ""
	case DimMunicipality:
		return r.ResidenceMunicipality, r.HasProfile && r.ResidenceMunicipality != ""
	case DimResidenceType:
		return r.ResidenceType, r.HasProfile && r.ResidenceType != ""
	case DimProgram:
		return r.ProgramName, r.HasProgram && r.ProgramName != ""
	case DimFinancing:
		return r.Financing, r.Financing != ""
	case DimGender:
		return r.Gender, r.HasProfile && r.Gender != ""
	default:
		return "", false
	}
}

// Flag returns the named boolean column. Unknown names are false.
func (r *Record) Flag(name string) bool {
	switch name {
	case FlagInvited:
		return r.Invited
	case FlagSigned:
		return r.Signed
	case FlagFinancedInvitation:
		return r.FinancedInvitation
	default:
		return false
	}
}

// IsDimension reports whether name is a known grouping dimension.
func IsDimension(name string) bool {
	switch name {
	case DimInstitution, DimMunicipality, DimResidenceType, DimProgram, DimFinancing, DimGender:
		return true
	default:
		return false
	}
}

// FavorableFinancing reports whether the financing category counts toward
// financed invitations.
func FavorableFinancing(financing string) bool {
	return financing == FinancingFinanced || financing == FinancingStipend
}
