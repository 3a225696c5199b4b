// Package testdata builds a deterministic synthetic admissions dataset.
// The same seed always yields the same tables, so fixtures written from it
// are reproducible across runs.
package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// Namespace for deterministic IDs.
var idNamespace = uuid.MustParse("9e336b24-5d54-4b22-8f27-6a3f9a4c51d0")

// Constants for generation probabilities.
const (
	invitedFirstChoiceProb = 0.55
	invitedDecayPerChoice  = 0.12
	signedProb             = 0.75
	financedProb           = 0.45
	stipendProb            = 0.10
	offRoundShare          = 0.08
	urbanProb              = 0.65
	femaleProb             = 0.55
)

// Config holds configuration for dataset generation.
type Config struct {
	Persons    int   // Number of applicants
	StageYear  int   // Admission round year
	MaxChoices int   // Maximum choices per applicant
	Seed       int64 // Random seed
}

// DefaultConfig returns a generation config sized for local development.
func DefaultConfig() Config {
	return Config{
		Persons:    400,
		StageYear:  2024,
		MaxChoices: 6,
		Seed:       1,
	}
}

// Municipalities covered by generated profiles, weighted toward the first
// entries.
var municipalities = []string{
	"Vilniaus m. sav.",
	"Kauno m. sav.",
	"Klaipėdos m. sav.",
	"Šiaulių m. sav.",
	"Panevėžio m. sav.",
	"Alytaus m. sav.",
	"Marijampolės sav.",
	"Utenos r. sav.",
	"Tauragės r. sav.",
	"Telšių r. sav.",
}

type programSpec struct {
	institution string
	name        string
}

var programSpecs = []programSpec{
	{"Vilnius University", "Computer Science"},
	{"Vilnius University", "Medicine"},
	{"Vilnius University", "Law"},
	{"Vilnius University", "Economics"},
	{"Kaunas University of Technology", "Software Engineering"},
	{"Kaunas University of Technology", "Mechanical Engineering"},
	{"Kaunas University of Technology", "Electronics"},
	{"Vytautas Magnus University", "Psychology"},
	{"Vytautas Magnus University", "Political Science"},
	{"Vilnius Gediminas Technical University", "Civil Engineering"},
	{"Vilnius Gediminas Technical University", "Architecture"},
	{"Klaipėda University", "Marine Engineering"},
	{"Lithuanian University of Health Sciences", "Medicine"},
	{"Lithuanian University of Health Sciences", "Nursing"},
}

var financingKinds = []string{
	dataset.FinancingFinanced,
	dataset.FinancingStipend,
	"Self-funded",
}

// Generate builds the three source tables for one admission round. A small
// share of applications belongs to other rounds or skipped the
// competition, exercising the round filter downstream.
func Generate(cfg Config) *storage.Source {
	rng := rand.New(rand.NewSource(cfg.Seed))

	stageStart := time.Date(cfg.StageYear, time.June, 1, 0, 0, 0, 0, time.UTC)
	stageEnd := time.Date(cfg.StageYear, time.July, 31, 23, 59, 59, 0, time.UTC)
	window := stageEnd.Sub(stageStart)

	programs := make([]dataset.Program, len(programSpecs))
	for i, spec := range programSpecs {
		programs[i] = dataset.Program{
			ProgramID:              deterministicID("program", i),
			ProgramYear:            time.Date(cfg.StageYear, time.January, 1, 0, 0, 0, 0, time.UTC),
			ProgramName:            spec.name,
			EducationalInstitution: spec.institution,
		}
	}

	src := &storage.Source{Programs: programs}
	appSeq := 0
	for p := 0; p < cfg.Persons; p++ {
		personID := deterministicID("person", p)
		municipality := municipalities[weightedIndex(rng, len(municipalities))]
		src.Profiles = append(src.Profiles, dataset.Profile{
			PersonID:              personID,
			ApplicationYear:       int64(cfg.StageYear),
			Gender:                pick(rng, femaleProb, "Female", "Male"),
			ResidenceMunicipality: municipality,
			ResidenceType:         pick(rng, urbanProb, "Urban", "Rural"),
			ResidencePlace:        strings.TrimSuffix(municipality, " sav."),
		})

		choices := 1 + rng.Intn(cfg.MaxChoices)
		chosen := rng.Perm(len(programs))[:minInt(choices, len(programs))]
		for rank, programIdx := range chosen {
			app := dataset.Application{
				ApplicationID:             deterministicID("application", appSeq),
				PersonID:                  personID,
				PriorityNumber:            int64(rank + 1),
				ProgramID:                 programs[programIdx].ProgramID,
				Financing:                 financing(rng),
				ChoiceAt:                  stageStart.Add(time.Duration(rng.Int63n(int64(window)))),
				StageStartDate:            stageStart,
				StageEndDate:              stageEnd,
				AdmissionStage:            "Main Admission",
				ParticipatedInCompetition: true,
			}
			appSeq++

			// Invitation odds drop with choice priority; at most one
			// invitation per applicant keeps the funnel plausible.
			if !personInvited(src.Applications, personID) {
				prob := invitedFirstChoiceProb - invitedDecayPerChoice*float64(rank)
				if rng.Float64() < prob {
					app.Invited = true
					app.Signed = rng.Float64() < signedProb
				}
			}

			// Off-round noise: rewrite a small share into rows the
			// round filter must drop.
			if rng.Float64() < offRoundShare {
				switch rng.Intn(3) {
				case 0:
					app.AdmissionStage = "Additional Admission"
				case 1:
					app.ParticipatedInCompetition = false
				default:
					app.StageStartDate = stageStart.AddDate(-1, 0, 0)
					app.StageEndDate = stageEnd.AddDate(-1, 0, 0)
				}
				app.Invited = false
				app.Signed = false
			}

			src.Applications = append(src.Applications, app)
		}
	}
	return src
}

// Docs returns the dataset description shown on the homepage.
func Docs(cfg Config) string {
	return fmt.Sprintf(`# Admissions dataset

Synthetic national admissions data for the %d main admission round.

## Tables

- applications.parquet: one row per submitted choice, with priority,
  financing, invitation and signing outcomes, and choice timestamps.
- profiles.parquet: one row per applicant, with residence and
  demographic attributes.
- programs.parquet: one row per study program, with its institution.

All identifiers are synthetic. Joins follow person, program and round
year keys.
`, cfg.StageYear)
}

// GeoJSON returns placeholder municipality polygons keyed by
// properties.name, enough for the choropleth layer to bind against.
func GeoJSON() []byte {
	var b strings.Builder
	b.WriteString(`{"type":"FeatureCollection","features":[`)
	for i, name := range municipalities {
		if i > 0 {
			b.WriteByte(',')
		}
		// Small boxes spread over the country's bounding area.
		lon := 21.5 + float64(i%4)*1.1
		lat := 54.2 + float64(i/4)*0.9
		fmt.Fprintf(&b,
			`{"type":"Feature","properties":{"name":%q},"geometry":{"type":"Polygon","coordinates":[[[%.2f,%.2f],[%.2f,%.2f],[%.2f,%.2f],[%.2f,%.2f],[%.2f,%.2f]]]}}`,
			name,
			lon, lat,
			lon+1.0, lat,
			lon+1.0, lat+0.8,
			lon, lat+0.8,
			lon, lat,
		)
	}
	b.WriteString(`]}`)
	return []byte(b.String())
}

// deterministicID derives a stable UUID from a table name and sequence
// number.
func deterministicID(kind string, seq int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s-%d", kind, seq))).String()
}

// weightedIndex favors low indexes, roughly halving the odds per step.
func weightedIndex(rng *rand.Rand, n int) int {
	for i := 0; i < n-1; i++ {
		if rng.Float64() < 0.3 {
			return i
		}
	}
	return rng.Intn(n)
}

func pick(rng *rand.Rand, prob float64, a, b string) string {
	if rng.Float64() < prob {
		return a
	}
	return b
}

func financing(rng *rand.Rand) string {
	switch v := rng.Float64(); {
	case v < financedProb:
		return financingKinds[0]
	case v < financedProb+stipendProb:
		return financingKinds[1]
	default:
		return financingKinds[2]
	}
}

// personInvited reports whether any already generated application of the
// person carries an invitation. A person's applications are contiguous,
// so the backward scan stops at the first foreign row.
func personInvited(apps []dataset.Application, personID string) bool {
	for i := len(apps) - 1; i >= 0; i-- {
		if apps[i].PersonID != personID {
			return false
		}
		if apps[i].Invited {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
