package testdata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

func TestGenerate(t *testing.T) {
	convey.Convey("Given a generator config", t, func() {
		cfg := Config{Persons: 60, StageYear: 2024, MaxChoices: 4, Seed: 11}

		convey.Convey("When generating the source tables", func() {
			src := Generate(cfg)

			convey.Convey("Then every person should have a profile and contiguous applications", func() {
				convey.So(src.Profiles, convey.ShouldHaveLength, cfg.Persons)
				convey.So(len(src.Applications), convey.ShouldBeGreaterThanOrEqualTo, cfg.Persons)
				convey.So(src.Programs, convey.ShouldHaveLength, len(programSpecs))

				seen := map[string]bool{}
				last := ""
				for _, app := range src.Applications {
					if app.PersonID != last {
						convey.So(seen[app.PersonID], convey.ShouldBeFalse)
						seen[app.PersonID] = true
						last = app.PersonID
					}
				}
			})

			convey.Convey("And most applications should belong to the main round", func() {
				inRound := 0
				for _, app := range src.Applications {
					if app.AdmissionStage == "Main Admission" &&
						app.ParticipatedInCompetition &&
						app.StageStartDate.Year() == cfg.StageYear {
						inRound++
					}
				}
				convey.So(inRound, convey.ShouldBeGreaterThan, len(src.Applications)/2)
				convey.So(inRound, convey.ShouldBeLessThan, len(src.Applications))
			})

			convey.Convey("And each person should hold at most one invitation", func() {
				invitations := map[string]int{}
				for _, app := range src.Applications {
					if app.Invited {
						invitations[app.PersonID]++
					}
				}
				convey.So(len(invitations), convey.ShouldBeGreaterThan, 0)
				for _, n := range invitations {
					convey.So(n, convey.ShouldEqual, 1)
				}
			})

			convey.Convey("And choice timestamps should fall inside the stage window", func() {
				start := time.Date(cfg.StageYear, time.June, 1, 0, 0, 0, 0, time.UTC)
				end := time.Date(cfg.StageYear, time.August, 1, 0, 0, 0, 0, time.UTC)
				for _, app := range src.Applications {
					convey.So(app.ChoiceAt.Before(start), convey.ShouldBeFalse)
					convey.So(app.ChoiceAt.After(end), convey.ShouldBeFalse)
				}
			})

			convey.Convey("And program identifiers should resolve", func() {
				known := map[string]bool{}
				for _, prog := range src.Programs {
					known[prog.ProgramID] = true
				}
				for _, app := range src.Applications {
					convey.So(known[app.ProgramID], convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When generating twice with the same seed", func() {
			first := Generate(cfg)
			second := Generate(cfg)

			convey.Convey("Then the output should be identical", func() {
				convey.So(second.Applications, convey.ShouldResemble, first.Applications)
				convey.So(second.Profiles, convey.ShouldResemble, first.Profiles)
				convey.So(second.Programs, convey.ShouldResemble, first.Programs)
			})
		})

		convey.Convey("When generating with another seed", func() {
			other := Generate(Config{Persons: 60, StageYear: 2024, MaxChoices: 4, Seed: 12})

			convey.Convey("Then the output should differ", func() {
				convey.So(other.Applications, convey.ShouldNotResemble, Generate(cfg).Applications)
			})
		})
	})
}

func TestDocs(t *testing.T) {
	convey.Convey("Given the dataset docs", t, func() {
		docs := Docs(DefaultConfig())

		convey.Convey("Then they should describe the tables and the round year", func() {
			convey.So(docs, convey.ShouldContainSubstring, "# Admissions dataset")
			convey.So(docs, convey.ShouldContainSubstring, "2024")
			convey.So(docs, convey.ShouldContainSubstring, "applications.parquet")
			convey.So(docs, convey.ShouldContainSubstring, "programs.parquet")
		})
	})
}

func TestGeoJSON(t *testing.T) {
	convey.Convey("Given the municipality geometry", t, func() {
		raw := GeoJSON()

		convey.Convey("Then it should parse as a feature collection keyed by name", func() {
			var doc struct {
				Type     string `json:"type"`
				Features []struct {
					Properties struct {
						Name string `json:"name"`
					} `json:"properties"`
				} `json:"features"`
			}
			convey.So(json.Unmarshal(raw, &doc), convey.ShouldBeNil)
			convey.So(doc.Type, convey.ShouldEqual, "FeatureCollection")
			convey.So(doc.Features, convey.ShouldHaveLength, len(municipalities))

			names := map[string]bool{}
			for _, f := range doc.Features {
				names[f.Properties.Name] = true
			}
			for _, m := range municipalities {
				convey.So(names[m], convey.ShouldBeTrue)
			}
		})
	})
}

func TestGenerateJoinsWithDataset(t *testing.T) {
	convey.Convey("Given generated tables fed through the join pass", t, func() {
		cfg := Config{Persons: 40, StageYear: 2024, MaxChoices: 3, Seed: 5}
		src := Generate(cfg)

		table := dataset.Build(src.Applications, src.Profiles, src.Programs, dataset.Predicate{
			AdmissionStage:     "Main Admission",
			StageYear:          cfg.StageYear,
			RequireCompetition: true,
		})

		convey.Convey("Then every surviving row should carry its joined attributes", func() {
			convey.So(table.Len(), convey.ShouldBeGreaterThan, 0)
			for i := 0; i < table.Len(); i++ {
				rec := table.Record(i)
				convey.So(rec.HasProfile, convey.ShouldBeTrue)
				convey.So(rec.HasProgram, convey.ShouldBeTrue)
				convey.So(rec.EducationalInstitution, convey.ShouldNotBeEmpty)
			}
		})
	})
}
