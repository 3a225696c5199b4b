package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/testdata"
	"github.com/smartystreets/goconvey/convey"
)

func TestRoundtrip(t *testing.T) {
	convey.Convey("Given a generated dataset directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		cfg := testdata.Config{Persons: 25, StageYear: 2024, MaxChoices: 3, Seed: 7}
		src := testdata.Generate(cfg)
		convey.So(storage.WriteSource(dir, src), convey.ShouldBeNil)

		convey.Convey("When loading the three tables back", func() {
			loaded, err := storage.NewLoader(dir).Load(ctx)

			convey.Convey("Then every row survives the roundtrip", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(loaded.Applications), convey.ShouldEqual, len(src.Applications))
				convey.So(len(loaded.Profiles), convey.ShouldEqual, len(src.Profiles))
				convey.So(len(loaded.Programs), convey.ShouldEqual, len(src.Programs))
			})

			convey.Convey("Then field values come back intact", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.Applications[0].ApplicationID, convey.ShouldEqual, src.Applications[0].ApplicationID)
				convey.So(loaded.Applications[0].PriorityNumber, convey.ShouldEqual, src.Applications[0].PriorityNumber)
				convey.So(loaded.Applications[0].Invited, convey.ShouldEqual, src.Applications[0].Invited)
				convey.So(loaded.Applications[0].StageStartDate.Equal(src.Applications[0].StageStartDate), convey.ShouldBeTrue)
				convey.So(loaded.Profiles[0].ResidenceMunicipality, convey.ShouldEqual, src.Profiles[0].ResidenceMunicipality)
				convey.So(loaded.Programs[0].EducationalInstitution, convey.ShouldEqual, src.Programs[0].EducationalInstitution)
			})

			convey.Convey("Then null timestamps stay null", func() {
				convey.So(err, convey.ShouldBeNil)
				for i := range src.Applications {
					if src.Applications[i].ChoiceAt.IsZero() {
						convey.So(loaded.Applications[i].ChoiceAt.IsZero(), convey.ShouldBeTrue)
					}
				}
			})
		})

		convey.Convey("When a table file is missing", func() {
			convey.So(os.Remove(filepath.Join(dir, storage.ProgramsFile)), convey.ShouldBeNil)
			_, err := storage.NewLoader(dir).Load(ctx)

			convey.Convey("Then the load fails", func() {
				convey.So(err, convey.ShouldWrap, storage.ErrRead)
			})
		})

		convey.Convey("When a table has the wrong schema", func() {
			// A profiles table where applications are expected misses
			// every application column.
			profilesBytes, err := os.ReadFile(filepath.Join(dir, storage.ProfilesFile))
			convey.So(err, convey.ShouldBeNil)
			convey.So(os.WriteFile(filepath.Join(dir, storage.ApplicationsFile), profilesBytes, 0o644), convey.ShouldBeNil)

			_, err = storage.NewLoader(dir).Load(ctx)

			convey.Convey("Then the load fails with a schema error", func() {
				convey.So(err, convey.ShouldWrap, storage.ErrSchema)
			})
		})
	})
}

func TestAuxiliaryFiles(t *testing.T) {
	convey.Convey("Given a dataset directory with docs and boundaries", t, func() {
		dir := t.TempDir()
		cfg := testdata.DefaultConfig()
		docs := testdata.Docs(cfg)
		convey.So(os.WriteFile(filepath.Join(dir, storage.DocsFile), []byte(docs), 0o644), convey.ShouldBeNil)
		convey.So(os.WriteFile(filepath.Join(dir, storage.GeoJSONFile), testdata.GeoJSON(), 0o644), convey.ShouldBeNil)

		loader := storage.NewLoader(dir)

		convey.Convey("When loading the documentation", func() {
			got, err := loader.LoadDocs()

			convey.Convey("Then the text is returned verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, docs)
			})
		})

		convey.Convey("When loading the boundaries", func() {
			got, err := loader.LoadGeoJSON()

			convey.Convey("Then the document is returned as-is", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(got), convey.ShouldContainSubstring, "FeatureCollection")
			})
		})

		convey.Convey("When the boundaries are not valid JSON", func() {
			convey.So(os.WriteFile(filepath.Join(dir, storage.GeoJSONFile), []byte("{broken"), 0o644), convey.ShouldBeNil)
			_, err := loader.LoadGeoJSON()

			convey.Convey("Then the load fails with a schema error", func() {
				convey.So(err, convey.ShouldWrap, storage.ErrSchema)
			})
		})

		convey.Convey("When the documentation is missing", func() {
			convey.So(os.Remove(filepath.Join(dir, storage.DocsFile)), convey.ShouldBeNil)
			_, err := loader.LoadDocs()

			convey.Convey("Then the load fails", func() {
				convey.So(err, convey.ShouldWrap, storage.ErrRead)
			})
		})
	})
}
