package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/app"
	"github.com/admitlab/admitboard/internal/domain/dataset"
	"github.com/admitlab/admitboard/internal/testdata"
	"github.com/admitlab/admitboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a dataset directory", t, func() {
		ctx := context.Background()
		dir := writeFixtureDir(t)

		convey.Convey("When starting the service", func() {
			svc := app.New(app.WithDataDir(dir))
			err := svc.Start(ctx)
			defer svc.Stop()

			convey.Convey("Then the dataset is loaded and joined", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["rows"].(int), convey.ShouldBeGreaterThan, 0)
				convey.So(stats["persons"].(int), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("Then starting twice fails", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Start(ctx), convey.ShouldWrap, app.ErrAlreadyStarted)
			})
		})

		convey.Convey("When the data directory does not exist", func() {
			svc := app.New(app.WithDataDir(filepath.Join(dir, "missing")))
			err := svc.Start(ctx)

			convey.Convey("Then the start fails fatally", func() {
				convey.So(err, convey.ShouldWrap, app.ErrLoad)
			})
		})

		convey.Convey("When querying before start", func() {
			svc := app.New(app.WithDataDir(dir))
			_, err := svc.Home(ctx)

			convey.Convey("Then the not-started sentinel is returned", func() {
				convey.So(err, convey.ShouldWrap, app.ErrNotStarted)
			})
		})
	})
}

func TestServiceViews(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		dir := writeFixtureDir(t)
		svc := app.New(
			app.WithDataDir(dir),
			app.WithDefaultMunicipality("Vilniaus m. sav."),
			app.WithSampleRows(5),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When requesting the homepage", func() {
			result, err := svc.Home(ctx)

			convey.Convey("Then it carries the dataset shape and docs", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Rows, convey.ShouldBeGreaterThan, 0)
				convey.So(result.Persons, convey.ShouldBeGreaterThan, 0)
				convey.So(len(result.Sample.Rows), convey.ShouldEqual, 5)
				convey.So(result.Docs, convey.ShouldContainSubstring, "Admissions dataset")
			})
		})

		convey.Convey("When requesting the overview", func() {
			result, err := svc.Overview(ctx, "", nil)

			convey.Convey("Then it defaults to institutions", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.GroupBy, convey.ShouldEqual, dataset.DimInstitution)
				convey.So(len(result.Table.Rows), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When requesting a municipality without a name", func() {
			result, err := svc.Municipality(ctx, "")

			convey.Convey("Then the configured default is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Municipality, convey.ShouldEqual, "Vilniaus m. sav.")
			})
		})

		convey.Convey("When requesting timing without a municipality", func() {
			result, err := svc.Timing(ctx, "")

			convey.Convey("Then the configured default is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Municipality, convey.ShouldEqual, "Vilniaus m. sav.")
			})
		})

		convey.Convey("When requesting a university drill-down", func() {
			options, err := svc.Options(ctx, dataset.DimInstitution)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(options), convey.ShouldBeGreaterThan, 0)

			result, err := svc.University(ctx, options[0], "")

			convey.Convey("Then the view is computed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Institution, convey.ShouldEqual, options[0])
				convey.So(result.Map, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When requesting options for an unknown dimension", func() {
			_, err := svc.Options(ctx, "shoe_size")

			convey.Convey("Then the sentinel error is returned", func() {
				convey.So(err, convey.ShouldWrap, app.ErrUnknownDimension)
			})
		})

		convey.Convey("When requesting the boundaries", func() {
			doc, err := svc.GeoJSON(ctx)

			convey.Convey("Then the raw document is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(doc), convey.ShouldContainSubstring, "FeatureCollection")
			})
		})
	})
}

// Helper functions.

func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := testdata.Config{Persons: 40, StageYear: 2024, MaxChoices: 4, Seed: 3}
	if err := storage.WriteSource(dir, testdata.Generate(cfg)); err != nil {
		t.Fatalf("failed to write fixture tables: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storage.DocsFile), []byte(testdata.Docs(cfg)), 0o644); err != nil {
		t.Fatalf("failed to write fixture docs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storage.GeoJSONFile), testdata.GeoJSON(), 0o644); err != nil {
		t.Fatalf("failed to write fixture boundaries: %v", err)
	}
	return dir
}
