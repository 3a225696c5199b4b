package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/testdata"
)

func TestRun(t *testing.T) {
	convey.Convey("Given a dataset generation config", t, func() {
		cfg := testdata.Config{Persons: 15, StageYear: 2024, MaxChoices: 3, Seed: 3}

		convey.Convey("When writing a dataset directory", func() {
			dir := filepath.Join(t.TempDir(), "admissions")
			err := run(dir, cfg)

			convey.Convey("Then all dataset files should exist", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, name := range []string{
					storage.ApplicationsFile,
					storage.ProfilesFile,
					storage.ProgramsFile,
					storage.DocsFile,
					storage.GeoJSONFile,
				} {
					info, statErr := os.Stat(filepath.Join(dir, name))
					convey.So(statErr, convey.ShouldBeNil)
					convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)
				}
			})

			convey.Convey("And the directory should load back as a source", func() {
				convey.So(err, convey.ShouldBeNil)
				src, loadErr := storage.NewLoader(dir).Load(context.Background())
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(src.Profiles, convey.ShouldHaveLength, cfg.Persons)
				convey.So(len(src.Applications), convey.ShouldBeGreaterThanOrEqualTo, cfg.Persons)
			})
		})

		convey.Convey("When the output path collides with a file", func() {
			base := t.TempDir()
			blocked := filepath.Join(base, "taken")
			convey.So(os.WriteFile(blocked, []byte("x"), 0o644), convey.ShouldBeNil)

			convey.Convey("Then run should fail", func() {
				convey.So(run(blocked, cfg), convey.ShouldNotBeNil)
			})
		})
	})
}
