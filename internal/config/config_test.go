package config_test

import (
	"context"
	"testing"

	"github.com/admitlab/admitboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a fresh configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then the defaults describe the published round", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
			convey.So(cfg.DataDir, convey.ShouldEqual, "admissions")
			convey.So(cfg.AdmissionStage, convey.ShouldEqual, "Main Admission")
			convey.So(cfg.StageYear, convey.ShouldEqual, 2024)
			convey.So(cfg.RequireCompetition, convey.ShouldBeTrue)
			convey.So(cfg.DefaultMunicipality, convey.ShouldEqual, "Vilniaus m. sav.")
			convey.So(cfg.SampleRows, convey.ShouldEqual, 20)
		})
	})
}
