// Command gen-data writes a synthetic admissions dataset directory that
// the server can load: the three Parquet tables plus the documentation
// and municipality boundary files.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/testdata"
)

const dirPerm = 0o755

func main() {
	defaults := testdata.DefaultConfig()
	var (
		out     = flag.String("out", "admissions", "Output directory for the dataset")
		persons = flag.Int("persons", defaults.Persons, "Number of applicants to generate")
		year    = flag.Int("year", defaults.StageYear, "Admission round year")
		choices = flag.Int("choices", defaults.MaxChoices, "Maximum choices per applicant")
		seed    = flag.Int64("seed", defaults.Seed, "Random seed")
	)
	flag.Parse()

	cfg := testdata.Config{
		Persons:    *persons,
		StageYear:  *year,
		MaxChoices: *choices,
		Seed:       *seed,
	}

	if err := run(*out, cfg); err != nil {
		os.Stderr.WriteString("dataset generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(dir string, cfg testdata.Config) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	src := testdata.Generate(cfg)
	if err := storage.WriteSource(dir, src); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, storage.DocsFile), []byte(testdata.Docs(cfg)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, storage.GeoJSONFile), testdata.GeoJSON(), 0o644)
}
