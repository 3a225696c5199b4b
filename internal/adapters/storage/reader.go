// Package storage reads the three admissions source tables from Parquet
// files into typed row slices, validating the expected schema. It is the
// only component touching the on-disk columnar format; everything
// downstream works on dataset rows.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// File names expected inside the data directory.
const (
	ApplicationsFile = "applications.parquet"
	ProfilesFile     = "profiles.parquet"
	ProgramsFile     = "programs.parquet"
	DocsFile         = "docs.md"
	GeoJSONFile      = "municipalities.geojson"
)

// Source bundles the three loaded tables.
type Source struct {
	Applications []dataset.Application
	Profiles     []dataset.Profile
	Programs     []dataset.Program
}

// Loader reads the dataset directory.
type Loader struct {
	dir string
	mem memory.Allocator
}

// NewLoader creates a Loader for a data directory.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir: dir,
		mem: memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the three tables. The files are independent, so they are
// read concurrently; any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context) (*Source, error) {
	var src Source
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apps, err := l.readApplications(ctx)
		if err != nil {
			return err
		}
		src.Applications = apps
		return nil
	})
	g.Go(func() error {
		profiles, err := l.readProfiles(ctx)
		if err != nil {
			return err
		}
		src.Profiles = profiles
		return nil
	})
	g.Go(func() error {
		programs, err := l.readPrograms(ctx)
		if err != nil {
			return err
		}
		src.Programs = programs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func (l *Loader) readApplications(ctx context.Context) ([]dataset.Application, error) {
	path := filepath.Join(l.dir, ApplicationsFile)
	table, err := readTable(ctx, path, l.mem)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	cols := &columns{table: table, path: path}
	applicationID, err := cols.strings("application_id")
	if err != nil {
		return nil, err
	}
	personID, err := cols.strings("person_id")
	if err != nil {
		return nil, err
	}
	priorityNumber, err := cols.int64s("priority_number")
	if err != nil {
		return nil, err
	}
	programID, err := cols.strings("program_id")
	if err != nil {
		return nil, err
	}
	financing, err := cols.strings("financing")
	if err != nil {
		return nil, err
	}
	invited, err := cols.bools("invited")
	if err != nil {
		return nil, err
	}
	signed, err := cols.bools("signed")
	if err != nil {
		return nil, err
	}
	choiceAt, err := cols.times("choice_at")
	if err != nil {
		return nil, err
	}
	stageStart, err := cols.times("stage_start_date")
	if err != nil {
		return nil, err
	}
	stageEnd, err := cols.times("stage_end_date")
	if err != nil {
		return nil, err
	}
	admissionStage, err := cols.strings("admission_stage")
	if err != nil {
		return nil, err
	}
	participated, err := cols.bools("participated_in_competition")
	if err != nil {
		return nil, err
	}

	apps := make([]dataset.Application, len(applicationID))
	for i := range apps {
		apps[i] = dataset.Application{
			ApplicationID:             applicationID[i],
			PersonID:                  personID[i],
			PriorityNumber:            priorityNumber[i],
			ProgramID:                 programID[i],
			Financing:                 financing[i],
			Invited:                   invited[i],
			Signed:                    signed[i],
			ChoiceAt:                  choiceAt[i],
			StageStartDate:            stageStart[i],
			StageEndDate:              stageEnd[i],
			AdmissionStage:            admissionStage[i],
			ParticipatedInCompetition: participated[i],
		}
	}
	return apps, nil
}

func (l *Loader) readProfiles(ctx context.Context) ([]dataset.Profile, error) {
	path := filepath.Join(l.dir, ProfilesFile)
	table, err := readTable(ctx, path, l.mem)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	cols := &columns{table: table, path: path}
	personID, err := cols.strings("person_id")
	if err != nil {
		return nil, err
	}
	applicationYear, err := cols.int64s("application_year")
	if err != nil {
		return nil, err
	}
	gender, err := cols.strings("gender")
	if err != nil {
		return nil, err
	}
	municipality, err := cols.strings("residence_municipality")
	if err != nil {
		return nil, err
	}
	residenceType, err := cols.strings("residence_type")
	if err != nil {
		return nil, err
	}
	residencePlace, err := cols.strings("residence_place")
	if err != nil {
		return nil, err
	}

	profiles := make([]dataset.Profile, len(personID))
	for i := range profiles {
		profiles[i] = dataset.Profile{
			PersonID:              personID[i],
			ApplicationYear:       applicationYear[i],
			Gender:                gender[i],
			ResidenceMunicipality: municipality[i],
			ResidenceType:         residenceType[i],
			ResidencePlace:        residencePlace[i],
		}
	}
	return profiles, nil
}

func (l *Loader) readPrograms(ctx context.Context) ([]dataset.Program, error) {
	path := filepath.Join(l.dir, ProgramsFile)
	table, err := readTable(ctx, path, l.mem)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	cols := &columns{table: table, path: path}
	programID, err := cols.strings("program_id")
	if err != nil {
		return nil, err
	}
	programYear, err := cols.times("program_year")
	if err != nil {
		return nil, err
	}
	programName, err := cols.strings("program_name_en")
	if err != nil {
		return nil, err
	}
	institution, err := cols.strings("educational_institution")
	if err != nil {
		return nil, err
	}

	programs := make([]dataset.Program, len(programID))
	for i := range programs {
		programs[i] = dataset.Program{
			ProgramID:              programID[i],
			ProgramYear:            programYear[i],
			ProgramName:            programName[i],
			EducationalInstitution: institution[i],
		}
	}
	return programs, nil
}

// LoadDocs reads the dataset documentation, displayed verbatim on the
// homepage.
func (l *Loader) LoadDocs() (string, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, DocsFile))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return string(data), nil
}

// LoadGeoJSON reads the municipality boundary polygons. The bytes are
// relayed to the renderer as-is; only well-formedness is checked.
func (l *Loader) LoadGeoJSON() ([]byte, error) {
	path := filepath.Join(l.dir, GeoJSONFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s: not valid JSON", ErrSchema, path)
	}
	return data, nil
}
