package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/admitlab/admitboard/internal/domain/dataset"
)

// WriteSource writes the three tables as Parquet files into dir. Used by
// the gen-data tool and by tests exercising the read path.
func WriteSource(dir string, src *Source) error {
	if err := writeApplications(filepath.Join(dir, ApplicationsFile), src.Applications); err != nil {
		return err
	}
	if err := writeProfiles(filepath.Join(dir, ProfilesFile), src.Profiles); err != nil {
		return err
	}
	return writePrograms(filepath.Join(dir, ProgramsFile), src.Programs)
}

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

func writeApplications(path string, apps []dataset.Application) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "application_id", Type: arrow.BinaryTypes.String},
		{Name: "person_id", Type: arrow.BinaryTypes.String},
		{Name: "priority_number", Type: arrow.PrimitiveTypes.Int64},
		{Name: "program_id", Type: arrow.BinaryTypes.String},
		{Name: "financing", Type: arrow.BinaryTypes.String},
		{Name: "invited", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "signed", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "choice_at", Type: timestampType, Nullable: true},
		{Name: "stage_start_date", Type: timestampType, Nullable: true},
		{Name: "stage_end_date", Type: timestampType, Nullable: true},
		{Name: "admission_stage", Type: arrow.BinaryTypes.String},
		{Name: "participated_in_competition", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)

	mem := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i := range apps {
		a := &apps[i]
		builder.Field(0).(*array.StringBuilder).Append(a.ApplicationID)
		builder.Field(1).(*array.StringBuilder).Append(a.PersonID)
		builder.Field(2).(*array.Int64Builder).Append(a.PriorityNumber)
		builder.Field(3).(*array.StringBuilder).Append(a.ProgramID)
		builder.Field(4).(*array.StringBuilder).Append(a.Financing)
		builder.Field(5).(*array.BooleanBuilder).Append(a.Invited)
		builder.Field(6).(*array.BooleanBuilder).Append(a.Signed)
		appendTimestamp(builder.Field(7).(*array.TimestampBuilder), a.ChoiceAt)
		appendTimestamp(builder.Field(8).(*array.TimestampBuilder), a.StageStartDate)
		appendTimestamp(builder.Field(9).(*array.TimestampBuilder), a.StageEndDate)
		builder.Field(10).(*array.StringBuilder).Append(a.AdmissionStage)
		builder.Field(11).(*array.BooleanBuilder).Append(a.ParticipatedInCompetition)
	}

	return writeRecord(path, schema, builder)
}

func writeProfiles(path string, profiles []dataset.Profile) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "person_id", Type: arrow.BinaryTypes.String},
		{Name: "application_year", Type: arrow.PrimitiveTypes.Int64},
		{Name: "gender", Type: arrow.BinaryTypes.String},
		{Name: "residence_municipality", Type: arrow.BinaryTypes.String},
		{Name: "residence_type", Type: arrow.BinaryTypes.String},
		{Name: "residence_place", Type: arrow.BinaryTypes.String},
	}, nil)

	mem := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i := range profiles {
		p := &profiles[i]
		builder.Field(0).(*array.StringBuilder).Append(p.PersonID)
		builder.Field(1).(*array.Int64Builder).Append(p.ApplicationYear)
		builder.Field(2).(*array.StringBuilder).Append(p.Gender)
		builder.Field(3).(*array.StringBuilder).Append(p.ResidenceMunicipality)
		builder.Field(4).(*array.StringBuilder).Append(p.ResidenceType)
		builder.Field(5).(*array.StringBuilder).Append(p.ResidencePlace)
	}

	return writeRecord(path, schema, builder)
}

func writePrograms(path string, programs []dataset.Program) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "program_id", Type: arrow.BinaryTypes.String},
		{Name: "program_year", Type: timestampType, Nullable: true},
		{Name: "program_name_en", Type: arrow.BinaryTypes.String},
		{Name: "educational_institution", Type: arrow.BinaryTypes.String},
	}, nil)

	mem := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i := range programs {
		p := &programs[i]
		builder.Field(0).(*array.StringBuilder).Append(p.ProgramID)
		appendTimestamp(builder.Field(1).(*array.TimestampBuilder), p.ProgramYear)
		builder.Field(2).(*array.StringBuilder).Append(p.ProgramName)
		builder.Field(3).(*array.StringBuilder).Append(p.EducationalInstitution)
	}

	return writeRecord(path, schema, builder)
}

func appendTimestamp(b *array.TimestampBuilder, t time.Time) {
	if t.IsZero() {
		b.AppendNull()
		return
	}
	ts, err := arrow.TimestampFromTime(t, arrow.Microsecond)
	if err != nil {
		b.AppendNull()
		return
	}
	b.Append(ts)
}

func writeRecord(path string, schema *arrow.Schema, builder *array.RecordBuilder) error {
	record := builder.NewRecord()
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(memory.NewGoAllocator()))

	writer, err := pqarrow.NewFileWriter(schema, f, props, arrowProps)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	// pqarrow.FileWriter.Close closes the underlying sink, so f must not
	// be closed again here.
	if err := writer.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return nil
}
