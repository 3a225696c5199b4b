package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// readTable reads a whole Parquet file into an Arrow table. The dataset is
// sized for interactive use, so reading into memory is fine.
func readTable(ctx context.Context, path string, mem memory.Allocator) (arrow.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return table, nil
}

// columns gives typed access to the columns of an Arrow table. A missing
// column or a type mismatch is a schema violation.
type columns struct {
	table arrow.Table
	path  string
}

func (c *columns) find(name string) (*arrow.Column, error) {
	indices := c.table.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: %s: missing column %q", ErrSchema, c.path, name)
	}
	return c.table.Column(indices[0]), nil
}

func (c *columns) typeError(name string, want string, got arrow.DataType) error {
	return fmt.Errorf("%w: %s: column %q is %s, want %s", ErrSchema, c.path, name, got, want)
}

// strings extracts a utf8 column. Null cells become empty strings.
func (c *columns) strings(name string) ([]string, error) {
	col, err := c.find(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, c.table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		arr, ok := chunk.(*array.String)
		if !ok {
			return nil, c.typeError(name, "utf8", chunk.DataType())
		}
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, "")
				continue
			}
			out = append(out, arr.Value(i))
		}
	}
	return out, nil
}

// int64s extracts an integer column. Null cells become zero.
func (c *columns) int64s(name string) ([]int64, error) {
	col, err := c.find(name)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, c.table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		switch arr := chunk.(type) {
		case *array.Int64:
			for i := 0; i < arr.Len(); i++ {
				if arr.IsNull(i) {
					out = append(out, 0)
					continue
				}
				out = append(out, arr.Value(i))
			}
		case *array.Int32:
			for i := 0; i < arr.Len(); i++ {
				if arr.IsNull(i) {
					out = append(out, 0)
					continue
				}
				out = append(out, int64(arr.Value(i)))
			}
		default:
			return nil, c.typeError(name, "int64", chunk.DataType())
		}
	}
	return out, nil
}

// bools extracts a boolean column. Null cells become false.
func (c *columns) bools(name string) ([]bool, error) {
	col, err := c.find(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, 0, c.table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		arr, ok := chunk.(*array.Boolean)
		if !ok {
			return nil, c.typeError(name, "bool", chunk.DataType())
		}
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, false)
				continue
			}
			out = append(out, arr.Value(i))
		}
	}
	return out, nil
}

// times extracts a timestamp or date column. Null cells become the zero
// time; downstream derivation treats those as null time parts.
func (c *columns) times(name string) ([]time.Time, error) {
	col, err := c.find(name)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, c.table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		switch arr := chunk.(type) {
		case *array.Timestamp:
			dtype, ok := arr.DataType().(*arrow.TimestampType)
			if !ok {
				return nil, c.typeError(name, "timestamp", chunk.DataType())
			}
			for i := 0; i < arr.Len(); i++ {
				if arr.IsNull(i) {
					out = append(out, time.Time{})
					continue
				}
				out = append(out, arr.Value(i).ToTime(dtype.Unit))
			}
		case *array.Date32:
			for i := 0; i < arr.Len(); i++ {
				if arr.IsNull(i) {
					out = append(out, time.Time{})
					continue
				}
				out = append(out, arr.Value(i).ToTime())
			}
		case *array.Date64:
			for i := 0; i < arr.Len(); i++ {
				if arr.IsNull(i) {
					out = append(out, time.Time{})
					continue
				}
				out = append(out, arr.Value(i).ToTime())
			}
		default:
			return nil, c.typeError(name, "timestamp or date", chunk.DataType())
		}
	}
	return out, nil
}
