package record

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

func parquetSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "run_id", Type: arrow.BinaryTypes.String},
		{Name: "trial_id", Type: arrow.BinaryTypes.String},
		{Name: "bracket", Type: arrow.PrimitiveTypes.Int32},
		{Name: "rung", Type: arrow.PrimitiveTypes.Int32},
		{Name: "budget", Type: arrow.PrimitiveTypes.Float64},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64},
		{Name: "cost", Type: arrow.PrimitiveTypes.Float64},
		{Name: "cumulative_cost", Type: arrow.PrimitiveTypes.Float64},
		{Name: "best_score", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

// WriteParquet snapshots a run's evaluation entries to a Parquet file for
// analysis outside the process (pandas, duckdb, and friends read it as-is).
func WriteParquet(path string, entries []Entry) error {
	schema := parquetSchema()

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	for _, e := range entries {
		b.Field(0).(*array.StringBuilder).Append(e.RunID)
		b.Field(1).(*array.StringBuilder).Append(e.TrialID)
		b.Field(2).(*array.Int32Builder).Append(int32(e.Bracket))
		b.Field(3).(*array.Int32Builder).Append(int32(e.Rung))
		b.Field(4).(*array.Float64Builder).Append(e.Budget)
		b.Field(5).(*array.Float64Builder).Append(e.Score)
		b.Field(6).(*array.Float64Builder).Append(e.Cost)
		b.Field(7).(*array.Float64Builder).Append(e.CumulativeCost)
		b.Field(8).(*array.Float64Builder).Append(e.BestScore)
	}

	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.RecordFailed, "failed to create parquet file")
	}

	w, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return errors.Wrap(err, errors.RecordFailed, "failed to open parquet writer")
	}

	if err := w.Write(rec); err != nil {
		w.Close()
		return errors.Wrap(err, errors.RecordFailed, "failed to write parquet record")
	}

	return w.Close()
}

// ReadParquet loads the entries previously written by WriteParquet.
func ReadParquet(path string) ([]Entry, error) {
	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, errors.RecordFailed, "failed to open parquet file")
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Wrap(err, errors.RecordFailed, "failed to create arrow reader")
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, errors.RecordFailed, "failed to read parquet table")
	}
	defer table.Release()

	entries := make([]Entry, table.NumRows())
	for i := 0; i < int(table.NumRows()); i++ {
		entries[i] = Entry{
			RunID:          table.Column(0).Data().Chunk(0).(*array.String).Value(i),
			TrialID:        table.Column(1).Data().Chunk(0).(*array.String).Value(i),
			Bracket:        int(table.Column(2).Data().Chunk(0).(*array.Int32).Value(i)),
			Rung:           int(table.Column(3).Data().Chunk(0).(*array.Int32).Value(i)),
			Budget:         table.Column(4).Data().Chunk(0).(*array.Float64).Value(i),
			Score:          table.Column(5).Data().Chunk(0).(*array.Float64).Value(i),
			Cost:           table.Column(6).Data().Chunk(0).(*array.Float64).Value(i),
			CumulativeCost: table.Column(7).Data().Chunk(0).(*array.Float64).Value(i),
			BestScore:      table.Column(8).Data().Chunk(0).(*array.Float64).Value(i),
		}
	}

	return entries, nil
}
