// Package export writes a loaded dataset as flat rows for external tools.
//
// Each row is one present (day, package) value. Absent values are not
// written. Rows are ordered by day, then by rank.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/series"
)

// Supported export formats.
const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Row is a single value of one package on one day.
type Row struct {
	// Date is the snapshot day (midnight UTC).
	Date time.Time `parquet:"date,snappy" json:"date"`

	// Package is the package name.
	Package string `parquet:"package,snappy,dict" json:"package"`

	// Value is the vote count, or the share of the day's total in percent mode.
	Value float64 `parquet:"value,snappy" json:"value"`

	// Rank is the package's position in the ranked order, starting at 0.
	Rank int32 `parquet:"rank,snappy" json:"rank"`
}

// Rows flattens ds in the given ranked order. Packages missing from order
// are skipped.
func Rows(ds *series.Dataset, order []string) []Row {
	var rows []Row
	for _, day := range ds.Days {
		date := series.DayTime(day)
		for rank, name := range order {
			v, ok := ds.Value(day, name)
			if !ok {
				continue
			}
			rows = append(rows, Row{Date: date, Package: name, Value: v, Rank: int32(rank)})
		}
	}
	return rows
}

// Write encodes rows to w in the given format.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatParquet:
		return WriteParquet(w, rows)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported export format %q (must be json or parquet)", format)
	}
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteParquet writes rows as a Parquet file with the schema of [Row].
func WriteParquet(w io.Writer, rows []Row) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
