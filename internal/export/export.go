// Package export writes the filtered, sorted view of a table to CSV, JSONL
// or XLSX and ships the result to a local directory or an S3 bucket.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/alfredjeanlab/granja/internal/table"
)

// Format is an output encoding.
type Format string

const (
	CSV   Format = "csv"
	JSONL Format = "jsonl"
	XLSX  Format = "xlsx"
)

// Formats lists the supported encodings.
var Formats = []Format{CSV, JSONL, XLSX}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case CSV, JSONL, XLSX:
		return f, nil
	case "ndjson":
		return JSONL, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want csv, jsonl or xlsx)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv"
	case JSONL:
		return "application/x-ndjson"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// header is the first JSONL record.
type header struct {
	Type      string    `json:"type"`
	Version   string    `json:"version"`
	Resource  string    `json:"resource"`
	Timestamp time.Time `json:"timestamp"`
	Columns   []string  `json:"columns"`
	Count     int       `json:"count"`
}

// record wraps a single JSONL row.
type record struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Encode writes e to w in format f. CSV and XLSX carry the formatted cells
// under the column headers; JSONL carries the raw values keyed by accessor.
func Encode(w io.Writer, f Format, resource string, e table.Export) error {
	switch f {
	case CSV:
		return encodeCSV(w, e)
	case JSONL:
		return encodeJSONL(w, resource, e, time.Now().UTC())
	case XLSX:
		return encodeXLSX(w, resource, e)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func encodeCSV(w io.Writer, e table.Export) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(e.Headers); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	if err := cw.WriteAll(e.Cells); err != nil {
		return errors.Wrap(err, "write csv rows")
	}
	return nil
}

func encodeJSONL(w io.Writer, resource string, e table.Export, now time.Time) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(header{
		Type:      "header",
		Version:   "1",
		Resource:  resource,
		Timestamp: now,
		Columns:   e.Accessors,
		Count:     len(e.Records),
	}); err != nil {
		return errors.Wrap(err, "write jsonl header")
	}
	for i, rec := range e.Records {
		if err := enc.Encode(record{Type: "row", Data: rec}); err != nil {
			return errors.Wrapf(err, "write jsonl row %d", i)
		}
	}
	return nil
}

func encodeXLSX(w io.Writer, resource string, e table.Export) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headerRow := make([]any, len(e.Headers))
	for i, h := range e.Headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return errors.Wrap(err, "write xlsx header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "xlsx header style")
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "xlsx header style")
	}

	for i, cells := range e.Cells {
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
			if i < len(e.Records) && j < len(e.Accessors) {
				if n, ok := numeric(e.Records[i][e.Accessors[j]]); ok {
					row[j] = n
				}
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "xlsx cell name")
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return errors.Wrapf(err, "write xlsx row %d", i+1)
		}
	}
	if resource != "" {
		f.SetDocProps(&excelize.DocProperties{Title: resource, Creator: "granja"})
	}
	return errors.Wrap(f.Write(w), "write xlsx")
}

// numeric returns v as a float64 when it is a number, so spreadsheets can
// sum the column.
func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64(), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// FileName builds the object name of an export: resource, UTC timestamp
// and the format extension.
func FileName(resource string, f Format, now time.Time) string {
	if resource == "" {
		resource = "export"
	}
	return fmt.Sprintf("%s-%s.%s", resource, now.UTC().Format("20060102T150405Z"), f)
}

// Exporter encodes table views and writes them to a destination.
type Exporter struct {
	dest Destination
	log  zerolog.Logger
	now  func() time.Time
}

// NewExporter creates an exporter writing to dest.
func NewExporter(dest Destination, log zerolog.Logger) *Exporter {
	return &Exporter{dest: dest, log: log, now: time.Now}
}

// Export encodes the current view of src and writes it. It returns the
// location reported by the destination.
func (x *Exporter) Export(ctx context.Context, resource string, f Format, src table.Controller) (string, error) {
	e := src.Export()
	var buf bytes.Buffer
	if err := Encode(&buf, f, resource, e); err != nil {
		return "", err
	}
	name := FileName(resource, f, x.now())
	loc, err := x.dest.Write(ctx, name, f.ContentType(), buf.Bytes())
	if err != nil {
		return "", errors.Wrapf(err, "export %s", resource)
	}
	x.log.Info().
		Str("resource", resource).
		Str("format", string(f)).
		Int("rows", len(e.Cells)).
		Str("location", loc).
		Msg("export written")
	return loc, nil
}
