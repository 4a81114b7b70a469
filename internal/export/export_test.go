package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alfredjeanlab/granja/internal/table"
)

func productTable() *table.Table[table.Record] {
	tbl := table.New([]table.Column[table.Record]{
		{Accessor: "name", Header: "Producto", Filterable: true},
		{Accessor: "price", Header: "Precio", Type: table.TypeCurrency},
		{Accessor: "status", Header: "Estado", Type: table.TypeStatus, Filterable: true, Options: table.StatusOptions},
	}, table.WithPageSize(1))
	tbl.SetData([]table.Record{
		{"name": "Maíz", "price": decimal.RequireFromString("1250.5"), "status": true},
		{"name": "Soya", "price": decimal.RequireFromString("80"), "status": false},
		{"name": "Vacuna, PRRS", "price": decimal.RequireFromString("12"), "status": true},
	})
	return tbl
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": CSV, ".XLSX": XLSX, "jsonl": JSONL, "ndjson": JSONL} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestEncodeCSV(t *testing.T) {
	tbl := productTable()
	require.NoError(t, tbl.SelectFilter("status"))
	require.NoError(t, tbl.SelectOption("Activo"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, CSV, "products", tbl.Export()))
	want := "Producto,Precio,Estado\n" +
		"Maíz,\"$1,250.50\",Activo\n" +
		"\"Vacuna, PRRS\",$12.00,Activo\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeJSONL(t *testing.T) {
	tbl := productTable()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, encodeJSONL(&buf, "products", tbl.Export(), now))

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 4)
	assert.Equal(t, "header", lines[0]["type"])
	assert.Equal(t, "products", lines[0]["resource"])
	assert.EqualValues(t, 3, lines[0]["count"])
	assert.Equal(t, "row", lines[1]["type"])
	data := lines[1]["data"].(map[string]any)
	assert.Equal(t, "Maíz", data["name"])
	assert.Equal(t, "1250.5", data["price"], "decimals keep their exact string form")
	assert.Equal(t, true, data["status"])
}

func TestEncodeXLSX(t *testing.T) {
	tbl := productTable()
	require.NoError(t, tbl.ToggleSort("name"))
	require.NoError(t, tbl.ToggleSort("name"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, XLSX, "products", tbl.Export()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Producto", "Precio", "Estado"}, rows[0])
	assert.Equal(t, "Vacuna, PRRS", rows[1][0])
	assert.Equal(t, "12", rows[1][1], "numbers are stored as numbers")
	assert.Equal(t, "Activo", rows[1][2])
	assert.Equal(t, "Maíz", rows[3][0])
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 5, 0, time.FixedZone("COT", -5*3600))
	assert.Equal(t, "orders-20260501T143005Z.csv", FileName("orders", CSV, now))
	assert.Equal(t, "export-20260501T143005Z.xlsx", FileName("", XLSX, now))
}

func TestFileDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	loc, err := FileDestination{Dir: dir}.Write(context.Background(), "a.csv", "text/csv", []byte("x\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.csv"), loc)
	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Destination(t *testing.T) {
	fake := &fakeS3{}
	d := &S3Destination{client: fake, bucket: "farm-exports", prefix: "granja/exports"}

	loc, err := d.Write(context.Background(), "pigs.jsonl", JSONL.ContentType(), []byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3://farm-exports/granja/exports/pigs.jsonl", loc)
	assert.Equal(t, "farm-exports", *fake.in.Bucket)
	assert.Equal(t, "granja/exports/pigs.jsonl", *fake.in.Key)
	assert.Equal(t, "application/x-ndjson", *fake.in.ContentType)
	assert.Equal(t, "{}\n", fake.body)
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	x := NewExporter(FileDestination{Dir: dir}, zerolog.Nop())
	x.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	tbl := productTable()
	require.NoError(t, tbl.Search("soy"))

	loc, err := x.Export(context.Background(), "products", CSV, tbl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "products-20260102T030405Z.csv"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"Producto,Precio,Estado", "Soya,$80.00,Inactivo"}, lines)
}
