package views

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/granja/internal/table"
)

func pigTable() *table.Table[table.Record] {
	t := table.New([]table.Column[table.Record]{
		{Accessor: "code", Header: "Código", Filterable: true},
		{Accessor: "sex", Header: "Sexo", Filterable: true, Options: []table.Option{
			{Label: "macho", Value: "macho"}, {Label: "hembra", Value: "hembra"},
		}},
		{Accessor: "weight", Header: "Peso", Type: table.TypeNumber},
	})
	t.SetData([]table.Record{
		{"code": "C-2", "sex": "hembra", "weight": 80},
		{"code": "C-1", "sex": "macho", "weight": 95},
		{"code": "C-3", "sex": "hembra", "weight": 70},
	})
	return t
}

func TestApplyOption(t *testing.T) {
	tbl := pigTable()
	v := View{Name: "hembras", Resource: "pigs", Filter: "sex", Option: "Hembra", Sort: "code", Desc: true}
	require.NoError(t, v.Apply(tbl))

	s := tbl.Snapshot()
	assert.Equal(t, 2, s.Filtered)
	assert.Equal(t, [][]string{{"C-3", "hembra", "70"}, {"C-2", "hembra", "80"}}, s.Cells)
	assert.Equal(t, table.SortDesc, s.SortDir)
}

func TestApplySearch(t *testing.T) {
	tbl := pigTable()
	require.NoError(t, View{Name: "uno", Resource: "pigs", Search: "C-1"}.Apply(tbl))
	assert.Equal(t, 1, tbl.Snapshot().Filtered)
}

func TestApplyUnknownColumn(t *testing.T) {
	err := View{Name: "x", Resource: "pigs", Sort: "breed"}.Apply(pigTable())
	var unknown *table.UnknownColumnError
	assert.True(t, errors.As(err, &unknown))
	assert.Contains(t, err.Error(), "view x")
}

func TestProject(t *testing.T) {
	tbl := pigTable()
	s, err := Project(tbl.Snapshot(), []string{"weight", "code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Peso", "Código"}, s.Headers)
	assert.Equal(t, []string{"95", "C-1"}, s.Cells[1])

	same, err := Project(tbl.Snapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, tbl.Snapshot(), same)

	_, err = Project(tbl.Snapshot(), []string{"nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, View{Name: "a", Resource: "pigs"}.Validate())
	assert.Error(t, View{Resource: "pigs"}.Validate())
	assert.Error(t, View{Name: "a"}.Validate())
	assert.Error(t, View{Name: "a", Resource: "pigs", Search: "x", Option: "y"}.Validate())
	assert.Error(t, View{Name: "a", Resource: "pigs", PageSize: 500}.Validate())
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "views.yaml"))

	all, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Put(View{Name: "zeta", Resource: "farms"}))
	require.NoError(t, s.Put(View{Name: "alfa", Resource: "pigs", Columns: []string{"code"}, PageSize: 20}))
	require.NoError(t, s.Put(View{Name: "zeta", Resource: "suppliers"}))

	all, err = s.List()
	require.NoError(t, err)
	want := []View{
		{Name: "alfa", Resource: "pigs", Columns: []string{"code"}, PageSize: 20},
		{Name: "zeta", Resource: "suppliers"},
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("views mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Get("alfa")
	require.NoError(t, err)
	assert.Equal(t, 20, got.PageSize)

	require.NoError(t, s.Delete("alfa"))
	_, err = s.Get("alfa")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("alfa"), ErrNotFound)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "resource: suppliers")
}

func TestStoreRejectsInvalidView(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "views.yaml"))
	assert.Error(t, s.Put(View{Name: "sin recurso"}))
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestStoreParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.yaml")
	require.NoError(t, os.WriteFile(path, []byte("views: [unclosed"), 0o644))
	_, err := NewStore(path).List()
	assert.Error(t, err)
}
