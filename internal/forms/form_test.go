package forms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/granja/internal/model"
)

func TestSubmitBlocksInvalidRecord(t *testing.T) {
	f := New(model.Product{}, ProductFields(), ValidateProduct(Catalog{}))

	called := false
	err := f.Submit(context.Background(), func(context.Context, model.Product) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called, "invalid records never reach save")

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "unit")
	assert.Contains(t, verrs, "warehouse")
	assert.Equal(t, verrs, f.Errors())
}

func TestSubmitValidRecord(t *testing.T) {
	f := New(model.Product{Status: true}, ProductFields(), ValidateProduct(Catalog{Units: []string{"kg", "saco"}}))
	require.NoError(t, f.SetAll(map[string]string{
		"name":      "Balanceado inicial",
		"unit":      "saco",
		"quantity":  "12",
		"price":     "31,50",
		"warehouse": "w1",
	}))
	assert.True(t, f.Dirty())

	var saved model.Product
	require.NoError(t, f.Submit(context.Background(), func(_ context.Context, p model.Product) error {
		saved = p
		return nil
	}))
	assert.Equal(t, "Balanceado inicial", saved.Name)
	assert.True(t, saved.Price.Equal(decimal.RequireFromString("31.5")))
	assert.Empty(t, f.Errors())
	assert.False(t, f.Dirty(), "a saved form is clean")
}

func TestUnitMustComeFromCatalog(t *testing.T) {
	f := New(model.Product{Name: "Maíz", Warehouse: "w1"}, ProductFields(), ValidateProduct(Catalog{Units: []string{"kg"}}))
	require.NoError(t, f.Set("unit", "arroba"))
	err := f.Validate()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "unit")
}

func TestSetParseErrorsAreFieldErrors(t *testing.T) {
	f := New(model.Pig{}, PigFields(), ValidatePig(Catalog{}))

	err := f.Set("weight", "pesado")
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, f.Errors(), "weight")

	require.NoError(t, f.Set("weight", "95.5"))
	assert.NotContains(t, f.Errors(), "weight")

	assert.Error(t, f.Set("color", "rosado"))
}

func TestSetAllCollectsErrors(t *testing.T) {
	f := New(model.Litter{}, LitterFields(), ValidateLitter)
	err := f.SetAll(map[string]string{"born": "doce", "birthDate": "ayer", "mother": "c-12"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Equal(t, "c-12", f.Value().Mother)
}

func TestCancelRestoresOriginal(t *testing.T) {
	orig := model.Supplier{ID: "s1", Name: "Agro SA", TaxID: "0991234567001"}
	f := New(orig, SupplierFields(), ValidateSupplier)
	require.NoError(t, f.Set("name", "Otro"))
	_ = f.Set("email", "no-es-correo")
	_ = f.Validate()
	require.NotEmpty(t, f.Errors())

	f.Cancel()
	assert.Equal(t, orig, f.Value())
	assert.Empty(t, f.Errors())
	assert.False(t, f.Dirty())
}

func TestSaveErrorKeepsEdits(t *testing.T) {
	f := New(model.Farm{}, FarmFields(), ValidateFarm)
	require.NoError(t, f.Set("name", "La Esperanza"))
	boom := errors.New("500")
	err := f.Submit(context.Background(), func(context.Context, model.Farm) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "La Esperanza", f.Value().Name)
	assert.True(t, f.Dirty())
}

func TestLoginForm(t *testing.T) {
	f := Login()
	require.NoError(t, f.Set("email", "ana"))
	err := f.Validate()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")

	require.NoError(t, f.SetAll(map[string]string{"email": "ana@granja.test", "password": "x"}))
	assert.NoError(t, f.Validate())
}

func TestIncomeComputesTotal(t *testing.T) {
	f := New(model.Income{}, IncomeFields(), ValidateIncome(Catalog{IncomeTypes: []string{"compra"}}))
	require.NoError(t, f.SetAll(map[string]string{
		"type":      "compra",
		"warehouse": "w1",
		"date":      "2026-02-10",
		"products":  "p1:10:2.5:12; p2:1:40",
	}))
	require.NoError(t, f.Validate())
	assert.Equal(t, "68", f.Value().Total.String())
	assert.Equal(t, "p1:10:2.5:12;p2:1:40:0", f.Values()["products"])
}

func TestIncomeRejectsBadLines(t *testing.T) {
	f := New(model.Income{Type: "compra", Warehouse: "w1", Date: time.Now().AddDate(0, 0, -1)}, IncomeFields(), ValidateIncome(Catalog{}))
	require.NoError(t, f.Set("products", "p1:0:2"))
	err := f.Validate()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "products")

	assert.Error(t, f.Set("products", "p1:2"))
}

func TestOrderDefaultsToPending(t *testing.T) {
	v := model.Order{Number: "OC-1", Supplier: "s1", Date: time.Now(), Products: []model.LineItem{{Product: "p", Quantity: decimal.NewFromInt(1)}}}
	require.NoError(t, ValidateOrder(&v))
	assert.Equal(t, model.StagePending, v.Stage)

	v.Stage = "perdida"
	assert.Error(t, ValidateOrder(&v))
}

func TestLitterCounts(t *testing.T) {
	v := model.Litter{Mother: "c1", BirthDate: time.Now().AddDate(0, -1, 0), Born: 10, Alive: 8, Dead: 3}
	err := ValidateLitter(&v)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "dead")

	v.Dead = 2
	assert.NoError(t, ValidateLitter(&v))

	v.BirthDate = time.Now().AddDate(0, 0, 3)
	assert.Error(t, ValidateLitter(&v))
}

func TestFieldCodecs(t *testing.T) {
	type rec struct {
		On   bool
		Day  time.Time
		N    int
		Note string
	}
	on := Bool("on", "On", func(r *rec) *bool { return &r.On })
	day := Date("day", "Day", func(r *rec) *time.Time { return &r.Day })
	n := Int("n", "N", func(r *rec) *int { return &r.N })
	note := Text("note", "Note", func(r *rec) *string { return &r.Note })

	var r rec
	for _, s := range []string{"sí", "Activo", "1", "true"} {
		r.On = false
		require.NoError(t, on.Set(&r, s))
		assert.True(t, r.On, s)
	}
	require.NoError(t, on.Set(&r, "inactivo"))
	assert.False(t, r.On)
	assert.Error(t, on.Set(&r, "quizás"))

	require.NoError(t, day.Set(&r, "2026-03-01"))
	assert.Equal(t, "2026-03-01", day.Get(r))
	require.NoError(t, day.Set(&r, ""))
	assert.Equal(t, "", day.Get(r))

	require.NoError(t, n.Set(&r, " 7 "))
	assert.Equal(t, "7", n.Get(r))
	require.NoError(t, note.Set(&r, "  hola "))
	assert.Equal(t, "hola", note.Get(r))

	assert.Equal(t, "on (On), day (Day)", Describe([]Field[rec]{on, day}))
}

func TestNewCatalog(t *testing.T) {
	cfg := model.Configuration{
		model.GroupUnits:  json.RawMessage(`["kg"]`),
		model.GroupBreeds: json.RawMessage(`{"broken":true}`),
	}
	c := NewCatalog(cfg)
	assert.Equal(t, []string{"kg"}, c.Units)
	assert.Empty(t, c.Breeds)
	assert.Empty(t, c.Roles)
}
