package configedit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/model"
)

type put struct {
	group string
	value any
}

// fakeServer stores groups the way the backend does and echoes only the
// saved group back.
type fakeServer struct {
	doc   model.Configuration
	puts  []put
	err   error
	quiet bool // respond without the group
}

func (f *fakeServer) PutConfigurationGroup(ctx context.Context, group string, value any) (model.Configuration, error) {
	f.puts = append(f.puts, put{group, value})
	if f.err != nil {
		return nil, f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	f.doc[group] = raw
	if f.quiet {
		return model.Configuration{}, nil
	}
	return model.Configuration{group: raw}, nil
}

type sink struct {
	cfg  model.Configuration
	sets int
}

func (s *sink) Config() model.Configuration      { return s.cfg }
func (s *sink) SetConfig(c model.Configuration) { s.cfg = c; s.sets++ }

type recordingPublisher struct {
	events.NoopPublisher
	got []events.ConfigUpdated
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	if topic == events.TopicConfigUpdated {
		p.got = append(p.got, event.(events.ConfigUpdated))
	}
	return nil
}

func newUnits(t *testing.T, opts ...Option) (*Editor[string], *fakeServer, *sink) {
	t.Helper()
	doc := model.Configuration{
		model.GroupUnits: json.RawMessage(`["kg","lb"]`),
		model.GroupRoles: json.RawMessage(`["admin"]`),
	}
	srv := &fakeServer{doc: doc}
	sk := &sink{cfg: model.Configuration{
		model.GroupUnits: doc[model.GroupUnits],
		model.GroupRoles: doc[model.GroupRoles],
	}}
	e, err := New(StringConfig(model.GroupUnits), srv, sk, opts...)
	require.NoError(t, err)
	return e, srv, sk
}

func TestEditUnchangedMakesNoCall(t *testing.T) {
	e, srv, sk := newUnits(t)

	require.NoError(t, e.Edit(context.Background(), 0, "kg"))
	require.NoError(t, e.Edit(context.Background(), 1, " lb "))
	assert.Empty(t, srv.puts)
	assert.Zero(t, sk.sets)
}

func TestAddPutsWholeList(t *testing.T) {
	pub := &recordingPublisher{}
	e, srv, sk := newUnits(t, WithPublisher(pub, "ana@granja.test"))

	require.NoError(t, e.Add(context.Background(), "ton"))

	require.Len(t, srv.puts, 1)
	assert.Equal(t, model.GroupUnits, srv.puts[0].group)
	assert.Equal(t, []string{"kg", "lb", "ton"}, srv.puts[0].value)
	assert.Equal(t, []string{"kg", "lb", "ton"}, e.Items())

	assert.Equal(t, 1, sk.sets)
	units, err := sk.cfg.Strings(model.GroupUnits)
	require.NoError(t, err)
	assert.Equal(t, []string{"kg", "lb", "ton"}, units)
	roles, err := sk.cfg.Strings(model.GroupRoles)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles, "other groups survive")

	require.Len(t, pub.got, 1)
	assert.Equal(t, model.GroupUnits, pub.got[0].Group)
	assert.Equal(t, "ana@granja.test", pub.got[0].By)
	assert.JSONEq(t, `["kg","lb","ton"]`, string(pub.got[0].Value))
}

func TestEditAndDelete(t *testing.T) {
	e, srv, _ := newUnits(t)

	require.NoError(t, e.Edit(context.Background(), 1, "libra"))
	assert.Equal(t, []string{"kg", "libra"}, srv.puts[0].value)

	require.NoError(t, e.Delete(context.Background(), 0))
	assert.Equal(t, []string{"libra"}, srv.puts[1].value)
	assert.Equal(t, []string{"libra"}, e.Items())
}

func TestIndexOutOfRange(t *testing.T) {
	e, srv, _ := newUnits(t)
	assert.ErrorIs(t, e.Edit(context.Background(), 2, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.Delete(context.Background(), -1), ErrIndexOutOfRange)
	assert.Empty(t, srv.puts)
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	e, srv, _ := newUnits(t)

	err := e.Add(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, e.Add(context.Background(), "kg"), ErrDuplicate)
	assert.ErrorIs(t, e.Edit(context.Background(), 0, "lb"), ErrDuplicate)
	assert.Empty(t, srv.puts)
}

func TestFailedSaveLeavesListUnchanged(t *testing.T) {
	e, srv, sk := newUnits(t)
	srv.err = errors.New("500")

	err := e.Add(context.Background(), "ton")
	require.Error(t, err)
	assert.Equal(t, []string{"kg", "lb"}, e.Items())
	assert.Zero(t, sk.sets)
}

func TestSaveKeepsOtherGroups(t *testing.T) {
	e, srv, sk := newUnits(t)
	sk.cfg[model.GroupTaxes] = json.RawMessage(`[{"name":"IVA","rate":"12"}]`)

	require.NoError(t, e.Add(context.Background(), "ton"))
	require.Len(t, srv.puts, 1)

	assert.Len(t, sk.cfg, 3)
	roles, err := sk.cfg.Strings(model.GroupRoles)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
	taxes, err := model.GroupValue[model.TaxEntry](sk.cfg, model.GroupTaxes)
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "IVA", taxes[0].Name)
}

func TestStringItemsAreTrimmed(t *testing.T) {
	e, srv, sk := newUnits(t)

	require.NoError(t, e.Add(context.Background(), "  g "))
	require.Len(t, srv.puts, 1)
	assert.Equal(t, []string{"kg", "lb", "g"}, srv.puts[0].value)
	assert.Equal(t, []string{"kg", "lb", "g"}, e.Items())
	units, err := sk.cfg.Strings(model.GroupUnits)
	require.NoError(t, err)
	assert.Equal(t, []string{"kg", "lb", "g"}, units)

	require.NoError(t, e.Edit(context.Background(), 1, " libra\t"))
	require.Len(t, srv.puts, 2)
	assert.Equal(t, []string{"kg", "libra", "g"}, srv.puts[1].value)
}

func TestServerResponseWithoutGroupIsMerged(t *testing.T) {
	e, srv, sk := newUnits(t)
	srv.quiet = true

	require.NoError(t, e.Delete(context.Background(), 1))
	assert.Equal(t, []string{"kg"}, e.Items())
	units, err := sk.cfg.Strings(model.GroupUnits)
	require.NoError(t, err)
	assert.Equal(t, []string{"kg"}, units)
	assert.Contains(t, sk.cfg, model.GroupRoles)
}

func TestMissingGroupStartsEmpty(t *testing.T) {
	srv := &fakeServer{doc: model.Configuration{}}
	e, err := New(StringConfig(model.GroupBreeds), srv, &sink{})
	require.NoError(t, err)
	assert.Empty(t, e.Items())

	require.NoError(t, e.Add(context.Background(), "Landrace"))
	assert.Equal(t, []string{"Landrace"}, srv.puts[0].value)
}

func TestTaxes(t *testing.T) {
	srv := &fakeServer{doc: model.Configuration{}}
	sk := &sink{cfg: model.Configuration{model.GroupTaxes: json.RawMessage(`[{"name":"IVA","rate":"12"}]`)}}
	e, err := New(TaxConfig(), srv, sk)
	require.NoError(t, err)
	require.Len(t, e.Items(), 1)

	same, err := ParseTax("IVA=12.00")
	require.NoError(t, err)
	require.NoError(t, e.Edit(context.Background(), 0, same))
	assert.Empty(t, srv.puts, "12.00 equals 12")

	err = e.Add(context.Background(), model.TaxEntry{Name: "ICE", Rate: decimal.NewFromInt(150)})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "rate")

	err = e.Add(context.Background(), model.TaxEntry{Rate: decimal.NewFromInt(5)})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "name")

	ret, err := ParseTax(" RET = 1.75 ")
	require.NoError(t, err)
	require.NoError(t, e.Add(context.Background(), ret))
	assert.Len(t, e.Items(), 2)
	assert.Equal(t, "RET=1.75", e.Items()[1].String())
}

func TestParseTaxErrors(t *testing.T) {
	_, err := ParseTax("IVA")
	assert.Error(t, err)
	_, err = ParseTax("IVA=doce")
	assert.Error(t, err)
}
