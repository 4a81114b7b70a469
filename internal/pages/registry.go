package pages

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alfredjeanlab/granja/internal/client"
	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/forms"
	"github.com/alfredjeanlab/granja/internal/model"
)

// Deps are what every page is built from.
type Deps struct {
	Client   *client.Client
	Config   ConfigSource
	Alerts   Alerter
	Events   events.Publisher
	By       string
	Log      zerolog.Logger
	PageSize int
}

func register[R any](r *Router, d Deps, def Definition[R]) {
	r.Add(Route{
		Name:  def.Name,
		Title: def.Title,
		Roles: def.Roles,
		Open: func() View {
			res := client.NewResource[R](d.Client, def.Path)
			var items ItemsFunc
			if def.Items {
				items = res.Items
			}
			return newResourcePage(def, Store[R](res), items, d)
		},
	})
}

func today() time.Time {
	y, m, day := time.Now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

var managers = []string{model.RoleManager}

// Routes builds the router of every resource page.
func Routes(d Deps) *Router {
	r := NewRouter()
	register(r, d, Definition[model.Product]{
		Name: DefaultRoute, Title: "Inventario", Path: client.PathProducts,
		ID:       func(v model.Product) string { return v.ID },
		Columns:  ProductColumns,
		Fields:   forms.ProductFields,
		Validate: forms.ValidateProduct,
		New:      func() model.Product { return model.Product{Status: true} },
	})
	register(r, d, Definition[model.Farm]{
		Name: "farms", Title: "Granjas", Path: client.PathFarms, Roles: managers,
		ID:       func(v model.Farm) string { return v.ID },
		Columns:  FarmColumns,
		Fields:   forms.FarmFields,
		Validate: fixed(forms.ValidateFarm),
		New:      func() model.Farm { return model.Farm{Status: true} },
	})
	register(r, d, Definition[model.Warehouse]{
		Name: "warehouses", Title: "Bodegas", Path: client.PathWarehouses, Roles: managers,
		ID:       func(v model.Warehouse) string { return v.ID },
		Columns:  WarehouseColumns,
		Fields:   forms.WarehouseFields,
		Validate: fixed(forms.ValidateWarehouse),
		New:      func() model.Warehouse { return model.Warehouse{Status: true} },
	})
	register(r, d, Definition[model.Subwarehouse]{
		Name: "subwarehouses", Title: "Subbodegas", Path: client.PathSubwarehouses, Roles: managers,
		ID:       func(v model.Subwarehouse) string { return v.ID },
		Columns:  SubwarehouseColumns,
		Fields:   forms.SubwarehouseFields,
		Validate: fixed(forms.ValidateSubwarehouse),
		New:      func() model.Subwarehouse { return model.Subwarehouse{Status: true} },
	})
	register(r, d, Definition[model.Income]{
		Name: "incomes", Title: "Ingresos", Path: client.PathIncomes, Items: true,
		ID:       func(v model.Income) string { return v.ID },
		Columns:  IncomeColumns,
		Fields:   forms.IncomeFields,
		Validate: forms.ValidateIncome,
		New:      func() model.Income { return model.Income{Date: today(), Status: true} },
	})
	register(r, d, Definition[model.Outcome]{
		Name: "outcomes", Title: "Egresos", Path: client.PathOutcomes, Items: true,
		ID:       func(v model.Outcome) string { return v.ID },
		Columns:  OutcomeColumns,
		Fields:   forms.OutcomeFields,
		Validate: forms.ValidateOutcome,
		New:      func() model.Outcome { return model.Outcome{Date: today(), Status: true} },
	})
	register(r, d, Definition[model.Order]{
		Name: "orders", Title: "Órdenes de compra", Path: client.PathOrders, Items: true, Roles: managers,
		ID:       func(v model.Order) string { return v.ID },
		Columns:  OrderColumns,
		Fields:   forms.OrderFields,
		Validate: fixed(forms.ValidateOrder),
		New:      func() model.Order { return model.Order{Date: today(), Stage: model.StagePending, Status: true} },
	})
	register(r, d, Definition[model.Supplier]{
		Name: "suppliers", Title: "Proveedores", Path: client.PathSuppliers, Roles: managers,
		ID:       func(v model.Supplier) string { return v.ID },
		Columns:  SupplierColumns,
		Fields:   forms.SupplierFields,
		Validate: fixed(forms.ValidateSupplier),
		New:      func() model.Supplier { return model.Supplier{Status: true} },
	})
	register(r, d, Definition[model.User]{
		Name: "users", Title: "Usuarios", Path: client.PathUsers, Roles: []string{model.RoleAdmin},
		ID:       func(v model.User) string { return v.ID },
		Columns:  UserColumns,
		Fields:   forms.UserFields,
		Validate: forms.ValidateUser,
		New:      func() model.User { return model.User{Role: model.RoleOperator, Status: true} },
	})
	register(r, d, Definition[model.Pig]{
		Name: "pigs", Title: "Cerdos", Path: client.PathPigs,
		ID:       func(v model.Pig) string { return v.ID },
		Columns:  PigColumns,
		Fields:   forms.PigFields,
		Validate: forms.ValidatePig,
		New:      func() model.Pig { return model.Pig{Status: true} },
	})
	register(r, d, Definition[model.Litter]{
		Name: "litters", Title: "Camadas", Path: client.PathLitters,
		ID:       func(v model.Litter) string { return v.ID },
		Columns:  LitterColumns,
		Fields:   forms.LitterFields,
		Validate: fixed(forms.ValidateLitter),
		New:      func() model.Litter { return model.Litter{Status: true} },
	})
	register(r, d, Definition[model.Medication]{
		Name: "medications", Title: "Medicaciones", Path: client.PathMedications,
		ID:       func(v model.Medication) string { return v.ID },
		Columns:  MedicationColumns,
		Fields:   forms.MedicationFields,
		Validate: forms.ValidateMedication,
		New:      func() model.Medication { return model.Medication{Date: today(), Status: true} },
	})
	register(r, d, Definition[model.Feeding]{
		Name: "feedings", Title: "Alimentación", Path: client.PathFeedings,
		ID:       func(v model.Feeding) string { return v.ID },
		Columns:  FeedingColumns,
		Fields:   forms.FeedingFields,
		Validate: forms.ValidateFeeding,
		New:      func() model.Feeding { return model.Feeding{Date: today(), Status: true} },
	})
	return r
}
