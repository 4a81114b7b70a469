package forms

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/alfredjeanlab/granja/internal/model"
)

// Catalog holds the configured choices some fields must come from. Empty
// lists accept any value.
type Catalog struct {
	IncomeTypes     []string
	OutcomeTypes    []string
	Roles           []string
	Units           []string
	Breeds          []string
	MedicationTypes []string
	FeedTypes       []string
}

// NewCatalog reads the choice lists from the configuration document.
// Groups that fail to decode are left empty.
func NewCatalog(cfg model.Configuration) Catalog {
	get := func(g string) []string {
		v, err := cfg.Strings(g)
		if err != nil {
			return nil
		}
		return v
	}
	return Catalog{
		IncomeTypes:     get(model.GroupIncomeTypes),
		OutcomeTypes:    get(model.GroupOutcomeTypes),
		Roles:           get(model.GroupRoles),
		Units:           get(model.GroupUnits),
		Breeds:          get(model.GroupBreeds),
		MedicationTypes: get(model.GroupMedicationTypes),
		FeedTypes:       get(model.GroupFeedTypes),
	}
}

// oneOf restricts a string to choices when there are any.
func oneOf(choices []string) validation.Rule {
	if len(choices) == 0 {
		return validation.Skip
	}
	vals := make([]any, len(choices))
	for i, c := range choices {
		vals[i] = c
	}
	return validation.In(vals...).Error("must be one of the configured values")
}

var errNegative = errors.New("must not be negative")

func nonNegative(v any) error {
	if d, ok := v.(decimal.Decimal); ok && d.IsNegative() {
		return errNegative
	}
	return nil
}

func positive(v any) error {
	if d, ok := v.(decimal.Decimal); ok && !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validItems(v any) error {
	items, _ := v.([]model.LineItem)
	for _, it := range items {
		err := validation.ValidateStruct(&it,
			validation.Field(&it.Product, validation.Required),
			validation.Field(&it.Quantity, validation.By(positive)),
			validation.Field(&it.UnitPrice, validation.By(nonNegative)),
			validation.Field(&it.Tax, validation.By(nonNegative)),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func LoginFields() []Field[Credentials] {
	return []Field[Credentials]{
		Text("email", "Correo", func(c *Credentials) *string { return &c.Email }),
		Text("password", "Contraseña", func(c *Credentials) *string { return &c.Password }),
	}
}

func ValidateLogin(c *Credentials) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Password, validation.Required),
	)
}

func Login() *Form[Credentials] {
	return New(Credentials{}, LoginFields(), ValidateLogin)
}

// Farm

func FarmFields() []Field[model.Farm] {
	return []Field[model.Farm]{
		Text("name", "Nombre", func(v *model.Farm) *string { return &v.Name }),
		Text("location", "Ubicación", func(v *model.Farm) *string { return &v.Location }),
		Text("manager", "Responsable", func(v *model.Farm) *string { return &v.Manager }),
		Bool("status", "Activo", func(v *model.Farm) *bool { return &v.Status }),
	}
}

func ValidateFarm(v *model.Farm) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Name, validation.Required, validation.Length(2, 80)),
	)
}

// Warehouse

func WarehouseFields() []Field[model.Warehouse] {
	return []Field[model.Warehouse]{
		Text("name", "Nombre", func(v *model.Warehouse) *string { return &v.Name }),
		Text("farm", "Granja", func(v *model.Warehouse) *string { return &v.Farm }),
		Text("location", "Ubicación", func(v *model.Warehouse) *string { return &v.Location }),
		Bool("status", "Activo", func(v *model.Warehouse) *bool { return &v.Status }),
	}
}

func ValidateWarehouse(v *model.Warehouse) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Name, validation.Required, validation.Length(2, 80)),
		validation.Field(&v.Farm, validation.Required),
	)
}

// Subwarehouse

func SubwarehouseFields() []Field[model.Subwarehouse] {
	return []Field[model.Subwarehouse]{
		Text("name", "Nombre", func(v *model.Subwarehouse) *string { return &v.Name }),
		Text("warehouse", "Bodega", func(v *model.Subwarehouse) *string { return &v.Warehouse }),
		Text("description", "Descripción", func(v *model.Subwarehouse) *string { return &v.Description }),
		Bool("status", "Activo", func(v *model.Subwarehouse) *bool { return &v.Status }),
	}
}

func ValidateSubwarehouse(v *model.Subwarehouse) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Name, validation.Required, validation.Length(2, 80)),
		validation.Field(&v.Warehouse, validation.Required),
	)
}

// Product

func ProductFields() []Field[model.Product] {
	return []Field[model.Product]{
		Text("name", "Nombre", func(v *model.Product) *string { return &v.Name }),
		Text("category", "Categoría", func(v *model.Product) *string { return &v.Category }),
		Text("unit", "Unidad", func(v *model.Product) *string { return &v.Unit }),
		Decimal("quantity", "Cantidad", func(v *model.Product) *decimal.Decimal { return &v.Quantity }),
		Decimal("price", "Precio", func(v *model.Product) *decimal.Decimal { return &v.Price }),
		Text("warehouse", "Bodega", func(v *model.Product) *string { return &v.Warehouse }),
		Text("subwarehouse", "Subbodega", func(v *model.Product) *string { return &v.Subwarehouse }),
		Bool("status", "Activo", func(v *model.Product) *bool { return &v.Status }),
	}
}

func ValidateProduct(c Catalog) func(*model.Product) error {
	return func(v *model.Product) error {
		return validation.ValidateStruct(v,
			validation.Field(&v.Name, validation.Required, validation.Length(2, 120)),
			validation.Field(&v.Unit, validation.Required, oneOf(c.Units)),
			validation.Field(&v.Quantity, validation.By(nonNegative)),
			validation.Field(&v.Price, validation.By(nonNegative)),
			validation.Field(&v.Warehouse, validation.When(v.Subwarehouse == "", validation.Required.Error("warehouse or subwarehouse is required"))),
		)
	}
}

// Supplier

func SupplierFields() []Field[model.Supplier] {
	return []Field[model.Supplier]{
		Text("name", "Nombre", func(v *model.Supplier) *string { return &v.Name }),
		Text("taxId", "RUC", func(v *model.Supplier) *string { return &v.TaxID }),
		Text("phone", "Teléfono", func(v *model.Supplier) *string { return &v.Phone }),
		Text("email", "Correo", func(v *model.Supplier) *string { return &v.Email }),
		Text("address", "Dirección", func(v *model.Supplier) *string { return &v.Address }),
		Bool("status", "Activo", func(v *model.Supplier) *bool { return &v.Status }),
	}
}

func ValidateSupplier(v *model.Supplier) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&v.TaxID, validation.Required, is.Digit, validation.Length(10, 13)),
		validation.Field(&v.Email, is.EmailFormat),
	)
}

// User

func UserFields() []Field[model.User] {
	return []Field[model.User]{
		Text("name", "Nombre", func(v *model.User) *string { return &v.Name }),
		Text("email", "Correo", func(v *model.User) *string { return &v.Email }),
		Text("role", "Rol", func(v *model.User) *string { return &v.Role }),
		Text("farm", "Granja", func(v *model.User) *string { return &v.Farm }),
		Bool("status", "Activo", func(v *model.User) *bool { return &v.Status }),
	}
}

func ValidateUser(c Catalog) func(*model.User) error {
	return func(v *model.User) error {
		return validation.ValidateStruct(v,
			validation.Field(&v.Name, validation.Required, validation.Length(2, 80)),
			validation.Field(&v.Email, validation.Required, is.EmailFormat),
			validation.Field(&v.Role, validation.Required, oneOf(c.Roles)),
		)
	}
}

// Pig

func PigFields() []Field[model.Pig] {
	return []Field[model.Pig]{
		Text("code", "Código", func(v *model.Pig) *string { return &v.Code }),
		Text("breed", "Raza", func(v *model.Pig) *string { return &v.Breed }),
		Text("sex", "Sexo", func(v *model.Pig) *string { return &v.Sex }),
		Date("birthDate", "Nacimiento", func(v *model.Pig) *time.Time { return &v.BirthDate }),
		Decimal("weight", "Peso", func(v *model.Pig) *decimal.Decimal { return &v.Weight }),
		Text("stage", "Etapa", func(v *model.Pig) *string { return &v.Stage }),
		Text("farm", "Granja", func(v *model.Pig) *string { return &v.Farm }),
		Bool("status", "Activo", func(v *model.Pig) *bool { return &v.Status }),
	}
}

func ValidatePig(c Catalog) func(*model.Pig) error {
	return func(v *model.Pig) error {
		return validation.ValidateStruct(v,
			validation.Field(&v.Code, validation.Required, is.Alphanumeric),
			validation.Field(&v.Breed, validation.Required, oneOf(c.Breeds)),
			validation.Field(&v.Sex, validation.Required, validation.In("macho", "hembra")),
			validation.Field(&v.BirthDate, validation.Required, validation.By(notFuture)),
			validation.Field(&v.Weight, validation.By(nonNegative)),
		)
	}
}

// Litter

func LitterFields() []Field[model.Litter] {
	return []Field[model.Litter]{
		Text("mother", "Madre", func(v *model.Litter) *string { return &v.Mother }),
		Date("birthDate", "Fecha de parto", func(v *model.Litter) *time.Time { return &v.BirthDate }),
		Int("born", "Nacidos", func(v *model.Litter) *int { return &v.Born }),
		Int("alive", "Vivos", func(v *model.Litter) *int { return &v.Alive }),
		Int("dead", "Muertos", func(v *model.Litter) *int { return &v.Dead }),
		Text("notes", "Notas", func(v *model.Litter) *string { return &v.Notes }),
		Bool("status", "Activo", func(v *model.Litter) *bool { return &v.Status }),
	}
}

func ValidateLitter(v *model.Litter) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Mother, validation.Required),
		validation.Field(&v.BirthDate, validation.Required, validation.By(notFuture)),
		validation.Field(&v.Born, validation.Min(0)),
		validation.Field(&v.Alive, validation.Min(0), validation.Max(v.Born)),
		validation.Field(&v.Dead, validation.Min(0), validation.By(func(any) error {
			if v.Alive+v.Dead > v.Born {
				return errors.New("alive plus dead exceeds born")
			}
			return nil
		})),
	)
}

// Medication

func MedicationFields() []Field[model.Medication] {
	return []Field[model.Medication]{
		Text("pig", "Cerdo", func(v *model.Medication) *string { return &v.Pig }),
		Text("name", "Medicamento", func(v *model.Medication) *string { return &v.Name }),
		Text("type", "Tipo", func(v *model.Medication) *string { return &v.Type }),
		Text("dose", "Dosis", func(v *model.Medication) *string { return &v.Dose }),
		Date("date", "Fecha", func(v *model.Medication) *time.Time { return &v.Date }),
		Text("notes", "Notas", func(v *model.Medication) *string { return &v.Notes }),
		Bool("status", "Activo", func(v *model.Medication) *bool { return &v.Status }),
	}
}

func ValidateMedication(c Catalog) func(*model.Medication) error {
	return func(v *model.Medication) error {
		return validation.ValidateStruct(v,
			validation.Field(&v.Pig, validation.Required),
			validation.Field(&v.Name, validation.Required),
			validation.Field(&v.Type, oneOf(c.MedicationTypes)),
			validation.Field(&v.Dose, validation.Required),
			validation.Field(&v.Date, validation.Required),
		)
	}
}

// Feeding

func FeedingFields() []Field[model.Feeding] {
	return []Field[model.Feeding]{
		Text("pig", "Cerdo", func(v *model.Feeding) *string { return &v.Pig }),
		Text("feed", "Alimento", func(v *model.Feeding) *string { return &v.Feed }),
		Decimal("quantity", "Cantidad", func(v *model.Feeding) *decimal.Decimal { return &v.Quantity }),
		Text("unit", "Unidad", func(v *model.Feeding) *string { return &v.Unit }),
		Date("date", "Fecha", func(v *model.Feeding) *time.Time { return &v.Date }),
		Bool("status", "Activo", func(v *model.Feeding) *bool { return &v.Status }),
	}
}

func ValidateFeeding(c Catalog) func(*model.Feeding) error {
	return func(v *model.Feeding) error {
		return validation.ValidateStruct(v,
			validation.Field(&v.Pig, validation.Required),
			validation.Field(&v.Feed, validation.Required, oneOf(c.FeedTypes)),
			validation.Field(&v.Quantity, validation.By(positive)),
			validation.Field(&v.Unit, oneOf(c.Units)),
			validation.Field(&v.Date, validation.Required),
		)
	}
}

// Income

func IncomeFields() []Field[model.Income] {
	return []Field[model.Income]{
		Text("type", "Tipo", func(v *model.Income) *string { return &v.Type }),
		Text("supplier", "Proveedor", func(v *model.Income) *string { return &v.Supplier }),
		Text("warehouse", "Bodega", func(v *model.Income) *string { return &v.Warehouse }),
		Date("date", "Fecha", func(v *model.Income) *time.Time { return &v.Date }),
		Text("description", "Descripción", func(v *model.Income) *string { return &v.Description }),
		Items("products", "Productos", func(v *model.Income) *[]model.LineItem { return &v.Products }),
		Bool("status", "Activo", func(v *model.Income) *bool { return &v.Status }),
	}
}

// ValidateIncome also fills Total from the product lines.
func ValidateIncome(c Catalog) func(*model.Income) error {
	return func(v *model.Income) error {
		err := validation.ValidateStruct(v,
			validation.Field(&v.Type, validation.Required, oneOf(c.IncomeTypes)),
			validation.Field(&v.Warehouse, validation.Required),
			validation.Field(&v.Date, validation.Required),
			validation.Field(&v.Products, validation.Required, validation.By(validItems)),
		)
		if err == nil {
			v.Total = model.Total(v.Products).Total
		}
		return err
	}
}

// Outcome

func OutcomeFields() []Field[model.Outcome] {
	return []Field[model.Outcome]{
		Text("type", "Tipo", func(v *model.Outcome) *string { return &v.Type }),
		Text("warehouse", "Bodega", func(v *model.Outcome) *string { return &v.Warehouse }),
		Text("destination", "Destino", func(v *model.Outcome) *string { return &v.Destination }),
		Date("date", "Fecha", func(v *model.Outcome) *time.Time { return &v.Date }),
		Text("description", "Descripción", func(v *model.Outcome) *string { return &v.Description }),
		Items("products", "Productos", func(v *model.Outcome) *[]model.LineItem { return &v.Products }),
		Bool("status", "Activo", func(v *model.Outcome) *bool { return &v.Status }),
	}
}

func ValidateOutcome(c Catalog) func(*model.Outcome) error {
	return func(v *model.Outcome) error {
		err := validation.ValidateStruct(v,
			validation.Field(&v.Type, validation.Required, oneOf(c.OutcomeTypes)),
			validation.Field(&v.Warehouse, validation.Required),
			validation.Field(&v.Date, validation.Required),
			validation.Field(&v.Products, validation.Required, validation.By(validItems)),
		)
		if err == nil {
			v.Total = model.Total(v.Products).Total
		}
		return err
	}
}

// Order

func OrderFields() []Field[model.Order] {
	return []Field[model.Order]{
		Text("number", "Número", func(v *model.Order) *string { return &v.Number }),
		Text("supplier", "Proveedor", func(v *model.Order) *string { return &v.Supplier }),
		Text("warehouse", "Bodega", func(v *model.Order) *string { return &v.Warehouse }),
		Date("date", "Fecha", func(v *model.Order) *time.Time { return &v.Date }),
		Text("stage", "Etapa", func(v *model.Order) *string { return (*string)(&v.Stage) }),
		Items("products", "Productos", func(v *model.Order) *[]model.LineItem { return &v.Products }),
		Bool("status", "Activo", func(v *model.Order) *bool { return &v.Status }),
	}
}

func ValidateOrder(v *model.Order) error {
	if v.Stage == "" {
		v.Stage = model.StagePending
	}
	err := validation.ValidateStruct(v,
		validation.Field(&v.Number, validation.Required),
		validation.Field(&v.Supplier, validation.Required),
		validation.Field(&v.Date, validation.Required),
		validation.Field(&v.Stage, validation.By(func(any) error {
			if !v.Stage.IsValid() {
				return errors.New("unknown stage")
			}
			return nil
		})),
		validation.Field(&v.Products, validation.Required, validation.By(validItems)),
	)
	if err == nil {
		v.Total = model.Total(v.Products).Total
	}
	return err
}

func notFuture(v any) error {
	if t, ok := v.(time.Time); ok && t.After(time.Now()) {
		return errors.New("must not be in the future")
	}
	return nil
}
