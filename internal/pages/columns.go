package pages

import (
	"github.com/alfredjeanlab/granja/internal/forms"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/table"
)

func choices(values []string) []table.Option {
	if len(values) == 0 {
		return nil
	}
	out := make([]table.Option, len(values))
	for i, v := range values {
		out[i] = table.Option{Label: v, Value: v}
	}
	return out
}

func statusColumn[R any](get func(R) bool) table.Column[R] {
	return table.Column[R]{
		Accessor:   "status",
		Header:     "Estado",
		Type:       table.TypeStatus,
		Filterable: true,
		Options:    table.StatusOptions,
		Value:      func(r R) any { return get(r) },
	}
}

func text[R any](accessor, header string, filterable bool, get func(R) string) table.Column[R] {
	return table.Column[R]{
		Accessor:   accessor,
		Header:     header,
		Filterable: filterable,
		Value:      func(r R) any { return get(r) },
	}
}

func FarmColumns(forms.Catalog) []table.Column[model.Farm] {
	return []table.Column[model.Farm]{
		text("name", "Nombre", true, func(v model.Farm) string { return v.Name }),
		text("location", "Ubicación", true, func(v model.Farm) string { return v.Location }),
		text("manager", "Responsable", true, func(v model.Farm) string { return v.Manager }),
		statusColumn(func(v model.Farm) bool { return v.Status }),
	}
}

func WarehouseColumns(forms.Catalog) []table.Column[model.Warehouse] {
	return []table.Column[model.Warehouse]{
		text("name", "Nombre", true, func(v model.Warehouse) string { return v.Name }),
		text("farm", "Granja", true, func(v model.Warehouse) string { return v.Farm }),
		text("location", "Ubicación", false, func(v model.Warehouse) string { return v.Location }),
		statusColumn(func(v model.Warehouse) bool { return v.Status }),
	}
}

func SubwarehouseColumns(forms.Catalog) []table.Column[model.Subwarehouse] {
	return []table.Column[model.Subwarehouse]{
		text("name", "Nombre", true, func(v model.Subwarehouse) string { return v.Name }),
		text("warehouse", "Bodega", true, func(v model.Subwarehouse) string { return v.Warehouse }),
		text("description", "Descripción", false, func(v model.Subwarehouse) string { return v.Description }),
		statusColumn(func(v model.Subwarehouse) bool { return v.Status }),
	}
}

func ProductColumns(c forms.Catalog) []table.Column[model.Product] {
	return []table.Column[model.Product]{
		text("name", "Producto", true, func(v model.Product) string { return v.Name }),
		text("category", "Categoría", true, func(v model.Product) string { return v.Category }),
		{Accessor: "unit", Header: "Unidad", Filterable: true, Options: choices(c.Units),
			Value: func(v model.Product) any { return v.Unit }},
		{Accessor: "quantity", Header: "Cantidad", Type: table.TypeNumber,
			Value: func(v model.Product) any { return v.Quantity }},
		{Accessor: "price", Header: "Precio", Type: table.TypeCurrency,
			Value: func(v model.Product) any { return v.Price }},
		{Accessor: "value", Header: "Valor", Type: table.TypeCurrency,
			Value: func(v model.Product) any { return v.Value() }},
		text("warehouse", "Bodega", true, func(v model.Product) string { return v.Warehouse }),
		statusColumn(func(v model.Product) bool { return v.Status }),
	}
}

func SupplierColumns(forms.Catalog) []table.Column[model.Supplier] {
	return []table.Column[model.Supplier]{
		text("name", "Nombre", true, func(v model.Supplier) string { return v.Name }),
		text("taxId", "RUC", true, func(v model.Supplier) string { return v.TaxID }),
		text("phone", "Teléfono", false, func(v model.Supplier) string { return v.Phone }),
		text("email", "Correo", true, func(v model.Supplier) string { return v.Email }),
		statusColumn(func(v model.Supplier) bool { return v.Status }),
	}
}

func UserColumns(c forms.Catalog) []table.Column[model.User] {
	return []table.Column[model.User]{
		text("name", "Nombre", true, func(v model.User) string { return v.Name }),
		text("email", "Correo", true, func(v model.User) string { return v.Email }),
		{Accessor: "role", Header: "Rol", Filterable: true, Options: choices(c.Roles),
			Value: func(v model.User) any { return v.Role }},
		text("farm", "Granja", true, func(v model.User) string { return v.Farm }),
		statusColumn(func(v model.User) bool { return v.Status }),
	}
}

func PigColumns(c forms.Catalog) []table.Column[model.Pig] {
	return []table.Column[model.Pig]{
		text("code", "Código", true, func(v model.Pig) string { return v.Code }),
		{Accessor: "breed", Header: "Raza", Filterable: true, Options: choices(c.Breeds),
			Value: func(v model.Pig) any { return v.Breed }},
		{Accessor: "sex", Header: "Sexo", Filterable: true, Options: choices([]string{"macho", "hembra"}),
			Value: func(v model.Pig) any { return v.Sex }},
		{Accessor: "birthDate", Header: "Nacimiento", Type: table.TypeDate,
			Value: func(v model.Pig) any { return v.BirthDate }},
		{Accessor: "weight", Header: "Peso (kg)", Type: table.TypeNumber,
			Value: func(v model.Pig) any { return v.Weight }},
		text("stage", "Etapa", true, func(v model.Pig) string { return v.Stage }),
		statusColumn(func(v model.Pig) bool { return v.Status }),
	}
}

func LitterColumns(forms.Catalog) []table.Column[model.Litter] {
	return []table.Column[model.Litter]{
		text("mother", "Madre", true, func(v model.Litter) string { return v.Mother }),
		{Accessor: "birthDate", Header: "Parto", Type: table.TypeDate,
			Value: func(v model.Litter) any { return v.BirthDate }},
		{Accessor: "born", Header: "Nacidos", Type: table.TypeNumber, Value: func(v model.Litter) any { return v.Born }},
		{Accessor: "alive", Header: "Vivos", Type: table.TypeNumber, Value: func(v model.Litter) any { return v.Alive }},
		{Accessor: "dead", Header: "Muertos", Type: table.TypeNumber, Value: func(v model.Litter) any { return v.Dead }},
		{Accessor: "survival", Header: "Supervivencia", Type: table.TypePercentage,
			Value: func(v model.Litter) any {
				if v.Born == 0 {
					return nil
				}
				return float64(v.Alive) * 100 / float64(v.Born)
			}},
		statusColumn(func(v model.Litter) bool { return v.Status }),
	}
}

func MedicationColumns(c forms.Catalog) []table.Column[model.Medication] {
	return []table.Column[model.Medication]{
		text("name", "Medicamento", true, func(v model.Medication) string { return v.Name }),
		text("pig", "Cerdo", true, func(v model.Medication) string { return v.Pig }),
		{Accessor: "type", Header: "Tipo", Filterable: true, Options: choices(c.MedicationTypes),
			Value: func(v model.Medication) any { return v.Type }},
		text("dose", "Dosis", false, func(v model.Medication) string { return v.Dose }),
		{Accessor: "date", Header: "Fecha", Type: table.TypeDate, Value: func(v model.Medication) any { return v.Date }},
		statusColumn(func(v model.Medication) bool { return v.Status }),
	}
}

func FeedingColumns(c forms.Catalog) []table.Column[model.Feeding] {
	return []table.Column[model.Feeding]{
		{Accessor: "feed", Header: "Alimento", Filterable: true, Options: choices(c.FeedTypes),
			Value: func(v model.Feeding) any { return v.Feed }},
		text("pig", "Cerdo", true, func(v model.Feeding) string { return v.Pig }),
		{Accessor: "quantity", Header: "Cantidad", Type: table.TypeNumber, Value: func(v model.Feeding) any { return v.Quantity }},
		text("unit", "Unidad", false, func(v model.Feeding) string { return v.Unit }),
		{Accessor: "date", Header: "Fecha", Type: table.TypeDate, Value: func(v model.Feeding) any { return v.Date }},
		statusColumn(func(v model.Feeding) bool { return v.Status }),
	}
}

func IncomeColumns(c forms.Catalog) []table.Column[model.Income] {
	return []table.Column[model.Income]{
		{Accessor: "type", Header: "Tipo", Filterable: true, Options: choices(c.IncomeTypes),
			Value: func(v model.Income) any { return v.Type }},
		{Accessor: "date", Header: "Fecha", Type: table.TypeDate, Value: func(v model.Income) any { return v.Date }},
		text("supplier", "Proveedor", true, func(v model.Income) string { return v.Supplier }),
		text("warehouse", "Bodega", true, func(v model.Income) string { return v.Warehouse }),
		{Accessor: "total", Header: "Total", Type: table.TypeCurrency, Value: func(v model.Income) any { return v.Total }},
		statusColumn(func(v model.Income) bool { return v.Status }),
	}
}

func OutcomeColumns(c forms.Catalog) []table.Column[model.Outcome] {
	return []table.Column[model.Outcome]{
		{Accessor: "type", Header: "Tipo", Filterable: true, Options: choices(c.OutcomeTypes),
			Value: func(v model.Outcome) any { return v.Type }},
		{Accessor: "date", Header: "Fecha", Type: table.TypeDate, Value: func(v model.Outcome) any { return v.Date }},
		text("warehouse", "Bodega", true, func(v model.Outcome) string { return v.Warehouse }),
		text("destination", "Destino", true, func(v model.Outcome) string { return v.Destination }),
		{Accessor: "total", Header: "Total", Type: table.TypeCurrency, Value: func(v model.Outcome) any { return v.Total }},
		statusColumn(func(v model.Outcome) bool { return v.Status }),
	}
}

func OrderColumns(forms.Catalog) []table.Column[model.Order] {
	stages := []string{
		string(model.StagePending), string(model.StageApproved),
		string(model.StageReceived), string(model.StageCancelled),
	}
	return []table.Column[model.Order]{
		text("number", "Número", true, func(v model.Order) string { return v.Number }),
		text("supplier", "Proveedor", true, func(v model.Order) string { return v.Supplier }),
		{Accessor: "date", Header: "Fecha", Type: table.TypeDate, Value: func(v model.Order) any { return v.Date }},
		{Accessor: "stage", Header: "Etapa", Filterable: true, Options: choices(stages),
			Value: func(v model.Order) any { return string(v.Stage) }},
		{Accessor: "total", Header: "Total", Type: table.TypeCurrency, Value: func(v model.Order) any { return v.Total }},
		statusColumn(func(v model.Order) bool { return v.Status }),
	}
}
