package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a product line of an income, outcome or purchase order.
type LineItem struct {
	Product   string          `json:"product"`
	Name      string          `json:"name,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Tax       decimal.Decimal `json:"tax"` // percentage, e.g. 12 for 12%
}

// Subtotal returns quantity * unit price, without tax.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// TaxAmount returns the tax charged on the line.
func (l LineItem) TaxAmount() decimal.Decimal {
	return l.Subtotal().Mul(l.Tax).Div(hundred)
}

// Total returns the line subtotal plus tax.
func (l LineItem) Total() decimal.Decimal {
	return l.Subtotal().Add(l.TaxAmount())
}

// Totals aggregates a set of line items.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Total sums the given line items. Amounts are rounded to two decimals.
func Total(items []LineItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Subtotal())
		t.Tax = t.Tax.Add(it.TaxAmount())
	}
	t.Subtotal = t.Subtotal.Round(2)
	t.Tax = t.Tax.Round(2)
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Income is a stock entry into a warehouse.
type Income struct {
	ID          string          `json:"_id,omitempty"`
	Type        string          `json:"type"`
	Supplier    string          `json:"supplier,omitempty"`
	Warehouse   string          `json:"warehouse"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Products    []LineItem      `json:"products,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Status      bool            `json:"status"`
}

// Outcome is a stock exit from a warehouse.
type Outcome struct {
	ID          string          `json:"_id,omitempty"`
	Type        string          `json:"type"`
	Warehouse   string          `json:"warehouse"`
	Destination string          `json:"destination,omitempty"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Products    []LineItem      `json:"products,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Status      bool            `json:"status"`
}

// OrderStage is the approval stage of a purchase order.
type OrderStage string

const (
	StagePending   OrderStage = "pendiente"
	StageApproved  OrderStage = "aprobada"
	StageReceived  OrderStage = "recibida"
	StageCancelled OrderStage = "anulada"
)

// IsValid reports whether the stage is a known value.
func (s OrderStage) IsValid() bool {
	switch s {
	case StagePending, StageApproved, StageReceived, StageCancelled:
		return true
	}
	return false
}

// Order is a purchase order placed with a supplier.
type Order struct {
	ID        string          `json:"_id,omitempty"`
	Number    string          `json:"number"`
	Supplier  string          `json:"supplier"`
	Warehouse string          `json:"warehouse,omitempty"`
	Date      time.Time       `json:"date"`
	Stage     OrderStage      `json:"stage"`
	Products  []LineItem      `json:"products,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Status    bool            `json:"status"`
}

// Aggregate is one grouped total returned by the statistics endpoints,
// e.g. {group: "incomes", label: "2026-03", value: 1520.5}.
type Aggregate struct {
	Group string  `json:"group"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
