package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Farm is a production site. Every warehouse belongs to one farm.
type Farm struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Manager  string `json:"manager,omitempty"`
	Status   bool   `json:"status"`
}

// Warehouse is the main inventory location of a farm.
type Warehouse struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Farm     string `json:"farm"`
	Location string `json:"location,omitempty"`
	Status   bool   `json:"status"`
}

// Subwarehouse is a secondary inventory location subordinate to a warehouse.
type Subwarehouse struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Warehouse   string `json:"warehouse"`
	Description string `json:"description,omitempty"`
	Status      bool   `json:"status"`
}

// Product is an inventory item stocked in a warehouse or subwarehouse.
type Product struct {
	ID           string          `json:"_id,omitempty"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Warehouse    string          `json:"warehouse,omitempty"`
	Subwarehouse string          `json:"subwarehouse,omitempty"`
	Status       bool            `json:"status"`
}

// Value returns the stock value of the product (quantity times unit price).
func (p Product) Value() decimal.Decimal {
	return p.Quantity.Mul(p.Price)
}

// Supplier sells products to the farm.
type Supplier struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Status  bool   `json:"status"`
}

// User is an operator account managed from the console.
type User struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Farm   string `json:"farm,omitempty"`
	Status bool   `json:"status"`
}

// Pig is an individually tracked animal.
type Pig struct {
	ID        string          `json:"_id,omitempty"`
	Code      string          `json:"code"`
	Breed     string          `json:"breed"`
	Sex       string          `json:"sex"`
	BirthDate time.Time       `json:"birthDate"`
	Weight    decimal.Decimal `json:"weight"`
	Stage     string          `json:"stage,omitempty"`
	Farm      string          `json:"farm,omitempty"`
	Status    bool            `json:"status"`
}

// Litter records a farrowing of a sow.
type Litter struct {
	ID        string    `json:"_id,omitempty"`
	Mother    string    `json:"mother"`
	BirthDate time.Time `json:"birthDate"`
	Born      int       `json:"born"`
	Alive     int       `json:"alive"`
	Dead      int       `json:"dead"`
	Notes     string    `json:"notes,omitempty"`
	Status    bool      `json:"status"`
}

// Medication is a treatment applied to a pig.
type Medication struct {
	ID     string    `json:"_id,omitempty"`
	Pig    string    `json:"pig"`
	Name   string    `json:"name"`
	Type   string    `json:"type,omitempty"`
	Dose   string    `json:"dose"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
	Status bool      `json:"status"`
}

// Feeding is a ration delivered to a pig or pen.
type Feeding struct {
	ID       string          `json:"_id,omitempty"`
	Pig      string          `json:"pig"`
	Feed     string          `json:"feed"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
	Date     time.Time       `json:"date"`
	Status   bool            `json:"status"`
}
