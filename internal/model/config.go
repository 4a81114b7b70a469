package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Well-known configuration groups.
const (
	GroupIncomeTypes     = "incomeTypes"
	GroupOutcomeTypes    = "outcomeTypes"
	GroupRoles           = "roles"
	GroupUnits           = "units"
	GroupBreeds          = "breeds"
	GroupMedicationTypes = "medicationTypes"
	GroupFeedTypes       = "feedTypes"
	GroupTaxes           = "taxes"
)

// StringGroups lists the groups whose value is a flat list of strings.
var StringGroups = []string{
	GroupIncomeTypes,
	GroupOutcomeTypes,
	GroupRoles,
	GroupUnits,
	GroupBreeds,
	GroupMedicationTypes,
	GroupFeedTypes,
}

// IsStringGroup reports whether group holds a flat string list.
func IsStringGroup(group string) bool {
	for _, g := range StringGroups {
		if g == group {
			return true
		}
	}
	return false
}

// Configuration is the system-wide configuration document: a set of named
// groups, each stored server-side as a single JSON value.
type Configuration map[string]json.RawMessage

// Groups returns the group names in sorted order.
func (c Configuration) Groups() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Strings decodes a string-list group. A missing group yields an empty list.
func (c Configuration) Strings(group string) ([]string, error) {
	return GroupValue[string](c, group)
}

// Taxes decodes the tax table.
func (c Configuration) Taxes() ([]TaxEntry, error) {
	return GroupValue[TaxEntry](c, GroupTaxes)
}

// GroupValue decodes the list stored under group.
func GroupValue[T any](c Configuration, group string) ([]T, error) {
	raw, ok := c[group]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding configuration group %q: %w", group, err)
	}
	return out, nil
}

// TaxEntry is one row of the tax table, e.g. {"name": "IVA", "rate": "12"}.
type TaxEntry struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// Equal compares two entries by name and numeric rate.
func (t TaxEntry) Equal(o TaxEntry) bool {
	return t.Name == o.Name && t.Rate.Equal(o.Rate)
}

// String renders the entry as "NAME=RATE".
func (t TaxEntry) String() string {
	return t.Name + "=" + t.Rate.String()
}
