package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestConfigurationStrings(t *testing.T) {
	c := Configuration{
		GroupIncomeTypes: json.RawMessage(`["compra","donación"]`),
		GroupRoles:       json.RawMessage(`null`),
	}

	got, err := c.Strings(GroupIncomeTypes)
	if err != nil {
		t.Fatalf("Strings() error = %v", err)
	}
	if want := []string{"compra", "donación"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Strings() = %v, want %v", got, want)
	}

	for _, group := range []string{GroupRoles, GroupUnits} {
		got, err := c.Strings(group)
		if err != nil {
			t.Fatalf("Strings(%q) error = %v", group, err)
		}
		if len(got) != 0 {
			t.Errorf("Strings(%q) = %v, want empty", group, got)
		}
	}
}

func TestConfigurationStrings_Malformed(t *testing.T) {
	c := Configuration{GroupUnits: json.RawMessage(`{"kg":1}`)}
	if _, err := c.Strings(GroupUnits); err == nil {
		t.Fatal("expected error for non-list group")
	}
}

func TestConfigurationTaxes(t *testing.T) {
	c := Configuration{GroupTaxes: json.RawMessage(`[{"name":"IVA","rate":"12"},{"name":"ICE","rate":5.5}]`)}
	taxes, err := c.Taxes()
	if err != nil {
		t.Fatalf("Taxes() error = %v", err)
	}
	if len(taxes) != 2 {
		t.Fatalf("len(taxes) = %d, want 2", len(taxes))
	}
	if taxes[1].String() != "ICE=5.5" {
		t.Errorf("taxes[1] = %q, want ICE=5.5", taxes[1].String())
	}
	if !taxes[0].Equal(TaxEntry{Name: "IVA", Rate: dec("12.00")}) {
		t.Error("expected IVA=12 to equal IVA=12.00")
	}
}

func TestConfigurationGroups(t *testing.T) {
	c := Configuration{"units": nil, "breeds": nil, "roles": nil}
	if got, want := c.Groups(), []string{"breeds", "roles", "units"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
	if !IsStringGroup(GroupBreeds) || IsStringGroup(GroupTaxes) {
		t.Error("IsStringGroup misclassifies groups")
	}
}

func TestSessionHasRole(t *testing.T) {
	var nilSession *Session
	if nilSession.HasRole() {
		t.Error("nil session should not have any role")
	}

	op := &Session{User: SessionUser{Role: RoleOperator}}
	if !op.HasRole() {
		t.Error("empty role list should allow everyone")
	}
	if op.HasRole(RoleManager) {
		t.Error("operator should not pass a manager check")
	}
	if !op.HasRole(RoleManager, RoleOperator) {
		t.Error("operator should pass a manager|operator check")
	}

	admin := &Session{User: SessionUser{Role: RoleAdmin}}
	if !admin.HasRole(RoleManager) {
		t.Error("admin should pass every role check")
	}
}
