package models

import "testing"

// requireSingleDefault asserts that a non-empty address book has exactly one
// default entry and an empty one has none.
func requireSingleDefault(t *testing.T, u *User) {
	t.Helper()

	defaults := 0
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			defaults++
		}
	}

	if len(u.Addresses) == 0 {
		if defaults != 0 {
			t.Fatalf("empty address book has %d defaults", defaults)
		}
		return
	}
	if defaults != 1 {
		t.Fatalf("address book with %d entries has %d defaults, want 1", len(u.Addresses), defaults)
	}
}

func TestAddAddressFirstBecomesDefault(t *testing.T) {
	u := &User{}

	added := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})

	if !added.IsDefault {
		t.Error("first address should be default")
	}
	if added.ID == "" {
		t.Error("address should get a generated ID")
	}
	if added.Country != DefaultCountry {
		t.Errorf("country = %q, want %q", added.Country, DefaultCountry)
	}
	requireSingleDefault(t, u)
}

func TestAddAddressFlaggedDefaultDemotesPrevious(t *testing.T) {
	u := &User{}
	first := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016", IsDefault: true})

	def, ok := u.DefaultAddress()
	if !ok {
		t.Fatal("no default address")
	}
	if def.City != "Kolkata" {
		t.Errorf("default city = %q, want Kolkata", def.City)
	}
	if u.Addresses[0].ID != first.ID || u.Addresses[0].IsDefault {
		t.Error("previous default was not demoted")
	}
	requireSingleDefault(t, u)
}

func TestAddAddressSecondNotDefault(t *testing.T) {
	u := &User{}
	u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	second := u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"})

	if second.IsDefault {
		t.Error("unflagged second address must not become default")
	}
	requireSingleDefault(t, u)
}

func TestSetDefaultAddressSwitches(t *testing.T) {
	u := &User{}
	u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	second := u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"})

	if err := u.SetDefaultAddress(second.ID); err != nil {
		t.Fatalf("SetDefaultAddress: %v", err)
	}

	def, _ := u.DefaultAddress()
	if def.ID != second.ID {
		t.Errorf("default = %s, want %s", def.ID, second.ID)
	}
	requireSingleDefault(t, u)

	if err := u.SetDefaultAddress("missing"); err != ErrAddressNotFound {
		t.Errorf("unknown ID error = %v, want ErrAddressNotFound", err)
	}
}

func TestDeleteDefaultPromotesFirstRemaining(t *testing.T) {
	u := &User{}
	first := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	second := u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"})
	u.AddAddress(Address{Street: "7 Marine Dr", City: "Mumbai", State: "Maharashtra", Pincode: "400020"})

	if err := u.DeleteAddress(first.ID); err != nil {
		t.Fatalf("DeleteAddress: %v", err)
	}

	def, ok := u.DefaultAddress()
	if !ok {
		t.Fatal("no default after deleting the default entry")
	}
	if def.ID != second.ID {
		t.Errorf("promoted default = %s, want first remaining %s", def.ID, second.ID)
	}
	requireSingleDefault(t, u)
}

func TestDeleteNonDefaultKeepsDefault(t *testing.T) {
	u := &User{}
	first := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	second := u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"})

	if err := u.DeleteAddress(second.ID); err != nil {
		t.Fatalf("DeleteAddress: %v", err)
	}

	def, _ := u.DefaultAddress()
	if def.ID != first.ID {
		t.Errorf("default = %s, want %s", def.ID, first.ID)
	}
	requireSingleDefault(t, u)
}

func TestDeleteLastAddressLeavesEmptyBook(t *testing.T) {
	u := &User{}
	only := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})

	if err := u.DeleteAddress(only.ID); err != nil {
		t.Fatalf("DeleteAddress: %v", err)
	}
	if len(u.Addresses) != 0 {
		t.Fatalf("address book has %d entries, want 0", len(u.Addresses))
	}
	requireSingleDefault(t, u)
}

func TestUpdateAddressPartial(t *testing.T) {
	u := &User{}
	first := u.AddAddress(Address{Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"})
	second := u.AddAddress(Address{Street: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"})

	city := "Mysuru"
	if err := u.UpdateAddress(first.ID, AddressPatch{City: &city}); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	if u.Addresses[0].City != "Mysuru" {
		t.Errorf("city = %q, want Mysuru", u.Addresses[0].City)
	}
	if u.Addresses[0].Street != "12 MG Road" {
		t.Error("untouched field changed")
	}

	// Patching IsDefault true switches the default; false is ignored.
	makeDefault := true
	if err := u.UpdateAddress(second.ID, AddressPatch{IsDefault: &makeDefault}); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	def, _ := u.DefaultAddress()
	if def.ID != second.ID {
		t.Errorf("default = %s, want %s", def.ID, second.ID)
	}
	requireSingleDefault(t, u)

	demote := false
	if err := u.UpdateAddress(second.ID, AddressPatch{IsDefault: &demote}); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	requireSingleDefault(t, u)

	if err := u.UpdateAddress("missing", AddressPatch{City: &city}); err != ErrAddressNotFound {
		t.Errorf("unknown ID error = %v, want ErrAddressNotFound", err)
	}
}
