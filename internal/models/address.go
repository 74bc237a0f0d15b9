package models

import (
	"errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address ID is absent from the list.
var ErrAddressNotFound = errors.New("address not found")

// DefaultCountry is applied when an address omits the country.
const DefaultCountry = "India"

// Address is an element of a user's address book. When the book is non-empty
// exactly one entry has IsDefault set; every mutation below maintains that.
type Address struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// AddressPatch carries a partial address update; nil fields stay unchanged.
// IsDefault is only honored when true — demoting the default directly would
// leave the book without one.
type AddressPatch struct {
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Pincode   *string `json:"pincode"`
	Country   *string `json:"country"`
	IsDefault *bool   `json:"isDefault"`
}

// AddAddress appends a new address. The first address of the book, or one
// explicitly flagged default, becomes the single default entry.
func (u *User) AddAddress(addr Address) Address {
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	if len(u.Addresses) == 0 || addr.IsDefault {
		u.clearDefaultAddress()
		addr.IsDefault = true
	}
	u.Addresses = append(u.Addresses, addr)
	return addr
}

// UpdateAddress applies the present fields of patch to the address with the
// given ID.
func (u *User) UpdateAddress(id string, patch AddressPatch) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return ErrAddressNotFound
	}

	addr := &u.Addresses[idx]
	if patch.Street != nil {
		addr.Street = *patch.Street
	}
	if patch.City != nil {
		addr.City = *patch.City
	}
	if patch.State != nil {
		addr.State = *patch.State
	}
	if patch.Pincode != nil {
		addr.Pincode = *patch.Pincode
	}
	if patch.Country != nil {
		addr.Country = *patch.Country
	}
	if patch.IsDefault != nil && *patch.IsDefault {
		u.clearDefaultAddress()
		addr.IsDefault = true
	}
	return nil
}

// DeleteAddress removes the address with the given ID. When the removed entry
// was the default and others remain, the first remaining entry is promoted.
func (u *User) DeleteAddress(id string) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return ErrAddressNotFound
	}

	wasDefault := u.Addresses[idx].IsDefault
	u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)

	if wasDefault && len(u.Addresses) > 0 {
		u.clearDefaultAddress()
		u.Addresses[0].IsDefault = true
	}
	return nil
}

// SetDefaultAddress makes the address with the given ID the single default.
func (u *User) SetDefaultAddress(id string) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return ErrAddressNotFound
	}
	u.clearDefaultAddress()
	u.Addresses[idx].IsDefault = true
	return nil
}

// DefaultAddress returns the current default entry, if any.
func (u *User) DefaultAddress() (Address, bool) {
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	return Address{}, false
}

func (u *User) addressIndex(id string) int {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func (u *User) clearDefaultAddress() {
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = false
	}
}
