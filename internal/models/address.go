package models

import "github.com/cardshop/hotspot-api/pkg/phone"

// Address is a shipping destination of an organization. Phone is stored in E.164.
type Address struct {
	ID           int64   `db:"id" json:"id"`
	Organization string  `db:"organization" json:"organization"`
	Name         string  `db:"name" json:"name"`
	Recipient    string  `db:"recipient" json:"recipient"`
	Email        *string `db:"email" json:"email"`
	Phone        string  `db:"phone" json:"phone"`
	Address      string  `db:"address" json:"address"`
	Country      string  `db:"country" json:"country"`
}

// AddressPayload is the shipping block handed to the build scheduler.
type AddressPayload struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Country  string  `json:"country"`
	Shipment *string `json:"shipment"`
}

// HumanPhone formats the stored number for display, falling back to the raw value.
func (a *Address) HumanPhone() string {
	human, err := phone.Display(a.Phone)
	if err != nil {
		return a.Phone
	}
	return human
}

// ToPayload builds the scheduler shipping block.
func (a *Address) ToPayload() AddressPayload {
	return AddressPayload{
		Name:    a.Recipient,
		Email:   a.Email,
		Phone:   a.HumanPhone(),
		Address: a.Address,
		Country: a.Country,
	}
}
