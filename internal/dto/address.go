package dto

import "github.com/cardshop/hotspot-api/internal/models"

// AddressRequest is the body of address create and update calls.
type AddressRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Recipient string  `json:"recipient" validate:"required,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string  `json:"phone" validate:"required,max=30"`
	Address   string  `json:"address" validate:"required"`
	Country   string  `json:"country" validate:"required,len=2,alpha"`
}

// AddressResponse is an address with display helpers.
type AddressResponse struct {
	models.Address
	HumanPhone     string                `json:"human_phone"`
	VerboseCountry string                `json:"verbose_country"`
	Payload        models.AddressPayload `json:"payload"`
}
