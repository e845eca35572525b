package dto

import (
	"taskpal/infras/geocoder"
)

type ValidateAddressRequest struct {
	Address string `json:"address" validate:"required,max=500"`
}

type ValidateAddressResponse struct {
	Valid            bool    `json:"valid"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	Municipality     string  `json:"municipality,omitempty"`
}

func (r *ValidateAddressResponse) FromLocation(location geocoder.Location) {
	r.FormattedAddress = location.FormattedAddress
	r.Latitude = location.Latitude
	r.Longitude = location.Longitude
	r.Municipality = location.Locality
}
