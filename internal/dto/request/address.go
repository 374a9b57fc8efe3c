package request

import "cinephile/internal/data/entity"

// AddressRequest serves POST, PUT and PATCH. Absent fields keep their
// current value on update; null clears the optional ones.
type AddressRequest struct {
	CityName        *string          `json:"city_name"`
	StreetName      *string          `json:"street_name"`
	HouseNumber     *int             `json:"house_number"`
	ApartmentNumber Nullable[int]    `json:"apartment_number"`
	Body            Nullable[string] `json:"body"`
}

func (r *AddressRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"city_name":    r.CityName != nil,
		"street_name":  r.StreetName != nil,
		"house_number": r.HouseNumber != nil,
	})
}

func (r *AddressRequest) Apply(a *entity.Address) {
	setIf(&a.CityName, r.CityName)
	setIf(&a.StreetName, r.StreetName)
	setIf(&a.HouseNumber, r.HouseNumber)
	r.ApartmentNumber.assign(&a.ApartmentNumber)
	r.Body.assign(&a.Body)
}
