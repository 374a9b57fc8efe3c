package entity

import (
	"math"

	"cinephile/internal/validation"
)

const (
	AddressPartMaxLength = 256
	// MaxIntegerField is the upper bound of an INTEGER column.
	MaxIntegerField = math.MaxInt32
)

type Address struct {
	Base
	CityName        string  `db:"city_name"`
	StreetName      string  `db:"street_name"`
	HouseNumber     int     `db:"house_number"`
	ApartmentNumber *int    `db:"apartment_number"`
	Body            *string `db:"body"`
}

func (a *Address) Validate() error {
	errs := validation.Errors{}

	errs.Check("city_name", validation.CheckRequired(a.CityName))
	errs.Check("city_name", validation.CheckMaxLen(a.CityName, AddressPartMaxLength))
	errs.Check("street_name", validation.CheckRequired(a.StreetName))
	errs.Check("street_name", validation.CheckMaxLen(a.StreetName, AddressPartMaxLength))
	errs.Check("house_number", validation.CheckPositive(a.HouseNumber))
	errs.Check("house_number", validation.CheckMaxInt(a.HouseNumber, MaxIntegerField))

	if a.ApartmentNumber != nil {
		errs.Check("apartment_number", validation.CheckPositive(*a.ApartmentNumber))
		errs.Check("apartment_number", validation.CheckMaxInt(*a.ApartmentNumber, MaxIntegerField))
	}
	if a.Body != nil {
		errs.Check("body", validation.CheckBody(*a.Body))
	}

	return errs.Err()
}
