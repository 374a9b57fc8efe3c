package entity

import (
	"cinephile/internal/validation"

	"github.com/google/uuid"
)

const (
	CinemaNameMaxLength = 80
	MaxURLLength        = 190000
)

type Cinema struct {
	Base
	Name      string    `db:"name"`
	URLImage  *string   `db:"url_image"`
	AddressID uuid.UUID `db:"address_id"`
}

func (c *Cinema) Validate() error {
	errs := validation.Errors{}

	errs.Check("name", validation.CheckRequired(c.Name))
	errs.Check("name", validation.CheckMaxLen(c.Name, CinemaNameMaxLength))
	checkURLImage(errs, c.URLImage)

	if c.AddressID == uuid.Nil {
		errs.Add("address", "this field is required")
	}

	return errs.Err()
}

func checkURLImage(errs validation.Errors, url *string) {
	if url != nil {
		errs.Check("url_image", validation.CheckMaxLen(*url, MaxURLLength))
	}
}
