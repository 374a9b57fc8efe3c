package entity

import "cinephile/internal/validation"

const (
	FilmNameMaxLength    = 80
	DescriptionMaxLength = 1024
	RatingDecimalPlaces  = 1
)

type Film struct {
	Base
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Rating      float64 `db:"rating"`
	URLImage    *string `db:"url_image"`
}

func (f *Film) Validate() error {
	errs := validation.Errors{}

	errs.Check("name", validation.CheckRequired(f.Name))
	errs.Check("name", validation.CheckMaxLen(f.Name, FilmNameMaxLength))
	errs.Check("description", validation.CheckRequired(f.Description))
	errs.Check("description", validation.CheckMaxLen(f.Description, DescriptionMaxLength))
	errs.Check("rating", validation.CheckPositive(f.Rating))
	errs.Check("rating", validation.CheckRating(f.Rating))
	errs.Check("rating", validation.CheckDecimalPlaces(f.Rating, RatingDecimalPlaces))
	checkURLImage(errs, f.URLImage)

	return errs.Err()
}
