package request

import "cinephile/internal/data/entity"

type FilmRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Rating      *float64         `json:"rating"`
	URLImage    Nullable[string] `json:"url_image"`
}

func (r *FilmRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"name":        r.Name != nil,
		"description": r.Description != nil,
		"rating":      r.Rating != nil,
	})
}

func (r *FilmRequest) Apply(f *entity.Film) {
	setIf(&f.Name, r.Name)
	setIf(&f.Description, r.Description)
	setIf(&f.Rating, r.Rating)
	r.URLImage.assign(&f.URLImage)
}

type FilmCinemaRequest struct {
	Cinema *string `json:"cinema" validate:"omitempty,uuid"`
	Film   *string `json:"film" validate:"omitempty,uuid"`
}

func (r *FilmCinemaRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"cinema": r.Cinema != nil,
		"film":   r.Film != nil,
	})
}

func (r *FilmCinemaRequest) Apply(fc *entity.FilmCinema) {
	setUUIDIf(&fc.CinemaID, r.Cinema)
	setUUIDIf(&fc.FilmID, r.Film)
}
