package response

import (
	"time"

	"cinephile/internal/data/entity"
)

type AddressResponse struct {
	ID              string    `json:"id"`
	CityName        string    `json:"city_name"`
	StreetName      string    `json:"street_name"`
	HouseNumber     int       `json:"house_number"`
	ApartmentNumber *int      `json:"apartment_number"`
	Body            *string   `json:"body"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CinemaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URLImage  *string   `json:"url_image"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FilmResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	URLImage    *string   `json:"url_image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FilmCinemaResponse struct {
	ID        string    `json:"id"`
	Cinema    string    `json:"cinema"`
	Film      string    `json:"film"`
	CreatedAt time.Time `json:"created_at"`
}

// Helper converters
func AddressToResponse(a *entity.Address) AddressResponse {
	return AddressResponse{
		ID:              a.ID.String(),
		CityName:        a.CityName,
		StreetName:      a.StreetName,
		HouseNumber:     a.HouseNumber,
		ApartmentNumber: a.ApartmentNumber,
		Body:            a.Body,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func CinemaToResponse(c *entity.Cinema) CinemaResponse {
	return CinemaResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		URLImage:  c.URLImage,
		Address:   c.AddressID.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FilmToResponse(f *entity.Film) FilmResponse {
	return FilmResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Description: f.Description,
		Rating:      f.Rating,
		URLImage:    f.URLImage,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func FilmCinemaToResponse(fc *entity.FilmCinema) FilmCinemaResponse {
	return FilmCinemaResponse{
		ID:        fc.ID.String(),
		Cinema:    fc.CinemaID.String(),
		Film:      fc.FilmID.String(),
		CreatedAt: fc.CreatedAt,
	}
}
