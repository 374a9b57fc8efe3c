package request

import "cinephile/internal/data/entity"

type CinemaRequest struct {
	Name     *string          `json:"name"`
	URLImage Nullable[string] `json:"url_image"`
	Address  *string          `json:"address" validate:"omitempty,uuid"`
}

func (r *CinemaRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"name":    r.Name != nil,
		"address": r.Address != nil,
	})
}

func (r *CinemaRequest) Apply(c *entity.Cinema) {
	setIf(&c.Name, r.Name)
	r.URLImage.assign(&c.URLImage)
	setUUIDIf(&c.AddressID, r.Address)
}
