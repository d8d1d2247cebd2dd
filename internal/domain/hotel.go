package domain

import (
	"fmt"
	"time"
)

const DefaultStarRating = 3

type Hotel struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"nombre" json:"name"`
	City          string    `db:"ciudad" json:"city"`
	Country       string    `db:"pais" json:"country"`
	Address       string    `db:"direccion" json:"address,omitempty"`
	StarRating    int       `db:"estrellas" json:"star_rating"`
	Description   string    `db:"descripcion" json:"description,omitempty"`
	PricePerNight float64   `db:"precio_noche" json:"price_per_night"`
	CreatedAt     time.Time `db:"fecha_creacion" json:"created_at"`
}

// NewHotel returns a Hotel carrying the column defaults.
func NewHotel() Hotel {
	return Hotel{StarRating: DefaultStarRating}
}

// Label is the "<name> - <city>" form used in selects and logs.
func (h Hotel) Label() string {
	return fmt.Sprintf("%s - %s", h.Name, h.City)
}

// HotelChanges is a partial update; nil fields are left untouched.
type HotelChanges struct {
	Name          *string
	City          *string
	Country       *string
	Address       *string
	StarRating    *int
	Description   *string
	PricePerNight *float64
}

func (c HotelChanges) Empty() bool {
	return c.Name == nil && c.City == nil && c.Country == nil && c.Address == nil &&
		c.StarRating == nil && c.Description == nil && c.PricePerNight == nil
}

// HotelFilter narrows ListHotels. Search matches name OR city as a
// case-sensitive substring; an empty Search lists everything.
type HotelFilter struct {
	Search string
}
