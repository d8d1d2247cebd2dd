package domain

import (
	"fmt"
	"time"
)

type TourPackage struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"nombre" json:"name"`
	Description  string    `db:"descripcion" json:"description"`
	DurationDays int       `db:"duracion_dias" json:"duration_days"`
	TotalPrice   float64   `db:"precio_total" json:"total_price"`
	Activities   string    `db:"actividades" json:"activities,omitempty"`
	HotelID      int64     `db:"hotel_id" json:"hotel_id"`
	Available    bool      `db:"disponible" json:"available"`
	CreatedAt    time.Time `db:"fecha_creacion" json:"created_at"`
}

func NewTourPackage() TourPackage {
	return TourPackage{Available: true}
}

func (p TourPackage) Label() string {
	return fmt.Sprintf("%s - %d días", p.Name, p.DurationDays)
}

type PackageChanges struct {
	Name         *string
	Description  *string
	DurationDays *int
	TotalPrice   *float64
	Activities   *string
	HotelID      *int64
	Available    *bool
}

func (c PackageChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.DurationDays == nil && c.TotalPrice == nil &&
		c.Activities == nil && c.HotelID == nil && c.Available == nil
}

type PackageFilter struct {
	AvailableOnly bool
	HotelID       *int64 // packages owned by one hotel
}
