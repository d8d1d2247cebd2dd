package domain

import "context"

type HotelRepository interface {
	// Write paths
	InsertHotel(ctx context.Context, h Hotel) (int64, error)
	UpdateHotel(ctx context.Context, id int64, c HotelChanges) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	CountHotels(ctx context.Context) (int, error)
}

type PackageRepository interface {
	InsertPackage(ctx context.Context, p TourPackage) (int64, error)
	UpdatePackage(ctx context.Context, id int64, c PackageChanges) error

	GetPackage(ctx context.Context, id int64) (TourPackage, error)
	ListPackages(ctx context.Context, f PackageFilter) ([]TourPackage, error)
	CountPackages(ctx context.Context, f PackageFilter) (int, error)
}

// Store is the full record store; one value serves both entity types.
type Store interface {
	HotelRepository
	PackageRepository
}

// TxStore can group writes so they land together or not at all.
type TxStore interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// Incr bumps an integer counter, starting from zero, and returns it.
	Incr(ctx context.Context, key string) (int64, error)
}

// Read models

type DashboardStats struct {
	TotalHotels       int `json:"total_hotels"`
	TotalPackages     int `json:"total_packages"`
	AvailablePackages int `json:"available_packages"`
}

type HotelDetail struct {
	Hotel    Hotel         `json:"hotel"`
	Packages []TourPackage `json:"packages"`
}

type PackageDetail struct {
	Package TourPackage `json:"package"`
	Hotel   *Hotel      `json:"hotel,omitempty"`
}
