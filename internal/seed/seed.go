// Package seed loads the example inventory into an empty store and imports
// JSON fixtures.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"turismo/internal/app"
	"turismo/internal/domain"
	"turismo/internal/validation"
)

// Fixture is the import format. A package's Hotel is the 1-based position of
// its hotel within Hotels.
type Fixture struct {
	Hotels   []domain.Hotel   `json:"hotels"`
	Packages []FixturePackage `json:"packages"`
}

type FixturePackage struct {
	domain.TourPackage
	Hotel int `json:"hotel"`
}

// UnmarshalJSON starts from the package defaults so an omitted "available"
// stays true.
func (p *FixturePackage) UnmarshalJSON(b []byte) error {
	type plain FixturePackage
	v := plain{TourPackage: domain.NewTourPackage()}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = FixturePackage(v)
	return nil
}

// ReadFixture decodes a fixture file, rejecting unknown fields.
func ReadFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

func Examples() Fixture {
	hotels := []domain.Hotel{
		{
			Name:          "Hotel Vista del Mar",
			City:          "Cartagena",
			Country:       "Colombia",
			Address:       "Avenida San Martín 123",
			StarRating:    4,
			Description:   "Hermoso hotel frente al mar con vistas espectaculares",
			PricePerNight: 150.00,
		},
		{
			Name:          "Posada Los Andes",
			City:          "Cusco",
			Country:       "Perú",
			Address:       "Plaza de Armas 456",
			StarRating:    3,
			Description:   "Hotel tradicional en el corazón de la ciudad imperial",
			PricePerNight: 85.00,
		},
		{
			Name:          "Resort Tropical Paradise",
			City:          "Cancún",
			Country:       "México",
			Address:       "Zona Hotelera Km 12",
			StarRating:    5,
			Description:   "Resort todo incluido con playa privada y spa",
			PricePerNight: 300.00,
		},
	}
	packages := []FixturePackage{
		{Hotel: 1, TourPackage: domain.TourPackage{
			Name:         "Escapada Romántica Caribeña",
			Description:  "Perfecto para parejas que buscan romance y relajación",
			DurationDays: 3,
			TotalPrice:   500.00,
			Activities:   "Cena romántica, masajes en pareja, tour en catamarán",
			Available:    true,
		}},
		{Hotel: 2, TourPackage: domain.TourPackage{
			Name:         "Aventura Machu Picchu",
			Description:  "Descubre la maravilla del mundo con guía experto",
			DurationDays: 4,
			TotalPrice:   420.00,
			Activities:   "Tour Machu Picchu, Valle Sagrado, degustación de comida local",
			Available:    true,
		}},
		{Hotel: 3, TourPackage: domain.TourPackage{
			Name:         "Vacaciones Familiares Todo Incluido",
			Description:  "Diversión garantizada para toda la familia",
			DurationDays: 7,
			TotalPrice:   2100.00,
			Activities:   "Parque acuático, actividades para niños, espectáculos nocturnos",
			Available:    true,
		}},
	}
	return Fixture{Hotels: hotels, Packages: packages}
}

// IfEmpty loads the examples when the store has no hotels, all in one
// transaction: a failed seed leaves the store empty so the next start tries
// again. It reports whether anything was inserted.
func IfEmpty(ctx context.Context, store domain.TxStore) (bool, error) {
	f := Examples()
	seeded := false
	err := store.InTx(ctx, func(tx domain.Store) error {
		n, err := tx.CountHotels(ctx)
		if err != nil || n > 0 {
			return err
		}
		ids, err := InsertHotels(ctx, tx, f.Hotels)
		if err != nil {
			return err
		}
		for _, p := range f.Packages {
			if _, err := InsertPackage(ctx, tx, ids, p); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		log.Info().Int("hotels", len(f.Hotels)).Int("packages", len(f.Packages)).Msg("example data created")
	}
	return seeded, nil
}

// RecordError names the fixture record that failed the field rules.
type RecordError struct {
	Kind   string // "hotel" or "package"
	Index  int    // 1-based position in the fixture, 0 when unknown
	Name   string
	Errors validation.Errors
}

func (e *RecordError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Errors)
	}
	return fmt.Sprintf("%s %d (%q): %v", e.Kind, e.Index, e.Name, e.Errors)
}

func withDefaults(h domain.Hotel) domain.Hotel {
	if h.StarRating == 0 {
		h.StarRating = domain.DefaultStarRating
	}
	return h
}

func checkHotel(i int, h domain.Hotel) error {
	if _, errs := validation.HotelSchema.Validate(app.HotelForm(h)); errs != nil {
		return &RecordError{Kind: "hotel", Index: i + 1, Name: h.Name, Errors: errs}
	}
	return nil
}

// checkPackage runs the field rules; hotelID stands in for the reference the
// fixture resolves later.
func checkPackage(i int, p domain.TourPackage, hotelID int64) error {
	p.HotelID = hotelID
	if _, errs := validation.PackageSchema.Validate(app.PackageForm(p)); errs != nil {
		return &RecordError{Kind: "package", Index: i + 1, Name: p.Name, Errors: errs}
	}
	return nil
}

// Validate applies the same field rules as the create forms to every record
// and checks each package's hotel position. All failures are returned joined.
func (f Fixture) Validate() error {
	var errs []error
	for i, h := range f.Hotels {
		if err := checkHotel(i, withDefaults(h)); err != nil {
			errs = append(errs, err)
		}
	}
	for i, p := range f.Packages {
		if p.Hotel < 1 || p.Hotel > len(f.Hotels) {
			errs = append(errs, fmt.Errorf("package %d (%q): hotel %d out of range", i+1, p.Name, p.Hotel))
			continue
		}
		if err := checkPackage(i, p.TourPackage, int64(p.Hotel)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InsertHotels validates then inserts in order, returning the assigned ids by
// position.
func InsertHotels(ctx context.Context, store domain.HotelRepository, hs []domain.Hotel) ([]int64, error) {
	ids := make([]int64, 0, len(hs))
	for i, h := range hs {
		h = withDefaults(h)
		if err := checkHotel(i, h); err != nil {
			return nil, err
		}
		id, err := store.InsertHotel(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("seed hotel %q: %w", h.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InsertPackage resolves the fixture's hotel position against ids, validates,
// and inserts.
func InsertPackage(ctx context.Context, store domain.PackageRepository, ids []int64, p FixturePackage) (int64, error) {
	if p.Hotel < 1 || p.Hotel > len(ids) {
		return 0, fmt.Errorf("seed package %q: hotel %d out of range", p.Name, p.Hotel)
	}
	tp := p.TourPackage
	tp.HotelID = ids[p.Hotel-1]
	if err := checkPackage(-1, tp, tp.HotelID); err != nil {
		return 0, err
	}
	id, err := store.InsertPackage(ctx, tp)
	if err != nil {
		return 0, fmt.Errorf("seed package %q: %w", p.Name, err)
	}
	return id, nil
}
