package app

import (
	"strconv"

	"turismo/internal/domain"
	v "turismo/internal/validation"
)

// Form is the editable field set: raw submitted strings keyed by field name.
type Form map[string]string

func (f Form) Get(name string) string { return f[name] }

type HotelChoice struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

func choicesFrom(hs []domain.Hotel) []HotelChoice {
	out := make([]HotelChoice, 0, len(hs))
	for _, h := range hs {
		out = append(out, HotelChoice{ID: h.ID, Label: h.Label()})
	}
	return out
}

func hasChoice(cs []HotelChoice, id int64) bool {
	for _, c := range cs {
		if c.ID == id {
			return true
		}
	}
	return false
}

func formatPrice(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

/********** hotel **********/

// HotelForm loads an existing record into an editable field set.
func HotelForm(h domain.Hotel) Form {
	return Form{
		v.FieldName:          h.Name,
		v.FieldCity:          h.City,
		v.FieldCountry:       h.Country,
		v.FieldAddress:       h.Address,
		v.FieldStarRating:    strconv.Itoa(h.StarRating),
		v.FieldDescription:   h.Description,
		v.FieldPricePerNight: formatPrice(h.PricePerNight),
	}
}

func NewHotelForm() Form {
	return Form{v.FieldStarRating: strconv.Itoa(domain.DefaultStarRating)}
}

func hotelFromValues(vals v.Values) domain.Hotel {
	h := domain.NewHotel()
	h.Name = vals.String(v.FieldName)
	h.City = vals.String(v.FieldCity)
	h.Country = vals.String(v.FieldCountry)
	h.Address = vals.String(v.FieldAddress)
	h.StarRating = vals.Int(v.FieldStarRating)
	h.Description = vals.String(v.FieldDescription)
	h.PricePerNight = vals.Float(v.FieldPricePerNight)
	return h
}

func hotelChanges(vals v.Values) domain.HotelChanges {
	h := hotelFromValues(vals)
	return domain.HotelChanges{
		Name:          &h.Name,
		City:          &h.City,
		Country:       &h.Country,
		Address:       &h.Address,
		StarRating:    &h.StarRating,
		Description:   &h.Description,
		PricePerNight: &h.PricePerNight,
	}
}

/********** package **********/

func PackageForm(p domain.TourPackage) Form {
	return Form{
		v.FieldName:         p.Name,
		v.FieldDescription:  p.Description,
		v.FieldDurationDays: strconv.Itoa(p.DurationDays),
		v.FieldTotalPrice:   formatPrice(p.TotalPrice),
		v.FieldActivities:   p.Activities,
		v.FieldHotelID:      strconv.FormatInt(p.HotelID, 10),
		v.FieldAvailable:    strconv.FormatBool(p.Available),
	}
}

func NewPackageForm() Form {
	return Form{v.FieldAvailable: "true"}
}

func packageFromValues(vals v.Values) domain.TourPackage {
	p := domain.NewTourPackage()
	p.Name = vals.String(v.FieldName)
	p.Description = vals.String(v.FieldDescription)
	p.DurationDays = vals.Int(v.FieldDurationDays)
	p.TotalPrice = vals.Float(v.FieldTotalPrice)
	p.Activities = vals.String(v.FieldActivities)
	p.HotelID = int64(vals.Int(v.FieldHotelID))
	p.Available = vals.Bool(v.FieldAvailable)
	return p
}

func packageChanges(vals v.Values) domain.PackageChanges {
	p := packageFromValues(vals)
	return domain.PackageChanges{
		Name:         &p.Name,
		Description:  &p.Description,
		DurationDays: &p.DurationDays,
		TotalPrice:   &p.TotalPrice,
		Activities:   &p.Activities,
		HotelID:      &p.HotelID,
		Available:    &p.Available,
	}
}
