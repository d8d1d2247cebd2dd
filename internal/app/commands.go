package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"turismo/internal/domain"
	"turismo/internal/validation"
)

const (
	msgNoHotels     = "Debe crear al menos un hotel antes de crear paquetes"
	msgInvalidHotel = "Seleccione un hotel existente"
)

// CommandService runs the mutating handlers: validate, write, report.
type CommandService struct {
	store domain.Store
	cache domain.Cache
}

func NewCommandService(store domain.Store, cache domain.Cache) *CommandService {
	return &CommandService{store: store, cache: cache}
}

/********** hotels **********/

func (s *CommandService) CreateHotel(ctx context.Context, form Form) Result {
	vals, errs := validation.HotelSchema.Validate(form)
	if errs != nil {
		return Result{Form: form, Errors: errs}
	}

	id, err := s.store.InsertHotel(ctx, hotelFromValues(vals))
	if err != nil {
		log.Error().Err(err).Str("op", "create_hotel").Msg("store write failed")
		return Result{Form: form, Flash: flash(Error, "Error al crear hotel. Intente nuevamente.")}
	}
	s.invalidate(ctx, keyStats)

	log.Info().Int64("hotel_id", id).Msg("hotel created")
	return Result{Redirect: HotelList, ID: id, Flash: flash(Success, "Hotel creado exitosamente!")}
}

// EditHotelForm pre-populates the edit form from the stored record.
func (s *CommandService) EditHotelForm(ctx context.Context, id int64) (Result, error) {
	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: id, Form: HotelForm(h)}, nil
}

func (s *CommandService) EditHotel(ctx context.Context, id int64, form Form) (Result, error) {
	if _, err := s.store.GetHotel(ctx, id); err != nil {
		return Result{}, err
	}

	vals, errs := validation.HotelSchema.Validate(form)
	if errs != nil {
		return Result{ID: id, Form: form, Errors: errs}, nil
	}

	if err := s.store.UpdateHotel(ctx, id, hotelChanges(vals)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{}, err
		}
		log.Error().Err(err).Int64("hotel_id", id).Str("op", "edit_hotel").Msg("store write failed")
		return Result{ID: id, Form: form, Flash: flash(Error, "Error al actualizar hotel. Intente nuevamente.")}, nil
	}
	s.invalidate(ctx, hotelKey(id))

	return Result{Redirect: HotelView, ID: id, Flash: flash(Success, "Hotel actualizado exitosamente!")}, nil
}

/********** packages **********/

// hotelChoices lists every hotel as a select option. With no hotels it
// returns domain.ErrNoHotels.
func (s *CommandService) hotelChoices(ctx context.Context) ([]HotelChoice, error) {
	hs, err := s.store.ListHotels(ctx, domain.HotelFilter{})
	if err != nil {
		return nil, err
	}
	if len(hs) == 0 {
		return nil, domain.ErrNoHotels
	}
	return choicesFrom(hs), nil
}

func noHotels() Result {
	log.Warn().Msg("package form requested with no hotels")
	return Result{Redirect: HotelCreate, Flash: flash(Warning, msgNoHotels)}
}

// NewPackageForm prepares an empty package form. When no hotel exists the
// result redirects to hotel creation instead.
func (s *CommandService) NewPackageForm(ctx context.Context) (Result, error) {
	choices, err := s.hotelChoices(ctx)
	if errors.Is(err, domain.ErrNoHotels) {
		return noHotels(), nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Form: NewPackageForm(), Choices: choices}, nil
}

func (s *CommandService) CreatePackage(ctx context.Context, form Form) (Result, error) {
	choices, err := s.hotelChoices(ctx)
	if errors.Is(err, domain.ErrNoHotels) {
		return noHotels(), nil
	}
	if err != nil {
		return Result{}, err
	}

	vals, errs := s.validatePackage(form, choices)
	if errs != nil {
		return Result{Form: form, Errors: errs, Choices: choices}, nil
	}

	p := packageFromValues(vals)
	id, err := s.store.InsertPackage(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("op", "create_package").Msg("store write failed")
		return Result{Form: form, Choices: choices, Flash: flash(Error, "Error al crear paquete. Intente nuevamente.")}, nil
	}
	s.invalidate(ctx, keyStats, hotelKey(p.HotelID))

	log.Info().Int64("package_id", id).Int64("hotel_id", p.HotelID).Msg("package created")
	return Result{Redirect: PackageList, ID: id, Flash: flash(Success, "Paquete turístico creado exitosamente!")}, nil
}

func (s *CommandService) EditPackageForm(ctx context.Context, id int64) (Result, error) {
	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return Result{}, err
	}
	choices, err := s.hotelChoices(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: id, Form: PackageForm(p), Choices: choices}, nil
}

func (s *CommandService) EditPackage(ctx context.Context, id int64, form Form) (Result, error) {
	before, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return Result{}, err
	}
	choices, err := s.hotelChoices(ctx)
	if err != nil {
		return Result{}, err
	}

	vals, errs := s.validatePackage(form, choices)
	if errs != nil {
		return Result{ID: id, Form: form, Errors: errs, Choices: choices}, nil
	}

	c := packageChanges(vals)
	if err := s.store.UpdatePackage(ctx, id, c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{}, err
		}
		log.Error().Err(err).Int64("package_id", id).Str("op", "edit_package").Msg("store write failed")
		return Result{ID: id, Form: form, Choices: choices, Flash: flash(Error, "Error al actualizar paquete. Intente nuevamente.")}, nil
	}
	s.invalidate(ctx, keyStats, hotelKey(before.HotelID), hotelKey(*c.HotelID))

	return Result{Redirect: PackageView, ID: id, Flash: flash(Success, "Paquete actualizado exitosamente!")}, nil
}

// validatePackage runs the field rules, then checks the chosen hotel exists.
func (s *CommandService) validatePackage(form Form, choices []HotelChoice) (validation.Values, validation.Errors) {
	vals, errs := validation.PackageSchema.Validate(form)
	if _, bad := errs[validation.FieldHotelID]; !bad {
		if !hasChoice(choices, int64(vals.Int(validation.FieldHotelID))) {
			if errs == nil {
				errs = validation.Errors{}
			}
			errs[validation.FieldHotelID] = msgInvalidHotel
		}
	}
	return vals, errs
}

// ToggleAvailability flips the package's available flag. A missing package
// is returned as domain.ErrNotFound; a failed write becomes an error flash.
// Either way a non-error result redirects to the package list.
func (s *CommandService) ToggleAvailability(ctx context.Context, id int64) (domain.TourPackage, Result, error) {
	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return domain.TourPackage{}, Result{}, err
	}

	next := !p.Available
	if err := s.store.UpdatePackage(ctx, id, domain.PackageChanges{Available: &next}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TourPackage{}, Result{}, err
		}
		log.Error().Err(err).Int64("package_id", id).Str("op", "toggle_availability").Msg("store write failed")
		return p, Result{Redirect: PackageList, ID: id, Flash: flash(Error, "Error al cambiar disponibilidad")}, nil
	}
	p.Available = next
	s.invalidate(ctx, keyStats, hotelKey(p.HotelID))

	state := "disponible"
	if !next {
		state = "no disponible"
	}
	return p, Result{Redirect: PackageList, ID: id, Flash: flash(Info, fmt.Sprintf("Paquete marcado como %s", state))}, nil
}

// invalidate moves each touched read model to a new generation, so entries
// built by reads that overlapped the write are ignored, then drops the
// current entry.
func (s *CommandService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		if _, err := s.cache.Incr(ctx, genKey(k)); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache generation bump failed")
		}
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}
