package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"turismo/internal/app"
	"turismo/internal/domain"
	"turismo/internal/validation"
)

const maxFormBytes = 1 << 20

type Handlers struct {
	Q     *app.QueryService
	C     *app.CommandService
	Views *Views

	// WriteLimiter throttles POST and toggle routes; nil disables it.
	WriteLimiter *rate.Limiter
}

// formPage is the data behind the hotel and package forms.
type formPage struct {
	ID      int64 // zero when creating
	Form    app.Form
	Errors  validation.Errors
	Choices []app.HotelChoice
}

type hotelList struct {
	Hotels []domain.Hotel
	Search string
}

type packageList struct {
	Packages      []domain.PackageDetail
	AvailableOnly bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) { h.notFound(w, r) })

	write := RateLimit(h.WriteLimiter)

	s.mux.Get("/", h.index)

	s.mux.Route("/hoteles", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Get("/crear", h.newHotel)
		r.With(write).Post("/crear", h.createHotel)
		r.Get("/{id}", h.viewHotel)
		r.Get("/{id}/editar", h.editHotelForm)
		r.With(write).Post("/{id}/editar", h.editHotel)
	})

	s.mux.Route("/paquetes", func(r chi.Router) {
		r.Get("/", h.listPackages)
		r.Get("/crear", h.newPackage)
		r.With(write).Post("/crear", h.createPackage)
		r.Get("/{id}", h.viewPackage)
		r.Get("/{id}/editar", h.editPackageForm)
		r.With(write).Post("/{id}/editar", h.editPackage)
		r.With(write).Get("/{id}/toggle", h.toggle)
	})

	s.mux.Route("/api/v1", h.mountAPI)
}

/********** plumbing **********/

// pathID reads the {id} parameter; anything but a positive integer is false.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// readForm keeps only the fields that were actually submitted, so absent
// keys can fall back to their schema defaults.
func readForm(w http.ResponseWriter, r *http.Request) (app.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	f := make(app.Form, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			f[k] = vs[0]
		}
	}
	return f, nil
}

func targetURL(t app.Target, id int64) string {
	switch t {
	case app.HotelList:
		return "/hoteles"
	case app.HotelView:
		return fmt.Sprintf("/hoteles/%d", id)
	case app.HotelCreate:
		return "/hoteles/crear"
	case app.PackageList:
		return "/paquetes"
	case app.PackageView:
		return fmt.Sprintf("/paquetes/%d", id)
	}
	return "/"
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any, extra ...app.Flash) {
	flashes := append(takeFlashes(w, r), extra...)
	h.Views.Render(w, status, page, pageData{Title: title, Flashes: flashes, Data: data})
}

// finish either redirects (303, flash carried in a cookie) or renders the
// form again with its errors.
func (h *Handlers) finish(w http.ResponseWriter, r *http.Request, res app.Result, page, title string) {
	if !res.Rendered() {
		if res.Flash != nil {
			setFlash(w, *res.Flash)
		}
		http.Redirect(w, r, targetURL(res.Redirect, res.ID), http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	var extra []app.Flash
	if res.Flash != nil {
		observeFlash(*res.Flash)
		extra = append(extra, *res.Flash)
	}
	h.render(w, r, status, page, title, formPage{ID: res.ID, Form: res.Form, Errors: res.Errors, Choices: res.Choices}, extra...)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found.html", "No encontrado", nil)
}

// fail maps a handler error to the 404 page or the generic error page.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	log.Error().Err(err).Str("op", op).Msg("request failed")
	h.render(w, r, http.StatusInternalServerError, "error.html", "Error", nil)
}

func (h *Handlers) badForm(w http.ResponseWriter, err error) {
	log.Warn().Err(err).Msg("unreadable form body")
	http.Error(w, "formulario inválido", http.StatusBadRequest)
}

/********** dashboard **********/

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Q.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", "Inicio", stats)
}

/********** hotels **********/

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("busqueda")
	hs, err := h.Q.ListHotels(r.Context(), search)
	if err != nil {
		h.fail(w, r, "list_hotels", err)
		return
	}
	h.render(w, r, http.StatusOK, "hoteles_lista.html", "Hoteles", hotelList{Hotels: hs, Search: search})
}

func (h *Handlers) newHotel(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "hotel_form.html", "Nuevo hotel", formPage{Form: app.NewHotelForm()})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	h.finish(w, r, h.C.CreateHotel(r.Context(), form), "hotel_form.html", "Nuevo hotel")
}

func (h *Handlers) viewHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	d, err := h.Q.HotelDetail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "view_hotel", err)
		return
	}
	h.render(w, r, http.StatusOK, "hotel_ver.html", d.Hotel.Name, d)
}

func (h *Handlers) editHotelForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	res, err := h.C.EditHotelForm(r.Context(), id)
	if err != nil {
		h.fail(w, r, "edit_hotel_form", err)
		return
	}
	h.finish(w, r, res, "hotel_form.html", "Editar hotel")
}

func (h *Handlers) editHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	form, err := readForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	res, err := h.C.EditHotel(r.Context(), id, form)
	if err != nil {
		h.fail(w, r, "edit_hotel", err)
		return
	}
	h.finish(w, r, res, "hotel_form.html", "Editar hotel")
}

/********** packages **********/

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	only := r.URL.Query().Get("disponibles") != ""
	ps, err := h.Q.PackageListing(r.Context(), only)
	if err != nil {
		h.fail(w, r, "list_packages", err)
		return
	}
	h.render(w, r, http.StatusOK, "paquetes_lista.html", "Paquetes turísticos", packageList{Packages: ps, AvailableOnly: only})
}

func (h *Handlers) newPackage(w http.ResponseWriter, r *http.Request) {
	res, err := h.C.NewPackageForm(r.Context())
	if err != nil {
		h.fail(w, r, "new_package", err)
		return
	}
	h.finish(w, r, res, "paquete_form.html", "Nuevo paquete")
}

func (h *Handlers) createPackage(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	res, err := h.C.CreatePackage(r.Context(), form)
	if err != nil {
		h.fail(w, r, "create_package", err)
		return
	}
	h.finish(w, r, res, "paquete_form.html", "Nuevo paquete")
}

func (h *Handlers) viewPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	d, err := h.Q.PackageDetail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "view_package", err)
		return
	}
	h.render(w, r, http.StatusOK, "paquete_ver.html", d.Package.Name, d)
}

func (h *Handlers) editPackageForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	res, err := h.C.EditPackageForm(r.Context(), id)
	if err != nil {
		h.fail(w, r, "edit_package_form", err)
		return
	}
	h.finish(w, r, res, "paquete_form.html", "Editar paquete")
}

func (h *Handlers) editPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	form, err := readForm(w, r)
	if err != nil {
		h.badForm(w, err)
		return
	}
	res, err := h.C.EditPackage(r.Context(), id, form)
	if err != nil {
		h.fail(w, r, "edit_package", err)
		return
	}
	h.finish(w, r, res, "paquete_form.html", "Editar paquete")
}

func (h *Handlers) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	_, res, err := h.C.ToggleAvailability(r.Context(), id)
	if err != nil {
		h.fail(w, r, "toggle_availability", err)
		return
	}
	h.finish(w, r, res, "paquetes_lista.html", "Paquetes turísticos")
}
