package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"turismo/internal/domain"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// mountAPI registers the read-only JSON endpoints.
func (h *Handlers) mountAPI(r chi.Router) {
	r.Get("/stats", h.apiStats)
	r.Get("/hotels", h.apiHotels)
	r.Get("/hotels/{id}", h.apiHotel)
	r.Get("/packages", h.apiPackages)
	r.Get("/packages/{id}", h.apiPackage)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeJSON answers 304 when the client already holds this version.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal API response")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write API body")
	}
}

func apiError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("API read failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not load "+what)
}

func (h *Handlers) apiStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Q.Dashboard(r.Context())
	if err != nil {
		apiError(w, "stats", err)
		return
	}
	writeJSON(w, r, stats)
}

func (h *Handlers) apiHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Q.ListHotels(r.Context(), r.URL.Query().Get("busqueda"))
	if err != nil {
		apiError(w, "hotels", err)
		return
	}
	writeJSON(w, r, hs)
}

func (h *Handlers) apiHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	d, err := h.Q.HotelDetail(r.Context(), id)
	if err != nil {
		apiError(w, "hotel", err)
		return
	}
	writeJSON(w, r, d)
}

func (h *Handlers) apiPackages(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Q.ListPackages(r.Context(), r.URL.Query().Get("disponibles") != "")
	if err != nil {
		apiError(w, "packages", err)
		return
	}
	writeJSON(w, r, ps)
}

func (h *Handlers) apiPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	d, err := h.Q.PackageDetail(r.Context(), id)
	if err != nil {
		apiError(w, "package", err)
		return
	}
	writeJSON(w, r, d)
}
