package server

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/registry"
	"github.com/desertthunder/ecoleta/internal/services"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// ItemHandler serves the item catalog.
type ItemHandler struct {
	registry PointRegistry
	logger   *log.Logger
}

func NewItemHandler(reg PointRegistry, logger *log.Logger) *ItemHandler {
	return &ItemHandler{registry: reg, logger: logger}
}

func (h *ItemHandler) Routes() []string {
	return []string{"GET /items"}
}

func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.registry.ListItems(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// PointHandler serves point creation, filtered listing and detail lookup.
type PointHandler struct {
	registry  PointRegistry
	maxUpload int64
	logger    *log.Logger
}

// NewPointHandler limits create request bodies to maxUpload bytes.
func NewPointHandler(reg PointRegistry, maxUpload int64, logger *log.Logger) *PointHandler {
	return &PointHandler{registry: reg, maxUpload: maxUpload, logger: logger}
}

func (h *PointHandler) Routes() []string {
	return []string{"POST /point", "GET /point", "GET /point/{id}"}
}

func (h *PointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /point":
		h.create(w, r)
	case "GET /point":
		h.list(w, r)
	case "GET /point/{id}":
		h.show(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PointHandler) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(h.maxUpload)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, r, h.logger, maxBytes)
			return
		}
		respondError(w, r, h.logger, fmt.Errorf("%w: malformed form: %v", shared.ErrInvalidInput, err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	whatsapp := r.FormValue("whatsapp")
	if whatsapp == "" {
		whatsapp = r.FormValue("phone")
	}

	in := models.PointInput{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Whatsapp:  whatsapp,
		Latitude:  r.FormValue("latitude"),
		Longitude: r.FormValue("longitude"),
		City:      r.FormValue("city"),
		UF:        r.FormValue("uf"),
		Items:     r.FormValue("items"),
	}

	var img *registry.Image
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		img = &registry.Image{Filename: header.Filename, ContentType: header.Header.Get("Content-Type"), Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		respondError(w, r, h.logger, fmt.Errorf("%w: image: %v", shared.ErrInvalidInput, err))
		return
	}

	point, err := h.registry.CreatePoint(r.Context(), in, img)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, point)
}

func (h *PointHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ids, err := models.ParseItemIDs(q["items"]...)
	if err != nil {
		respondError(w, r, h.logger, models.ValidationErrors{{Field: "items", Message: err.Error()}})
		return
	}

	points, err := h.registry.ListPoints(r.Context(), models.PointFilter{
		UF:      q.Get("uf"),
		City:    q.Get("city"),
		ItemIDs: ids,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *PointHandler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, r, h.logger, models.ValidationErrors{{Field: "id", Message: "must be a number"}})
		return
	}

	detail, err := h.registry.GetPoint(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GeoHandler proxies state and city options. Upstream failures degrade to an empty list.
type GeoHandler struct {
	geo    services.GeoService
	logger *log.Logger
}

func NewGeoHandler(geo services.GeoService, logger *log.Logger) *GeoHandler {
	return &GeoHandler{geo: geo, logger: logger}
}

func (h *GeoHandler) Routes() []string {
	return []string{"GET /geo/ufs", "GET /geo/ufs/{uf}/cities"}
}

func (h *GeoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		options []models.Option
		err     error
	)

	switch r.Pattern {
	case "GET /geo/ufs":
		options, err = h.geo.States(r.Context())
	case "GET /geo/ufs/{uf}/cities":
		uf := strings.ToUpper(r.PathValue("uf"))
		if len(uf) != 2 {
			respondError(w, r, h.logger, models.ValidationErrors{{Field: "uf", Message: "must be exactly 2 letters"}})
			return
		}
		options, err = h.geo.Cities(r.Context(), uf)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		if !errors.Is(err, shared.ErrUpstream) {
			respondError(w, r, h.logger, err)
			return
		}
		h.logger.Warn("geo lookup failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		options = []models.Option{}
	}
	if options == nil {
		options = []models.Option{}
	}
	writeJSON(w, http.StatusOK, options)
}

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	db     Pinger
	logger *log.Logger
}

func NewHealthHandler(db Pinger, logger *log.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, errorBody{Error: shared.ErrServiceUnavailable.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
