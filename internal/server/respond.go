package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
	Items  []int64             `json:"items,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}

// respondError maps domain errors onto status codes; anything unrecognised is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var verrs models.ValidationErrors
	var unknown *models.UnknownItemsError
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, errorBody{Error: shared.ErrInvalidInput.Error(), Fields: verrs})
	case errors.As(err, &unknown):
		writeError(w, http.StatusUnprocessableEntity, errorBody{Error: shared.ErrUnknownItems.Error(), Items: unknown.IDs})
	case errors.Is(err, shared.ErrPointNotFound):
		writeError(w, http.StatusNotFound, errorBody{Error: shared.ErrPointNotFound.Error()})
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
