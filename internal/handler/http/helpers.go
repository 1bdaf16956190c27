package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/event"
	"github.com/vasiliy-maslov/eventhub/internal/user"
	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

const (
	msgInvalidPayload  = "Invalid request payload"
	msgPayloadTooLarge = "Payload too large"
	msgServerError     = "Server Error"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Message: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Server Error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	if _, ok := validation.As(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, event.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes the response for an error returned by a
// service. notFound is the message used for 404s.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch code := mapErrorToStatusCode(err); code {
	case http.StatusUnprocessableEntity:
		vErr, _ := validation.As(err)
		respondWithJSON(w, code, ValidationErrorResponse{Message: validation.Message, Errors: vErr.Errors})
	case http.StatusNotFound:
		respondWithError(w, code, notFound)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		respondWithError(w, code, msgServerError)
	}
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that validation reports the missing fields. A well-formed body
// with a wrongly typed field is a validation failure, not a bad request.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	hlog.FromRequest(r).Warn().Err(err).Msg("Failed to decode request body")

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		respondWithError(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs := validation.Errors{}
		errs.Add(typeErr.Field, validation.WrongType(typeErr.Field, typeErr.Type))
		respondWithJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Message: validation.Message, Errors: errs})
		return false
	}

	respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
	return false
}

// parseID reads the {id} URL parameter. Only the canonical decimal form of a
// positive integer names a record; anything else is answered with notFound.
func parseID(w http.ResponseWriter, r *http.Request, notFound string) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 || !isCanonicalID(idParam) {
		hlog.FromRequest(r).Warn().Str("id", idParam).Msg("Unresolvable id parameter")
		respondWithError(w, http.StatusNotFound, notFound)
		return 0, false
	}
	return id, true
}

func isCanonicalID(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
