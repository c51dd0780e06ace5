package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus writes data with the given status code.
func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		status = http.StatusRequestEntityTooLarge
		jsonData, _ = json.Marshal(map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil && apiErr.StatusCode < http.StatusInternalServerError {
		response.Cause = apiErr.GetFullError()
	}
	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteForm writes the {"success": true, ...} payload of the inline-edit endpoints.
func (r Responder) WriteForm(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	r.WriteJSONStatus(w, http.StatusOK, body)
}

// WriteFormError writes {"success": false, "error": ...} with the status of err.
func (r Responder) WriteFormError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, FormResponse{Error: "internal error"})
		return
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("inline edit failed")
		r.WriteJSONStatus(w, apiErr.StatusCode, FormResponse{Error: "internal error"})
		return
	}
	r.WriteJSONStatus(w, apiErr.StatusCode, FormResponse{Error: apiErr.Message()})
}

// readJSON decodes the request body into dst, rejecting unknown fields and trailing data.
func readJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errs.NewBadRequestError("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewBadRequestError("missing request body")
		}
		return errs.NewInvalidJSONError(err)
	}
	if dec.More() {
		return errs.NewBadRequestError("request body must contain a single JSON object")
	}
	return nil
}

// uuidParam parses the chi URL parameter name as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// formUUID parses a required form value as a UUID.
func formUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a UUID")
	}
	return id, nil
}

// shareToken reads the ?token= query parameter used to open unlisted lists.
func shareToken(r *http.Request) string {
	return r.URL.Query().Get("token")
}
