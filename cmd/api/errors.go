package main

import (
	"errors"
	"net/http"

	"hbnb/internal/facade"
	"hbnb/internal/media"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusForbidden, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// facadeErrorResponse maps the facade's error kinds onto status codes.
// Anything unrecognised is an internal error and its message is not exposed.
func (app *application) facadeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, facade.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, facade.ErrForbidden):
		app.forbiddenResponse(w, r, err)
	case errors.Is(err, facade.ErrUnauthorized):
		app.logger.Warnw("authentication failed", "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, facade.ErrConflict),
		errors.Is(err, facade.ErrImmutable),
		errors.Is(err, facade.ErrDuplicate):
		app.conflictResponse(w, r, err)
	case errors.Is(err, facade.ErrInvalidRange),
		errors.Is(err, facade.ErrPastDate),
		errors.Is(err, facade.ErrInvalidStatus),
		errors.Is(err, facade.ErrValidation):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, media.ErrDisabled):
		app.logger.Warnw("photo storage is not configured", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "photo uploads are not available")
	default:
		app.internalServerError(w, r, err)
	}
}
