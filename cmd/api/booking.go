package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"hbnb/internal/domain/bookings"
	"hbnb/internal/facade"

	"github.com/go-chi/chi/v5"
)

// parseDate accepts RFC 3339 timestamps and plain dates, which are taken as
// midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use 2006-01-02 or RFC 3339", s)
	}
	return t, nil
}

type CreateBookingPayload struct {
	PlaceID   string `json:"place_id" validate:"required,notblank"`
	StartDate string `json:"start_date" validate:"required" example:"2025-07-01"`
	EndDate   string `json:"end_date" validate:"required" example:"2025-07-05"`
}

type UpdateBookingPayload struct {
	StartDate *string `json:"start_date" validate:"omitempty,notblank"`
	EndDate   *string `json:"end_date" validate:"omitempty,notblank"`
	Status    *string `json:"status" validate:"omitempty,notblank"`
}

type UpdateBookingStatusPayload struct {
	Status string `json:"status" validate:"required,notblank" example:"CANCELLED"`
}

// createBookingHandler godoc
//
//	@Summary		Book a place
//	@Description	Creates a PENDING booking. The range is half-open, so a stay may start on the day another ends.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateBookingPayload	true	"Booking"
//	@Success		201		{object}	bookings.Booking
//	@Failure		400		{object}	ErrorResponse	"Invalid range or date in the past"
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Dates already booked"
//	@Security		ApiKeyAuth
//	@Router			/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.facade.CreateBooking(r.Context(), actorFromRequest(r), facade.CreateBookingInput{
		PlaceID: payload.PlaceID,
		Start:   start,
		End:     end,
	})
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listBookingsHandler godoc
//
//	@Summary		List bookings
//	@Tags			bookings
//	@Produce		json
//	@Success		200	{array}		bookings.Booking
//	@Failure		500	{object}	ErrorResponse
//	@Router			/bookings [get]
func (app *application) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.facade.ListBookings(r.Context())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getBookingHandler godoc
//
//	@Summary		Get a booking
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		string	true	"Booking ID"
//	@Success		200			{object}	bookings.Booking
//	@Failure		404			{object}	ErrorResponse
//	@Router			/bookings/{bookingID} [get]
func (app *application) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	b, err := app.facade.GetBooking(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateBookingHandler godoc
//
//	@Summary		Update a booking
//	@Description	The guest may move the dates of a PENDING booking. Status changes follow the same rules as PATCH /status.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		string					true	"Booking ID"
//	@Param			payload		body		UpdateBookingPayload	true	"Fields to change"
//	@Success		200			{object}	bookings.Booking
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse	"Overlap or booking no longer modifiable"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID} [put]
func (app *application) updateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := bookings.Patch{Status: payload.Status}
	if payload.StartDate != nil {
		start, err := parseDate(*payload.StartDate)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		patch.Start = &start
	}
	if payload.EndDate != nil {
		end, err := parseDate(*payload.EndDate)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		patch.End = &end
	}

	b, err := app.facade.UpdateBooking(r.Context(), actorFromRequest(r), chi.URLParam(r, "bookingID"), patch)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateBookingStatusHandler godoc
//
//	@Summary		Change a booking's status
//	@Description	The place owner or an admin sets DONE or CANCELLED on a PENDING booking.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		string						true	"Booking ID"
//	@Param			payload		body		UpdateBookingStatusPayload	true	"New status"
//	@Success		200			{object}	bookings.Booking
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/status [patch]
func (app *application) updateBookingStatusHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateBookingStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.facade.UpdateBookingStatus(r.Context(), actorFromRequest(r), chi.URLParam(r, "bookingID"), payload.Status)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteBookingHandler godoc
//
//	@Summary		Delete a booking
//	@Tags			bookings
//	@Param			bookingID	path	string	true	"Booking ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"Completed bookings are kept"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID} [delete]
func (app *application) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.facade.DeleteBooking(r.Context(), actorFromRequest(r), chi.URLParam(r, "bookingID")); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
