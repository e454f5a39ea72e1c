package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingEndpoints(t *testing.T) {
	app, _ := newTestApplication(t, config{})
	mux := app.mount()

	owner := signup(t, mux, "Olive", "owner@hbnb.io")
	guest := signup(t, mux, "Gus", "guest@hbnb.io")
	placeID := createPlace(t, mux, owner)

	t.Run("should not allow unauthenticated booking", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", "", bookingBody(placeID, 1, 5))
		checkResponseCode(t, http.StatusUnauthorized, rr.Code)
	})

	var bookingID string
	t.Run("should create a booking", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody(placeID, 1, 5))
		checkResponseCode(t, http.StatusCreated, rr.Code)

		var b struct {
			ID        string `json:"id"`
			Reference string `json:"reference"`
			Status    string `json:"status"`
		}
		decode(t, rr, &b)
		assert.Equal(t, "PENDING", b.Status)
		assert.Regexp(t, `^HB-[A-Z0-9]{8,}$`, b.Reference)
		bookingID = b.ID
	})

	t.Run("should reject overlapping dates with 409", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody(placeID, 3, 7))
		checkResponseCode(t, http.StatusConflict, rr.Code)
	})

	t.Run("should accept a stay starting on the previous checkout day", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody(placeID, 5, 8))
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})

	t.Run("should reject an inverted range with 400", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody(placeID, 20, 10))
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject a past start date with 400", func(t *testing.T) {
		body := map[string]string{"place_id": placeID, "start_date": "2024-01-01", "end_date": "2024-01-03"}
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, body)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject a malformed date with 400", func(t *testing.T) {
		body := map[string]string{"place_id": placeID, "start_date": "soon", "end_date": "2025-01-03"}
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, body)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should return 404 for an unknown place", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody("missing", 10, 12))
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should forbid the guest from setting status", func(t *testing.T) {
		rr := call(t, mux, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", guest.token, map[string]string{"status": "DONE"})
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		rr := call(t, mux, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", owner.token, map[string]string{"status": "PAID"})
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should let the owner cancel, then refuse further changes", func(t *testing.T) {
		rr := call(t, mux, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", owner.token, map[string]string{"status": "cancelled"})
		checkResponseCode(t, http.StatusOK, rr.Code)

		rr = call(t, mux, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", owner.token, map[string]string{"status": "DONE"})
		checkResponseCode(t, http.StatusConflict, rr.Code)
	})

	t.Run("should list place and user bookings", func(t *testing.T) {
		rr := call(t, mux, http.MethodGet, "/v1/places/"+placeID+"/bookings", "", nil)
		checkResponseCode(t, http.StatusOK, rr.Code)
		var list []map[string]any
		decode(t, rr, &list)
		assert.Len(t, list, 2)

		rr = call(t, mux, http.MethodGet, "/v1/users/"+guest.id+"/bookings", owner.token, nil)
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		rr = call(t, mux, http.MethodGet, "/v1/users/"+guest.id+"/bookings", guest.token, nil)
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("should return 404 for an unknown booking", func(t *testing.T) {
		rr := call(t, mux, http.MethodGet, "/v1/bookings/missing", "", nil)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}
