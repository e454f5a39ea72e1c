package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewEndpoints(t *testing.T) {
	app, setNow := newTestApplication(t, config{})
	mux := app.mount()

	owner := signup(t, mux, "Olive", "owner@hbnb.io")
	guest := signup(t, mux, "Gus", "guest@hbnb.io")
	other := signup(t, mux, "Ola", "other@hbnb.io")
	placeID := createPlace(t, mux, owner)

	rr := call(t, mux, http.MethodPost, "/v1/bookings", guest.token, bookingBody(placeID, 1, 5))
	checkResponseCode(t, http.StatusCreated, rr.Code)
	var b struct {
		ID string `json:"id"`
	}
	decode(t, rr, &b)

	review := map[string]any{"booking_id": b.ID, "comment": "Lovely stay", "rating": 4.5}

	t.Run("should forbid reviewing before the stay ends", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/reviews", guest.token, review)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	setNow(time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))

	t.Run("should forbid reviewing someone else's booking", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/reviews", other.token, review)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should reject an out of range rating", func(t *testing.T) {
		bad := map[string]any{"booking_id": b.ID, "comment": "Lovely stay", "rating": 7}
		rr := call(t, mux, http.MethodPost, "/v1/reviews", guest.token, bad)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	var reviewID string
	t.Run("should accept a review once the stay is done", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/places/"+placeID+"/reviews", guest.token, review)
		checkResponseCode(t, http.StatusCreated, rr.Code)

		var rv struct {
			ID     string  `json:"id"`
			Rating float64 `json:"rating"`
		}
		decode(t, rr, &rv)
		assert.Equal(t, 4.5, rv.Rating)
		reviewID = rv.ID
	})

	t.Run("should mark the booking done and rate the place", func(t *testing.T) {
		rr := call(t, mux, http.MethodGet, "/v1/bookings/"+b.ID, "", nil)
		var got struct {
			Status string `json:"status"`
		}
		decode(t, rr, &got)
		assert.Equal(t, "DONE", got.Status)

		rr = call(t, mux, http.MethodGet, "/v1/places/"+placeID, "", nil)
		var p struct {
			Rating float64 `json:"rating"`
		}
		decode(t, rr, &p)
		assert.Equal(t, 4.5, p.Rating)
	})

	t.Run("should only let the author edit", func(t *testing.T) {
		rr := call(t, mux, http.MethodPut, "/v1/reviews/"+reviewID, other.token, map[string]any{"rating": 1})
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		rr = call(t, mux, http.MethodPut, "/v1/reviews/"+reviewID, guest.token, map[string]any{"comment": "  "})
		checkResponseCode(t, http.StatusBadRequest, rr.Code)

		rr = call(t, mux, http.MethodPut, "/v1/reviews/"+reviewID, guest.token, map[string]any{"rating": 3})
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("should list and delete", func(t *testing.T) {
		rr := call(t, mux, http.MethodGet, "/v1/places/"+placeID+"/reviews", "", nil)
		checkResponseCode(t, http.StatusOK, rr.Code)
		var list []map[string]any
		decode(t, rr, &list)
		assert.Len(t, list, 1)

		rr = call(t, mux, http.MethodDelete, "/v1/reviews/"+reviewID, guest.token, nil)
		checkResponseCode(t, http.StatusNoContent, rr.Code)

		rr = call(t, mux, http.MethodGet, "/v1/reviews/"+reviewID, "", nil)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}
