package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceEndpoints(t *testing.T) {
	app, _ := newTestApplication(t, config{})
	mux := app.mount()

	owner := signup(t, mux, "Olive", "owner@hbnb.io")
	guest := signup(t, mux, "Gus", "guest@hbnb.io")
	placeID := createPlace(t, mux, owner)

	t.Run("should validate the payload", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/places", owner.token, map[string]any{
			"title": "Nowhere", "description": "x", "price": 10, "latitude": 120,
		})
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should return 404 for an unknown amenity", func(t *testing.T) {
		rr := call(t, mux, http.MethodPost, "/v1/places", owner.token, map[string]any{
			"title": "Loft", "description": "x", "price": 10, "amenity_ids": []string{"missing"},
		})
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should only let the owner update", func(t *testing.T) {
		rr := call(t, mux, http.MethodPut, "/v1/places/"+placeID, guest.token, map[string]any{"price": 1})
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		rr = call(t, mux, http.MethodPut, "/v1/places/"+placeID, owner.token, map[string]any{"price": 99.5})
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("should paginate", func(t *testing.T) {
		rr := call(t, mux, http.MethodGet, "/v1/places?limit=10", "", nil)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var page PlacesPage
		decode(t, rr, &page)
		require.Len(t, page.Places, 1)
		assert.Equal(t, 99.5, page.Places[0].Price)
		assert.Equal(t, 1, page.Pagination.Total)
	})

	t.Run("should report photo storage as unavailable", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photo"; filename="cabin.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("not really a jpeg"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, "/v1/places/"+placeID+"/photos", &body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+owner.token)

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("should delete the place", func(t *testing.T) {
		rr := call(t, mux, http.MethodDelete, "/v1/places/"+placeID, owner.token, nil)
		checkResponseCode(t, http.StatusNoContent, rr.Code)

		rr = call(t, mux, http.MethodGet, "/v1/places/"+placeID, "", nil)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}

func TestAmenityEndpoints(t *testing.T) {
	app, _ := newTestApplication(t, config{})
	mux := app.mount()
	guest := signup(t, mux, "Gus", "guest@hbnb.io")

	rr := call(t, mux, http.MethodPost, "/v1/amenities", guest.token, map[string]string{"name": "Wifi", "description": "Fast"})
	checkResponseCode(t, http.StatusForbidden, rr.Code)

	rr = call(t, mux, http.MethodGet, "/v1/amenities", "", nil)
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[]}`, rr.Body.String())
}
