package main

import (
	"net/http"

	"hbnb/internal/domain/places"
	"hbnb/internal/facade"
	"hbnb/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreatePlacePayload struct {
	Title       string   `json:"title" validate:"required,notblank,max=100"`
	Description string   `json:"description" validate:"required,notblank,max=1000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Latitude    float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64  `json:"longitude" validate:"gte=-180,lte=180"`
	AmenityIDs  []string `json:"amenity_ids" validate:"omitempty,dive,required"`
}

type UpdatePlacePayload struct {
	Title       *string   `json:"title" validate:"omitempty,notblank,max=100"`
	Description *string   `json:"description" validate:"omitempty,notblank,max=1000"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Latitude    *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	AmenityIDs  *[]string `json:"amenity_ids" validate:"omitempty,dive,required"`
}

type PlacesPage struct {
	Places     []*places.Place   `json:"places"`
	Pagination params.Pagination `json:"pagination"`
}

// listPlacesHandler godoc
//
//	@Summary		List places
//	@Tags			places
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Items per page"
//	@Success		200		{object}	PlacesPage
//	@Failure		500		{object}	ErrorResponse
//	@Router			/places [get]
func (app *application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.facade.ListPlaces(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, PlacesPage{Places: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPlaceHandler godoc
//
//	@Summary		Get a place
//	@Tags			places
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{object}	places.Place
//	@Failure		404		{object}	ErrorResponse
//	@Router			/places/{placeID} [get]
func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.facade.GetPlace(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPlaceHandler godoc
//
//	@Summary		Create a place
//	@Description	The caller becomes the owner of the new place.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreatePlacePayload	true	"Place"
//	@Success		201		{object}	places.Place
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Unknown amenity"
//	@Security		ApiKeyAuth
//	@Router			/places [post]
func (app *application) createPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.facade.CreatePlace(r.Context(), actorFromRequest(r), facade.CreatePlaceInput{
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		AmenityIDs:  payload.AmenityIDs,
	})
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updatePlaceHandler godoc
//
//	@Summary		Update a place
//	@Description	Only the owner or an admin may update a place.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		string				true	"Place ID"
//	@Param			payload	body		UpdatePlacePayload	true	"Fields to change"
//	@Success		200		{object}	places.Place
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID} [put]
func (app *application) updatePlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := places.Patch{
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		AmenityIDs:  payload.AmenityIDs,
	}

	p, err := app.facade.UpdatePlace(r.Context(), actorFromRequest(r), chi.URLParam(r, "placeID"), patch)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePlaceHandler godoc
//
//	@Summary		Delete a place
//	@Description	Deletes the place with its bookings and reviews.
//	@Tags			places
//	@Param			placeID	path	string	true	"Place ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID} [delete]
func (app *application) deletePlaceHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.facade.DeletePlace(r.Context(), actorFromRequest(r), chi.URLParam(r, "placeID")); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listPlaceBookingsHandler godoc
//
//	@Summary		List bookings of a place
//	@Tags			places
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{array}		bookings.Booking
//	@Failure		404		{object}	ErrorResponse
//	@Router			/places/{placeID}/bookings [get]
func (app *application) listPlaceBookingsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.facade.ListPlaceBookings(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPlaceReviewsHandler godoc
//
//	@Summary		List reviews of a place
//	@Tags			places
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{array}		reviews.Review
//	@Failure		404		{object}	ErrorResponse
//	@Router			/places/{placeID}/reviews [get]
func (app *application) listPlaceReviewsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.facade.ListPlaceReviews(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
