package main

import (
	"net/http"

	"hbnb/internal/domain/amenities"
	"hbnb/internal/facade"

	"github.com/go-chi/chi/v5"
)

type CreateAmenityPayload struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank,max=500"`
}

type UpdateAmenityPayload struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,notblank,max=500"`
}

// listAmenitiesHandler godoc
//
//	@Summary		List amenities
//	@Tags			amenities
//	@Produce		json
//	@Success		200	{array}		amenities.Amenity
//	@Failure		500	{object}	ErrorResponse
//	@Router			/amenities [get]
func (app *application) listAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.facade.ListAmenities(r.Context())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getAmenityHandler godoc
//
//	@Summary		Get an amenity
//	@Tags			amenities
//	@Produce		json
//	@Param			amenityID	path		string	true	"Amenity ID"
//	@Success		200			{object}	amenities.Amenity
//	@Failure		404			{object}	ErrorResponse
//	@Router			/amenities/{amenityID} [get]
func (app *application) getAmenityHandler(w http.ResponseWriter, r *http.Request) {
	a, err := app.facade.GetAmenity(r.Context(), chi.URLParam(r, "amenityID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, a); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createAmenityHandler godoc
//
//	@Summary		Create an amenity
//	@Tags			amenities
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateAmenityPayload	true	"Amenity"
//	@Success		201		{object}	amenities.Amenity
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Name already taken"
//	@Security		ApiKeyAuth
//	@Router			/amenities [post]
func (app *application) createAmenityHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateAmenityPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	a, err := app.facade.CreateAmenity(r.Context(), actorFromRequest(r), facade.AmenityInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, a); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateAmenityHandler godoc
//
//	@Summary		Update an amenity
//	@Tags			amenities
//	@Accept			json
//	@Produce		json
//	@Param			amenityID	path		string					true	"Amenity ID"
//	@Param			payload		body		UpdateAmenityPayload	true	"Fields to change"
//	@Success		200			{object}	amenities.Amenity
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/amenities/{amenityID} [put]
func (app *application) updateAmenityHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateAmenityPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := amenities.Patch{Name: payload.Name, Description: payload.Description}
	a, err := app.facade.UpdateAmenity(r.Context(), actorFromRequest(r), chi.URLParam(r, "amenityID"), patch)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, a); err != nil {
		app.internalServerError(w, r, err)
	}
}
