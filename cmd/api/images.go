package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxPhotoBytes = 10 * 1024 * 1024 // 10MB

// uploadPlacePhotoHandler godoc
//
//	@Summary		Upload a place photo
//	@Description	Uploads an image to Cloudinary and appends its URL to the place.
//	@Tags			places
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Param			photo	formData	file	true	"Image file"
//	@Success		201		{object}	places.Place
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/photos [post]
func (app *application) uploadPlacePhotoHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to get photo from form: %w", err))
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		app.badRequestResponse(w, r, fmt.Errorf("photo must be an image, got %s", ct))
		return
	}

	p, err := app.facade.AddPlacePhoto(r.Context(), actorFromRequest(r), chi.URLParam(r, "placeID"), file)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePlacePhotoHandler godoc
//
//	@Summary		Delete a place photo
//	@Tags			places
//	@Produce		json
//	@Param			placeID		path		string	true	"Place ID"
//	@Param			photo_url	query		string	true	"URL of the photo to delete"
//	@Success		200			{object}	places.Place
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/photos [delete]
func (app *application) deletePlacePhotoHandler(w http.ResponseWriter, r *http.Request) {
	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("photo_url is required"))
		return
	}

	p, err := app.facade.RemovePlacePhoto(r.Context(), actorFromRequest(r), chi.URLParam(r, "placeID"), photoURL)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}
