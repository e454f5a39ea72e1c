package main

import (
	"net/http"

	"hbnb/internal/domain/reviews"
	"hbnb/internal/facade"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	BookingID string  `json:"booking_id" validate:"required,notblank"`
	Comment   string  `json:"comment" validate:"required,notblank,max=1000"`
	Rating    float64 `json:"rating" validate:"gte=0,lte=5"`
}

func (p CreateReviewPayload) input() facade.CreateReviewInput {
	return facade.CreateReviewInput{BookingID: p.BookingID, Comment: p.Comment, Rating: p.Rating}
}

type UpdateReviewPayload struct {
	Comment *string  `json:"comment" validate:"omitempty,notblank,max=1000"`
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// createReviewHandler godoc
//
//	@Summary		Review a stay
//	@Description	Only the guest of a completed booking whose end date has passed may review the place.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse	"Booking not eligible for review"
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rv, err := app.facade.CreateReview(r.Context(), actorFromRequest(r), payload.input())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, rv); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPlaceReviewHandler godoc
//
//	@Summary		Review a stay at a place
//	@Description	Same as POST /reviews, and the booking must belong to placeID.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		string				true	"Place ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [post]
func (app *application) createPlaceReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rv, err := app.facade.CreateReviewFor(r.Context(), actorFromRequest(r), chi.URLParam(r, "placeID"), payload.input())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, rv); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listReviewsHandler godoc
//
//	@Summary		List reviews
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{array}		reviews.Review
//	@Failure		500	{object}	ErrorResponse
//	@Router			/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.facade.ListReviews(r.Context())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getReviewHandler godoc
//
//	@Summary		Get a review
//	@Tags			reviews
//	@Produce		json
//	@Param			reviewID	path		string	true	"Review ID"
//	@Success		200			{object}	reviews.Review
//	@Failure		404			{object}	ErrorResponse
//	@Router			/reviews/{reviewID} [get]
func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	rv, err := app.facade.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rv); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateReviewHandler godoc
//
//	@Summary		Update a review
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string				true	"Review ID"
//	@Param			payload		body		UpdateReviewPayload	true	"Fields to change"
//	@Success		200			{object}	reviews.Review
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID} [put]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := reviews.Patch{Comment: payload.Comment, Rating: payload.Rating}
	rv, err := app.facade.UpdateReview(r.Context(), actorFromRequest(r), chi.URLParam(r, "reviewID"), patch)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rv); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReviewHandler godoc
//
//	@Summary		Delete a review
//	@Tags			reviews
//	@Param			reviewID	path	string	true	"Review ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.facade.DeleteReview(r.Context(), actorFromRequest(r), chi.URLParam(r, "reviewID")); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
