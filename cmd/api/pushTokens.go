package main

import (
	"net/http"
)

// PushTokenRequest carries an Expo push token.
type PushTokenRequest struct {
	Token string `json:"token" validate:"required,notblank,max=255"`
}

// SavePushToken godoc
//
//	@Summary		Save a push notification token
//	@Description	Registers an Expo push token for booking notifications. Saving the same token twice is a no-op.
//	@Tags			Notifications
//	@Accept			json
//	@Param			payload	body	PushTokenRequest	true	"Push token"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse	"Bad Request"
//	@Failure		401	{object}	ErrorResponse	"Unauthorized"
//	@Failure		500	{object}	ErrorResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens [post]
func (app *application) savePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req PushTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.facade.RegisterPushToken(r.Context(), actorFromRequest(r), req.Token); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemovePushToken godoc
//
//	@Summary		Remove a push notification token
//	@Tags			Notifications
//	@Accept			json
//	@Param			payload	body	PushTokenRequest	true	"Push token"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse	"Bad Request"
//	@Failure		401	{object}	ErrorResponse	"Unauthorized"
//	@Failure		500	{object}	ErrorResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens [delete]
func (app *application) deletePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req PushTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.facade.RemovePushToken(r.Context(), actorFromRequest(r), req.Token); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
