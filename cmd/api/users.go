package main

import (
	"errors"
	"net/http"

	"hbnb/internal/domain/users"
	"hbnb/internal/facade"
	"hbnb/internal/params"

	"github.com/go-chi/chi/v5"
)

type userKey string

const userCtx userKey = "user"

func getUserFromContext(r *http.Request) *users.User {
	if user, ok := r.Context().Value(userCtx).(*users.User); ok {
		return user
	}
	return nil
}

// actorFromRequest is only valid behind AuthTokenMiddleware.
func actorFromRequest(r *http.Request) facade.Actor {
	return facade.ActorFrom(getUserFromContext(r))
}

type UsersPage struct {
	Users      []*users.User     `json:"users"`
	Pagination params.Pagination `json:"pagination"`
}

// getCurrentUserHandler godoc
//
//	@Summary		Current user
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		401	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, getUserFromContext(r)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listUsersHandler godoc
//
//	@Summary		List users
//	@Description	Paginated list of accounts, admins only.
//	@Tags			users
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Items per page"
//	@Success		200		{object}	UsersPage
//	@Failure		403		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.facade.ListUsers(r.Context(), actorFromRequest(r), p.Limit, p.Offset)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, UsersPage{Users: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getUserHandler godoc
//
//	@Summary		Get a user
//	@Tags			users
//	@Produce		json
//	@Param			userID	path		string	true	"User ID"
//	@Success		200		{object}	users.User
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/{userID} [get]
func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.facade.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateUserPayload struct {
	FirstName *string `json:"first_name" validate:"omitempty,notblank,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,notblank,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// updateUserHandler godoc
//
//	@Summary		Update a user
//	@Description	Users edit their own names. Email and password changes are reserved to admins.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		string				true	"User ID"
//	@Param			payload	body		UpdateUserPayload	true	"Fields to change"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Email already registered"
//	@Security		ApiKeyAuth
//	@Router			/users/{userID} [put]
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := users.Patch{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
	}

	user, err := app.facade.UpdateUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "userID"), patch)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteUserHandler godoc
//
//	@Summary		Delete a user
//	@Description	Deletes the account together with its places, bookings and reviews.
//	@Tags			users
//	@Param			userID	path	string	true	"User ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/{userID} [delete]
func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.facade.DeleteUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "userID")); err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// createAdminHandler godoc
//
//	@Summary		Create an admin
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"Admin credentials"
//	@Success		201		{object}	users.User
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/admin [post]
func (app *application) createAdminHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.facade.CreateAdmin(r.Context(), actorFromRequest(r), payload.input())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ModerateUserPayload struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// moderateUserHandler godoc
//
//	@Summary		Activate or deactivate a user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		string				true	"User ID"
//	@Param			payload	body		ModerateUserPayload	true	"New state"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/{userID}/moderate [patch]
func (app *application) moderateUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload ModerateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.facade.ModerateUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "userID"), *payload.IsActive)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listUserBookingsHandler godoc
//
//	@Summary		List a user's bookings
//	@Tags			users
//	@Produce		json
//	@Param			userID	path	string	true	"User ID"
//	@Success		200		{array}	bookings.Booking
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/{userID}/bookings [get]
func (app *application) listUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !actorFromRequest(r).Owns(userID) {
		app.forbiddenResponse(w, r, errors.New("you can only list your own bookings"))
		return
	}

	list, err := app.facade.ListUserBookings(r.Context(), userID)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
