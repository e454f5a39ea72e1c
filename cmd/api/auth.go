package main

import (
	"errors"
	"net/http"

	"hbnb/internal/domain/users"
	"hbnb/internal/facade"
)

// ErrorResponse is the error envelope written by every endpoint.
//
//	@name	ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"place is already booked for the requested dates"`
	Status  int    `json:"status" example:"409"`
}

type RegisterUserPayload struct {
	FirstName string `json:"first_name" validate:"required,notblank,max=50"`
	LastName  string `json:"last_name" validate:"required,notblank,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

func (p RegisterUserPayload) input() facade.RegisterInput {
	return facade.RegisterInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Password:  p.Password,
	}
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates an active, non-admin account.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"User credentials"
//	@Success		201		{object}	users.User			"User registered"
//	@Failure		400		{object}	ErrorResponse		"Bad request"
//	@Failure		409		{object}	ErrorResponse		"Email already registered"
//	@Failure		500		{object}	ErrorResponse		"Internal Server Error"
//	@Router			/authentication/user [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.facade.Register(r.Context(), payload.input())
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateUserTokenPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         *users.User `json:"user,omitempty"`
}

// createTokenHandler godoc
//
//	@Summary		Creates a token
//	@Description	Exchanges credentials for an access and a refresh token.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateUserTokenPayload	true	"User credentials"
//	@Success		200		{object}	TokenResponse			"Tokens"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse	"Account deactivated"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/authentication/token [post]
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateUserTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.facade.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		app.facadeErrorResponse(w, r, err)
		return
	}

	accessToken, refreshToken, err := app.authenticator.GenerateTokens(user.ID, user.IsAdmin)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: user}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RefreshTokenPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// refreshTokenHandler godoc
//
//	@Summary		Refreshes the access token
//	@Description	Issues a new access token. Admin rights are re-read from the account.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RefreshTokenPayload	true	"Refresh token"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/authentication/refresh [post]
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RefreshTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	claims, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	user, err := app.facade.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, facade.ErrNotFound) {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if !user.IsActive {
		app.forbiddenResponse(w, r, errors.New("account is deactivated"))
		return
	}

	accessToken, err := app.authenticator.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, TokenResponse{AccessToken: accessToken}); err != nil {
		app.internalServerError(w, r, err)
	}
}
