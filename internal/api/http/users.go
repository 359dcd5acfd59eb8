package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/service"
	"github.com/ekrukov/shortly/pkg/response"
)

// handleRegister handles POST requests to create a user account.
//
// On success the handler returns a bearer token for the new user, so a
// separate login isn't required after registration.
func handleRegister(svc AuthService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleRegister"
	const successMsg = "The user has been registered successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		token, err := svc.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, database.ErrUserExists) {
				resp := response.BadRequestResponse
				resp.Message = "The username is already taken."
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, tokenResponse{Token: token}))
	}
}

// handleLogin handles POST requests to authenticate a user.
//
// The handler verifies the credentials and returns a bearer token consumed
// by the owner-scoped routes.
func handleLogin(svc AuthService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleLogin"
	const successMsg = "The user has been logged in successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.InvalidCredentialsResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, tokenResponse{Token: token}))
	}
}
