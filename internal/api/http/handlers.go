package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/service"
	"github.com/ekrukov/shortly/pkg/response"
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// handleCreateLink handles POST requests to create a short link.
//
// The request must contain a target URL and may carry a custom alias and an
// expiration date. The handler validates the input, calls the link service,
// and returns the created link.
func handleCreateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateLink"
	const successMsg = "The short link has been created successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		var req createLinkRequest

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

		link, err := svc.ShortenURL(r.Context(), userID, req.OriginalURL, req.CustomAlias, req.ExpirationDate)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrAliasExists):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.AliasTakenResponse)
			case errors.Is(err, service.ErrExpirationInPast):
				resp := response.BadRequestResponse
				resp.Message = "The expiration date must be in the future."
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp)
			case errors.Is(err, service.ErrAliasExhausted), errors.Is(err, context.DeadlineExceeded):
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServiceUnavailableResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// handleListLinks handles GET requests to list the authenticated user's links.
//
// Results are filtered by the creationDate and expirationStatus query
// parameters, paginated by limit and offset, and ordered most recent first.
func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListLinks"
	const successMsg = "The links retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		filter, err := parseListFilter(r.URL.Query())
		if err != nil {
			resp := response.BadRequestResponse
			resp.Details = append(resp.Details, err.Error())
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp)
			return
		}

		links, total, err := svc.ListURLs(r.Context(), userID, filter)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServiceUnavailableResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := response.SuccessResponse(successMsg, toLinkResponses(links))
		resp.Meta = listMeta{
			Total:  total,
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, resp)
	}
}

// handleUpdateLink handles PUT requests to partially update a link.
//
// Any of the target URL, alias and expiration date may be replaced; omitted
// fields are left untouched. A link not owned by the caller is reported as
// not found.
func handleUpdateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateLink"
	const successMsg = "The link was successfully updated."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		var req updateLinkRequest

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

		alias := chi.URLParam(r, "alias")
		patch := database.LinkPatch{
			OriginalURL: req.OriginalURL,
			Alias:       req.CustomAlias,
			ExpiresAt:   req.ExpirationDate,
		}

		link, err := svc.ModifyURL(r.Context(), userID, alias, patch)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrAliasExists):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.AliasTakenResponse)
			case errors.Is(err, context.DeadlineExceeded):
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServiceUnavailableResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// handleDeleteLink handles DELETE requests to remove a link.
//
// Deletion is idempotent from the caller's perspective: a repeated delete
// reports not found, which callers treat as already gone.
func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"
	const successMsg = "The link was successfully deleted."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		alias := chi.URLParam(r, "alias")

		err := svc.DeleteURL(r.Context(), userID, alias)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, context.DeadlineExceeded):
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServiceUnavailableResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

// handleRedirect handles public GET requests to resolve an alias.
//
// The handler redirects to the stored target with a 302, reporting 404 for
// an unknown alias and 410 for an expired one.
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		alias := chi.URLParam(r, "alias")

		target, err := svc.ResolveAlias(r.Context(), alias)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrLinkExpired):
				render.Status(r, http.StatusGone)
				render.JSON(w, r, response.LinkExpiredResponse)
			case errors.Is(err, context.DeadlineExceeded):
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServiceUnavailableResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}
