package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Empty Request Body",
	Message:    "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Bad Request",
	Message:    "Failed to process the request. Please check the request data.",
}

var AliasTakenResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Alias Taken",
	Message:    "The alias is already in use. Please choose another one.",
}

var UnauthorizedResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusUnauthorized,
	Error:      "Unauthorized",
	Message:    "A valid bearer token is required to access this resource.",
}

var InvalidCredentialsResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusUnauthorized,
	Error:      "Invalid Credentials",
	Message:    "The username or password is incorrect.",
}

var ResourceNotFoundResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusNotFound,
	Error:      "Resource Not Found",
	Message:    "The requested resource was not found.",
}

var LinkExpiredResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusGone,
	Error:      "Link Expired",
	Message:    "The requested link has expired.",
}

var ServerErrorResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusInternalServerError,
	Error:      "Server Error",
	Message:    "An internal server error occurred. Please try again later.",
}

var ServiceUnavailableResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusServiceUnavailable,
	Error:      "Service Unavailable",
	Message:    "The service is temporarily unavailable. Please try again later.",
}

type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
	Details    []any  `json:"details,omitempty"`
	Data       any    `json:"data,omitempty"`
	Meta       any    `json:"meta,omitempty"`
}

func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

// ValidationErrorResponse converts validator errors into a 400 response with
// a per-field detail list.
func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "The request data failed validation.",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			resp.Details = append(resp.Details,
				fmt.Sprintf("field %q failed on the %q rule", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return resp
}
