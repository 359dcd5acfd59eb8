package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	t.Run("without data", func(t *testing.T) {
		resp := SuccessResponse("done")

		assert.Equal(t, StatusSuccess, resp.Status)
		assert.Equal(t, "done", resp.Message)
		assert.Nil(t, resp.Data)
	})

	t.Run("with data", func(t *testing.T) {
		resp := SuccessResponse("done", map[string]string{"alias": "abc123"})

		assert.Equal(t, StatusSuccess, resp.Status)
		assert.NotNil(t, resp.Data)
	})
}

func TestValidationErrorResponse(t *testing.T) {
	t.Run("non-validator error", func(t *testing.T) {
		resp := ValidationErrorResponse(errors.New("plain error"))

		assert.Equal(t, StatusError, resp.Status)
		assert.Empty(t, resp.Details)
	})

	t.Run("validator error produces details", func(t *testing.T) {
		validate := validator.New()

		err := validate.Struct(struct {
			URL string `validate:"required"`
		}{})

		resp := ValidationErrorResponse(err)

		assert.Equal(t, StatusError, resp.Status)
		assert.Len(t, resp.Details, 1)
	})
}
