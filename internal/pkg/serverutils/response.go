// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"errors"
	"fmt"

	"workalone-be/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WebResponse is the envelope for every JSON response.
type WebResponse[T any] struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) WebResponse[T] {
	return WebResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) WebResponse[any] {
	return WebResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation. The returned error is
// translated by ErrorHandlerMiddleware into a 400 with field details.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// ErrorHandlerMiddleware translates errors returned by handlers into the
// response envelope. Domain errors carry their own status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, fe := range validationErrs {
				fields[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
			}
			resp := ErrorResponse(fiber.StatusBadRequest, "Validation failed")
			resp.Errors = fields
			return ctx.Status(fiber.StatusBadRequest).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code := fiber.StatusInternalServerError

		var conflictErr *entity.ConflictError
		var transitionErr *entity.InvalidTransitionError
		var unknownErr *entity.UnknownSenderError
		var gatewayErr *entity.GatewayError

		switch {
		case errors.As(err, &conflictErr):
			code = fiber.StatusConflict
		case errors.As(err, &transitionErr):
			code = fiber.StatusUnprocessableEntity
		case errors.As(err, &unknownErr):
			code = fiber.StatusNotFound
		case errors.As(err, &gatewayErr):
			code = fiber.StatusBadGateway
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
