package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"trulearn-be/internal/pkg/apperror"
)

// ErrorHandlerMiddleware converts service errors into the error envelope.
// ValidationError → 400; capability and malformed-response errors → 502;
// anything else → 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var capabilityErr *apperror.ExternalCapabilityError
		if errors.As(err, &capabilityErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(capabilityErr.Error()))
		}

		var malformedErr *apperror.MalformedResponseError
		if errors.As(err, &malformedErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(malformedErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
