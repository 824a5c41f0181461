package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/domain"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseValidation renders validator.v10 failures as a field->tag map.
func ResponseValidation(ctx *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ResponseError(ctx, fiber.StatusBadRequest, "invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}

	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// ResponseDomainError maps the domain error taxonomy onto HTTP statuses.
func ResponseDomainError(ctx *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case domain.IsInvalidTransition(err):
		return ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return ResponseError(ctx, fiber.StatusConflict, "application was updated concurrently")
	case errors.Is(err, domain.ErrNotFound):
		return ResponseError(ctx, fiber.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		return ResponseError(ctx, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		return ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	default:
		return ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
}
