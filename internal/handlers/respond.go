package handlers

import (
	"errors"
	"fmt"
	"log"

	"mercado/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError translates a service-layer error into its HTTP
// response. The status comes from the error's kind; validation errors
// carry the full list of broken rules.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("Unclassified error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	status := apperrors.HTTPStatus(appErr)
	if status == fiber.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"message": appErr.Msg(),
		"code":    appErr.Kind().String(),
	}
	if violations := appErr.Violations(); len(violations) > 0 {
		body["errors"] = violations
	}
	return c.Status(status).JSON(body)
}

// respondValidationErrors reports which request fields failed which rules.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
