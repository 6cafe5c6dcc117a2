package handlers

import (
	"errors"
	"fmt"
	"log"

	"pizzaria/internal/cart"
	"pizzaria/internal/configurator"
	"pizzaria/internal/orderflow"
	"pizzaria/internal/pricing"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusOf maps a service error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, orderflow.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNotOrderable),
		errors.Is(err, orderflow.ErrUnknownStatus),
		errors.Is(err, pricing.ErrUnknownSize):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrStoreClosed),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrCouponNotApplicable),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, pricing.ErrCouponInactive),
		errors.Is(err, pricing.ErrCouponExpired),
		errors.Is(err, pricing.ErrCouponExhausted),
		errors.Is(err, pricing.ErrCouponMinOrder),
		errors.Is(err, configurator.ErrWrongStep),
		errors.Is(err, configurator.ErrUnknownOption),
		errors.Is(err, configurator.ErrTooManyFlavors),
		errors.Is(err, configurator.ErrNoFlavorSelected),
		errors.Is(err, configurator.ErrNoDrinkSelected),
		errors.Is(err, configurator.ErrNoBorderSelected),
		errors.Is(err, configurator.ErrNotFinished),
		errors.Is(err, configurator.ErrNoFlavorsAvailable):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// fail logs err and writes the {"message","error"} body with the mapped status.
func fail(c *fiber.Ctx, message string, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// parseAndValidate binds the body into dst and runs its validate tags. It
// writes the error response itself and reports whether the handler may go on.
func parseAndValidate(c *fiber.Ctx, v *validator.Validate, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badBody(c, err)
	}
	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badBody(c, err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}
