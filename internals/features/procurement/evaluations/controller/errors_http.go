// file: internals/features/procurement/evaluations/controller/errors_http.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	service "procureku_backend/internals/features/procurement/evaluations/service"
	helper "procureku_backend/internals/helpers"
)

// writeServiceError memetakan taksonomi error engine ke envelope JSON standar.
// Satu tempat, supaya semua route konsisten.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		notFound   *service.NotFoundError
		validation *service.ValidationError
		conflict   *service.StateConflictError
		authz      *service.AuthorizationError
		threshold  *service.ThresholdNotMetError
		deadline   *service.DeadlinePassedError
	)

	switch {
	case errors.As(err, &notFound):
		return helper.JsonError(c, fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		return helper.JsonValidationError(c, map[string][]string{
			validation.Field: {validation.Reason},
		})
	case errors.As(err, &conflict):
		return helper.JsonErrorWithDetails(c, fiber.StatusConflict, conflict.Error(), fiber.Map{
			"current_status": conflict.Current,
			"attempted":      conflict.Attempted,
		})
	case errors.As(err, &authz):
		return helper.JsonError(c, fiber.StatusForbidden, authz.Error())
	case errors.As(err, &threshold):
		return helper.JsonErrorWithDetails(c, fiber.StatusConflict, threshold.Error(), fiber.Map{
			"required_percent": threshold.Required,
			"actual_percent":   threshold.Actual,
		})
	case errors.As(err, &deadline):
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, deadline.Error(), fiber.Map{
			"deadline": deadline.Deadline,
		})
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
