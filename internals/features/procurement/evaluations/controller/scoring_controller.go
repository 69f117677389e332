// file: internals/features/procurement/evaluations/controller/scoring_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "procureku_backend/internals/features/procurement/evaluations/dto"
	helper "procureku_backend/internals/helpers"
)

/* =======================
   SUBMIT / SUPERSEDE SCORE
======================= */

func (ctl *EvaluationController) SubmitScore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.SubmitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	score, err := ctl.Service.SubmitScore(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "Skor tersimpan", score)
}
