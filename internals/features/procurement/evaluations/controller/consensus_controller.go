// file: internals/features/procurement/evaluations/controller/consensus_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "procureku_backend/internals/features/procurement/evaluations/dto"
	helper "procureku_backend/internals/helpers"
)

/* =======================
   CONSENSUS
======================= */

func (ctl *EvaluationController) BuildConsensus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.BuildConsensusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	record, err := ctl.Service.BuildConsensus(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Konsensus tercapai", record)
}

/* =======================
   FINALIZE & RESULTS
======================= */

func (ctl *EvaluationController) Finalize(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	rec, err := ctl.Service.Finalize(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Evaluasi difinalisasi", rec)
}

func (ctl *EvaluationController) GetResults(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	results, err := ctl.Service.GetResults(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "", results)
}

/* =======================
   DISPUTE
======================= */

func (ctl *EvaluationController) RaiseDispute(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.RaiseDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	dispute, err := ctl.Service.RaiseDispute(c.UserContext(), helper.GetUserUUID(c), id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Dispute tercatat", dispute)
}

func (ctl *EvaluationController) ListDisputes(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	disputes, err := ctl.Service.ListDisputes(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "", disputes)
}
