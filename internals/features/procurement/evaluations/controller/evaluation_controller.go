// file: internals/features/procurement/evaluations/controller/evaluation_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "procureku_backend/internals/features/procurement/evaluations/dto"
	model "procureku_backend/internals/features/procurement/evaluations/model"
	service "procureku_backend/internals/features/procurement/evaluations/service"
	helper "procureku_backend/internals/helpers"
)

type EvaluationController struct {
	DB        *gorm.DB
	Service   *service.EvaluationService
	Validator *validator.Validate
}

func NewEvaluationController(db *gorm.DB, svc *service.EvaluationService) *EvaluationController {
	return &EvaluationController{
		DB:        db,
		Service:   svc,
		Validator: validator.New(),
	}
}

/* =======================
   CREATE (draft)
======================= */

func (ctl *EvaluationController) Create(c *fiber.Ctx) error {
	var req dto.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	eval, err := ctl.Service.Create(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Evaluasi dibuat (draft)", eval)
}

/* =======================
   UPDATE (draft only)
======================= */

func (ctl *EvaluationController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.UpdateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	eval, err := ctl.Service.Update(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Evaluasi diperbarui", eval)
}

/* =======================
   START / CANCEL
======================= */

func (ctl *EvaluationController) Start(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	eval, err := ctl.Service.Start(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Evaluasi dimulai", eval)
}

func (ctl *EvaluationController) Cancel(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.CancelEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if err := ctl.Service.Cancel(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.Reason); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Evaluasi dibatalkan", fiber.Map{"evaluation_id": id})
}

/* =======================
   DETAIL & LIST
======================= */

func (ctl *EvaluationController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	detail, err := ctl.Service.GetDetail(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "", detail)
}

func (ctl *EvaluationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.WithContext(c.Context()).Model(&model.EvaluationModel{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		tx = tx.Where("evaluation_status = ?", s)
	}
	if s := strings.TrimSpace(c.Query("rfq_id")); s != "" {
		tx = tx.Where("evaluation_rfq_id = ?", s)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var items []model.EvaluationModel
	if err := tx.Order("evaluation_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", items, &p)
}

/* =======================
   EVALUATOR MEMBERSHIP
======================= */

func (ctl *EvaluationController) AddEvaluator(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}

	var req dto.EvaluatorMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if err := ctl.Service.AddEvaluator(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, req.UserID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Evaluator ditambahkan", fiber.Map{"evaluation_id": id, "user_id": req.UserID})
}

func (ctl *EvaluationController) RemoveEvaluator(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Evaluation id tidak valid")
	}
	userID, err := helper.ParseUUIDParam(c, "user_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "User id tidak valid")
	}

	if err := ctl.Service.RemoveEvaluator(c.UserContext(), helper.GetUserUUID(c), helper.GetUserRole(c), id, userID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Evaluator dinonaktifkan", fiber.Map{"evaluation_id": id, "user_id": userID})
}
