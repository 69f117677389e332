// file: internals/features/procurement/rfqs/controller/rfq_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "procureku_backend/internals/features/procurement/rfqs/dto"
	model "procureku_backend/internals/features/procurement/rfqs/model"
	helper "procureku_backend/internals/helpers"
)

type RFQController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewRFQController(db *gorm.DB) *RFQController {
	return &RFQController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =======================
   CREATE (draft)
======================= */

func (ctl *RFQController) Create(c *fiber.Ctx) error {
	var req dto.CreateRFQRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	m := req.ToModel(helper.GetUserUUID(c))
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if strings.Contains(err.Error(), "uq_rfq_reference") {
			return helper.JsonError(c, fiber.StatusConflict, "Nomor referensi RFQ sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "RFQ dibuat", m)
}

/* =======================
   GET / LIST
======================= */

func (ctl *RFQController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "RFQ id tidak valid")
	}

	var rfq model.RFQModel
	if err := ctl.DB.WithContext(c.Context()).
		Preload("Submissions").
		First(&rfq, "rfq_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "RFQ tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", rfq)
}

func (ctl *RFQController) List(c *fiber.Ctx) error {
	var q dto.ListRFQQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.WithContext(c.Context()).Model(&model.RFQModel{})
	if q.Status != nil && strings.TrimSpace(*q.Status) != "" {
		tx = tx.Where("rfq_status = ?", strings.TrimSpace(*q.Status))
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("(rfq_title ILIKE ? OR rfq_reference_number ILIKE ?)", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var items []model.RFQModel
	if err := tx.Order("rfq_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", items, &p)
}

/* =======================
   TRANSITIONS
======================= */

func (ctl *RFQController) Publish(c *fiber.Ctx) error {
	return ctl.transition(c, model.RFQStatusDraft, model.RFQStatusPublished, "RFQ dipublikasikan")
}

func (ctl *RFQController) Close(c *fiber.Ctx) error {
	return ctl.transition(c, model.RFQStatusPublished, model.RFQStatusClosed, "RFQ ditutup untuk submission")
}

// transition: CAS status lewat WHERE status lama; RowsAffected 0 berarti
// status sudah berubah (conflict), bukan not found — dibedakan lewat recheck.
func (ctl *RFQController) transition(c *fiber.Ctx, from, to model.RFQStatus, okMsg string) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "RFQ id tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&model.RFQModel{}).
		Where("rfq_id = ? AND rfq_status = ?", id, from).
		Update("rfq_status", to)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		var rfq model.RFQModel
		if err := ctl.DB.WithContext(c.Context()).First(&rfq, "rfq_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "RFQ tidak ditemukan")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonError(c, fiber.StatusConflict,
			"Status RFQ saat ini "+string(rfq.RFQStatus)+", transisi tidak diizinkan")
	}
	return helper.JsonUpdated(c, okMsg, fiber.Map{"rfq_id": id, "rfq_status": to})
}

/* =======================
   SUBMISSIONS (internal bridge; intake supplier-facing di luar scope)
======================= */

func (ctl *RFQController) CreateSubmission(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "RFQ id tidak valid")
	}

	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var rfq model.RFQModel
	if err := ctl.DB.WithContext(c.Context()).First(&rfq, "rfq_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "RFQ tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	m := req.ToModel(rfq.RFQID)
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Submission tercatat", m)
}

func (ctl *RFQController) ListSubmissions(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "RFQ id tidak valid")
	}

	var subs []model.SubmissionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("submission_rfq_id = ?", id).
		Order("submission_submitted_at ASC").
		Find(&subs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", subs)
}
