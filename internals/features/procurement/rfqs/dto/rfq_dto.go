// file: internals/features/procurement/rfqs/dto/rfq_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "procureku_backend/internals/features/procurement/rfqs/model"
)

/* ==============================
   CREATE (POST /rfqs)
============================== */

type CreateRFQRequest struct {
	RFQTitle              string     `json:"rfq_title" validate:"required,max=200"`
	RFQReferenceNumber    string     `json:"rfq_reference_number" validate:"required,max=60"`
	RFQDescription        *string    `json:"rfq_description" validate:"omitempty"`
	RFQSubmissionDeadline *time.Time `json:"rfq_submission_deadline" validate:"omitempty"`
}

func (r *CreateRFQRequest) ToModel(ownerID uuid.UUID) *model.RFQModel {
	return &model.RFQModel{
		RFQTitle:              strings.TrimSpace(r.RFQTitle),
		RFQReferenceNumber:    strings.TrimSpace(r.RFQReferenceNumber),
		RFQDescription:        trimPtr(r.RFQDescription),
		RFQOwnerUserID:        ownerID,
		RFQStatus:             model.RFQStatusDraft,
		RFQSubmissionDeadline: r.RFQSubmissionDeadline,
	}
}

/* ==============================
   SUBMISSION (internal bridge)
============================== */

type CreateSubmissionRequest struct {
	SubmissionSupplierID   uuid.UUID  `json:"submission_supplier_id" validate:"required"`
	SubmissionSupplierName string     `json:"submission_supplier_name" validate:"required,max=200"`
	SubmissionTotalPrice   float64    `json:"submission_total_price" validate:"gte=0"`
	SubmissionCurrency     *string    `json:"submission_currency" validate:"omitempty,len=3"`
	SubmissionSubmittedAt  *time.Time `json:"submission_submitted_at" validate:"omitempty"`
}

func (r *CreateSubmissionRequest) ToModel(rfqID uuid.UUID) *model.SubmissionModel {
	m := &model.SubmissionModel{
		SubmissionRFQID:        rfqID,
		SubmissionSupplierID:   r.SubmissionSupplierID,
		SubmissionSupplierName: strings.TrimSpace(r.SubmissionSupplierName),
		SubmissionTotalPrice:   r.SubmissionTotalPrice,
		SubmissionStatus:       model.SubmissionStatusSubmitted,
	}
	if r.SubmissionCurrency != nil {
		m.SubmissionCurrency = strings.ToUpper(strings.TrimSpace(*r.SubmissionCurrency))
	}
	if r.SubmissionSubmittedAt != nil {
		m.SubmissionSubmittedAt = *r.SubmissionSubmittedAt
	} else {
		m.SubmissionSubmittedAt = time.Now()
	}
	return m
}

/* ==============================
   QUERY (GET /rfqs)
============================== */

type ListRFQQuery struct {
	Status *string `query:"status"`
	Q      string  `query:"q"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
