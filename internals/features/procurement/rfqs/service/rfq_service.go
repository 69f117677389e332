// file: internals/features/procurement/rfqs/service/rfq_service.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "procureku_backend/internals/features/procurement/rfqs/model"
)

/* =========================================================
   SERVICE
   Read-side RFQ yang dipakai engine evaluasi ("RFQ service"
   collaborator, di-inject eksplisit — bukan global).
========================================================= */

type RFQService struct {
	DB *gorm.DB
}

func NewRFQService(db *gorm.DB) *RFQService {
	return &RFQService{DB: db}
}

func (s *RFQService) GetRFQ(ctx context.Context, id uuid.UUID) (*model.RFQModel, error) {
	var rfq model.RFQModel
	if err := s.DB.WithContext(ctx).
		First(&rfq, "rfq_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rfq, nil
}

// ListActiveSubmissions: semua bid yang masih berlaku (withdrawn tidak ikut
// dinilai). Urut submitted_at ASC supaya tie-break ranking deterministik.
func (s *RFQService) ListActiveSubmissions(ctx context.Context, rfqID uuid.UUID) ([]model.SubmissionModel, error) {
	var subs []model.SubmissionModel
	if err := s.DB.WithContext(ctx).
		Where("submission_rfq_id = ? AND submission_status = ?", rfqID, model.SubmissionStatusSubmitted).
		Order("submission_submitted_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *RFQService) CountActiveSubmissions(ctx context.Context, rfqID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.SubmissionModel{}).
		Where("submission_rfq_id = ? AND submission_status = ?", rfqID, model.SubmissionStatusSubmitted).
		Count(&n).Error
	return n, err
}
