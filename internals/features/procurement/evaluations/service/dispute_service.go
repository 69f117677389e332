// file: internals/features/procurement/evaluations/service/dispute_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
)

/* =========================================================
   DISPUTE HANDLER
   Append-only pada status lifecycle apa pun. Tidak pernah
   menyentuh skor atau konsensus; dispute setelah finalized
   bersifat informasional/audit — penilaian ulang hanya lewat
   evaluasi baru.
========================================================= */

type RaiseDisputeInput struct {
	Type            model.DisputeType
	Description     string
	EvidenceRefs    []string
	RequestedAction string
}

func (s *EvaluationService) RaiseDispute(ctx context.Context, raisedBy uuid.UUID, evalID uuid.UUID, in RaiseDisputeInput) (*model.EvaluationDisputeModel, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, &ValidationError{Field: "description", Reason: "deskripsi dispute wajib diisi"}
	}
	if strings.TrimSpace(in.RequestedAction) == "" {
		return nil, &ValidationError{Field: "requested_action", Reason: "requested_action wajib diisi"}
	}

	eval, err := loadEvaluation(s.DB.WithContext(ctx), evalID)
	if err != nil {
		return nil, err
	}

	dispute := &model.EvaluationDisputeModel{
		EvaluationDisputeEvaluationID:    evalID,
		EvaluationDisputeType:            in.Type,
		EvaluationDisputeDescription:     strings.TrimSpace(in.Description),
		EvaluationDisputeEvidenceRefs:    pq.StringArray(in.EvidenceRefs),
		EvaluationDisputeRequestedAction: strings.TrimSpace(in.RequestedAction),
		EvaluationDisputeRaisedBy:        raisedBy,
		EvaluationDisputeStatus:          model.DisputeStatusOpen,
	}
	if err := s.DB.WithContext(ctx).Create(dispute).Error; err != nil {
		return nil, err
	}

	notifsvc.Dispatch(s.Notifier, notifsvc.Event{
		Type:         notifsvc.EventEvaluationDisputed,
		EvaluationID: evalID,
		RFQID:        eval.EvaluationRFQID,
		ActorID:      raisedBy,
		Payload:      map[string]any{"dispute_type": string(in.Type)},
	})
	return dispute, nil
}

func (s *EvaluationService) ListDisputes(ctx context.Context, evalID uuid.UUID) ([]model.EvaluationDisputeModel, error) {
	if _, err := loadEvaluation(s.DB.WithContext(ctx), evalID); err != nil {
		return nil, err
	}
	var disputes []model.EvaluationDisputeModel
	if err := s.DB.WithContext(ctx).
		Where("evaluation_dispute_evaluation_id = ?", evalID).
		Order("evaluation_dispute_created_at ASC").
		Find(&disputes).Error; err != nil {
		return nil, err
	}
	return disputes, nil
}
