// file: internals/features/procurement/evaluations/service/consensus_service.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
)

/* =========================================================
   CONSENSUS BUILDER
   Engine tidak menyelesaikan perbedaan pendapat; hasil
   negosiasi manusia masuk apa adanya lewat resolution.
========================================================= */

type BuildConsensusInput struct {
	FinalScores        map[string]float64 // key = submission id
	AgreedBy           []uuid.UUID
	DisputesConsidered []uuid.UUID
	Resolution         *string
}

// AgreementPercent: |agreed ∩ active| / |active| × 100. Pure, dipakai juga test.
func AgreementPercent(agreedBy []uuid.UUID, activeIDs []uuid.UUID) float64 {
	if len(activeIDs) == 0 {
		return 0
	}
	activeSet := map[uuid.UUID]bool{}
	for _, id := range activeIDs {
		activeSet[id] = true
	}
	agreed := 0
	for _, id := range dedupeUUIDs(agreedBy) {
		if activeSet[id] {
			agreed++
		}
	}
	return float64(agreed) / float64(len(activeIDs)) * 100
}

// BuildConsensus hanya legal di status consensus. Di bawah threshold →
// ThresholdNotMetError dan evaluasi tetap di consensus untuk dicoba lagi.
// Sukses → ConsensusRecord immutable + transisi ke completed (CAS; percobaan
// kedua yang balapan gagal dengan StateConflictError).
func (s *EvaluationService) BuildConsensus(ctx context.Context, facilitatorID uuid.UUID, role string, evalID uuid.UUID, in BuildConsensusInput) (*model.EvaluationConsensusModel, error) {
	if !s.Authz.CanBuildConsensus(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak membangun konsensus"}
	}

	var record *model.EvaluationConsensusModel
	var rfqID uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		rfqID = eval.EvaluationRFQID

		if eval.EvaluationStatus != model.EvaluationStatusConsensus {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "build_consensus"}
		}

		activeIDs, err := activeEvaluatorIDs(tx, evalID)
		if err != nil {
			return err
		}

		pct := AgreementPercent(in.AgreedBy, activeIDs)
		// Threshold hanya bermakna saat allow_consensus; kalau dimatikan,
		// facilitator memutuskan sendiri dan persentase hanya dicatat.
		if eval.EvaluationAllowConsensus && pct < float64(eval.EvaluationConsensusThreshold) {
			return &ThresholdNotMetError{
				Required: float64(eval.EvaluationConsensusThreshold),
				Actual:   pct,
			}
		}

		subIDs, err := activeSubmissionIDs(tx, eval.EvaluationRFQID)
		if err != nil {
			return err
		}
		if err := validateFinalScores(in.FinalScores, subIDs, eval.EvaluationMaxScore); err != nil {
			return err
		}

		// CAS dulu: pemanggil kedua yang konkuren langsung konflik di sini,
		// sebelum sempat menulis record kedua.
		res := tx.Model(&model.EvaluationModel{}).
			Where("evaluation_id = ? AND evaluation_status = ?", evalID, model.EvaluationStatusConsensus).
			Updates(map[string]any{
				"evaluation_status":  model.EvaluationStatusCompleted,
				"evaluation_version": gorm.Expr("evaluation_version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateConflictError{Current: model.EvaluationStatusCompleted, Attempted: "build_consensus"}
		}

		record = &model.EvaluationConsensusModel{
			EvaluationConsensusEvaluationID:       evalID,
			EvaluationConsensusFinalScores:        datatypes.NewJSONType(in.FinalScores),
			EvaluationConsensusAgreedBy:           uuidsToStrings(dedupeUUIDs(in.AgreedBy)),
			EvaluationConsensusAgreementPercent:   pct,
			EvaluationConsensusDisputesConsidered: uuidsToStrings(in.DisputesConsidered),
			EvaluationConsensusResolution:         in.Resolution,
			EvaluationConsensusFacilitatorID:      facilitatorID,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[EvaluationService] consensus tercapai eval=%s pct=%.1f", evalID, record.EvaluationConsensusAgreementPercent)
	notifsvc.Dispatch(s.Notifier, notifsvc.Event{
		Type:         notifsvc.EventConsensusReached,
		EvaluationID: evalID,
		RFQID:        rfqID,
		ActorID:      facilitatorID,
		Payload:      map[string]any{"agreement_percent": record.EvaluationConsensusAgreementPercent},
	})
	return record, nil
}

func validateFinalScores(finals map[string]float64, subIDs []uuid.UUID, maxScore float64) error {
	if len(finals) == 0 {
		return &ValidationError{Field: "final_scores", Reason: "skor final per submission wajib diisi"}
	}
	known := map[string]bool{}
	for _, id := range subIDs {
		known[id.String()] = true
	}
	for sid, v := range finals {
		if !known[sid] {
			return &ValidationError{Field: sid, Reason: "submission tidak dikenal pada evaluasi ini"}
		}
		if v < 0 || v > maxScore {
			return &ValidationError{Field: sid, Reason: fmt.Sprintf("skor final harus di rentang [0, %g]", maxScore)}
		}
	}
	for _, id := range subIDs {
		if _, ok := finals[id.String()]; !ok {
			return &ValidationError{Field: id.String(), Reason: "skor final submission belum diisi"}
		}
	}
	return nil
}

func uuidsToStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
