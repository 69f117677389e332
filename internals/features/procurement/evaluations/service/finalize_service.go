// file: internals/features/procurement/evaluations/service/finalize_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
	rfqmodel "procureku_backend/internals/features/procurement/rfqs/model"
)

/* =========================================================
   FINALIZATION / RECOMMENDATION ENGINE
========================================================= */

type FinalizeInput struct {
	Rankings            []model.RankingEntry // opsional; kosong → diturunkan dari konsensus
	Recommendation      model.RecommendationType
	Justification       string
	RecommendedSupplier *uuid.UUID
	Conditions          *string
	NextSteps           *string
}

// Finalize hanya legal dari completed. Menghasilkan rekomendasi immutable,
// transisi ke finalized (CAS, single-shot), dan memicu pembuatan laporan
// asinkron tanpa menunggu.
func (s *EvaluationService) Finalize(ctx context.Context, actorID uuid.UUID, role string, evalID uuid.UUID, in FinalizeInput) (*model.EvaluationRecommendationModel, error) {
	if !s.Authz.CanFinalize(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak memfinalisasi evaluasi"}
	}

	if strings.TrimSpace(in.Justification) == "" {
		return nil, &ValidationError{Field: "justification", Reason: "justifikasi wajib diisi"}
	}
	if in.Recommendation == model.RecommendationAward && in.RecommendedSupplier == nil {
		return nil, &ValidationError{Field: "recommended_supplier_id", Reason: "rekomendasi award butuh supplier terpilih"}
	}

	var rec *model.EvaluationRecommendationModel
	var rfqID uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		rfqID = eval.EvaluationRFQID

		if eval.EvaluationStatus != model.EvaluationStatusCompleted {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "finalize"}
		}

		rankings := in.Rankings
		if len(rankings) == 0 {
			rankings, err = deriveRankings(tx, eval)
			if err != nil {
				return err
			}
		}

		// CAS single-shot: percobaan kedua yang konkuren konflik di sini.
		res := tx.Model(&model.EvaluationModel{}).
			Where("evaluation_id = ? AND evaluation_status = ?", evalID, model.EvaluationStatusCompleted).
			Updates(map[string]any{
				"evaluation_status":  model.EvaluationStatusFinalized,
				"evaluation_version": gorm.Expr("evaluation_version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateConflictError{Current: model.EvaluationStatusFinalized, Attempted: "finalize"}
		}

		rec = &model.EvaluationRecommendationModel{
			EvaluationRecommendationEvaluationID:  evalID,
			EvaluationRecommendationRankings:      datatypes.NewJSONType(rankings),
			EvaluationRecommendationType:          in.Recommendation,
			EvaluationRecommendationJustification: strings.TrimSpace(in.Justification),
			EvaluationRecommendationSupplierID:    in.RecommendedSupplier,
			EvaluationRecommendationConditions:    in.Conditions,
			EvaluationRecommendationNextSteps:     in.NextSteps,
			EvaluationRecommendationFinalizedBy:   actorID,
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[EvaluationService] finalized eval=%s rec=%s", evalID, rec.EvaluationRecommendationType)

	// Laporan dibuat asinkron; finalisasi tidak menunggu hasilnya.
	if s.Reports != nil {
		s.Reports.EnqueueFinalReport(evalID)
	}
	notifsvc.Dispatch(s.Notifier, notifsvc.Event{
		Type:         notifsvc.EventEvaluationFinalized,
		EvaluationID: evalID,
		RFQID:        rfqID,
		ActorID:      actorID,
		Payload:      map[string]any{"recommendation": string(rec.EvaluationRecommendationType)},
	})
	return rec, nil
}

// deriveRankings: peringkat dari skor final konsensus. Metode ranking pakai
// mean rank naik; metode lain skor turun. Seri → harga naik, lalu waktu
// submit naik.
func deriveRankings(tx *gorm.DB, eval *model.EvaluationModel) ([]model.RankingEntry, error) {
	var consensus model.EvaluationConsensusModel
	if err := tx.First(&consensus, "evaluation_consensus_evaluation_id = ?", eval.EvaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "consensus", ID: eval.EvaluationID}
		}
		return nil, err
	}
	finals := consensus.EvaluationConsensusFinalScores.Data()

	var subs []rfqmodel.SubmissionModel
	if err := tx.
		Where("submission_rfq_id = ? AND submission_status = ?", eval.EvaluationRFQID, rfqmodel.SubmissionStatusSubmitted).
		Order("submission_submitted_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	candidates := make([]RankCandidate, 0, len(subs))
	for _, sub := range subs {
		candidates = append(candidates, RankCandidate{
			SubmissionID: sub.SubmissionID,
			SupplierID:   sub.SubmissionSupplierID,
			SupplierName: sub.SubmissionSupplierName,
			MeanRank:     finals[sub.SubmissionID.String()],
			Price:        sub.SubmissionTotalPrice,
			SubmittedAt:  sub.SubmissionSubmittedAt,
		})
	}

	var ordered []RankCandidate
	if eval.EvaluationScoringMethod == model.ScoringMethodRanking {
		ordered = RankByMeanRank(candidates)
	} else {
		ordered = RankByScoreDesc(candidates, finals)
	}

	out := make([]model.RankingEntry, 0, len(ordered))
	for i, c := range ordered {
		out = append(out, model.RankingEntry{
			Rank:         i + 1,
			SubmissionID: c.SubmissionID,
			SupplierID:   c.SupplierID,
			SupplierName: c.SupplierName,
			FinalScore:   finals[c.SubmissionID.String()],
		})
	}
	return out, nil
}
