// file: internals/features/procurement/evaluations/service/score_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
	rfqmodel "procureku_backend/internals/features/procurement/rfqs/model"
)

/* =========================================================
   SCORE RECORDER + COMPLETION TRACKER
========================================================= */

type SubmitScoreInput struct {
	SubmissionID    uuid.UUID
	CriterionScores map[string]float64
	OverallScore    *float64 // opsional; kalau dikirim harus konsisten dengan metode
	Rating          model.ScoreRating
	Justification   *string
	Strengths       *string
	Weaknesses      *string
	Confidence      *int
}

// SubmitScore memvalidasi lalu menyimpan (atau supersede) skor satu evaluator
// untuk satu submission. Transisi otomatis active → consensus dihitung di
// transaksi yang sama sebagai check-and-set supaya hanya tembak sekali
// meskipun dua submit terakhir balapan.
func (s *EvaluationService) SubmitScore(ctx context.Context, evaluatorID uuid.UUID, role string, evalID uuid.UUID, in SubmitScoreInput) (*model.EvaluationScoreModel, error) {
	if !s.Authz.CanScore(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak menilai"}
	}

	var (
		score             *model.EvaluationScoreModel
		rfqID             uuid.UUID
		evaluatorFinished bool
		transitioned      bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialisasi per evaluasi sebelum baca apa pun: dua submit terakhir
		// pada pasangan (evaluator, submission) BERBEDA menyentuh baris skor
		// disjoint, tanpa lock keduanya bisa sama-sama melihat "belum komplet"
		// dan transisi tidak tembak sama sekali.
		if err := lockEvaluation(tx, evalID); err != nil {
			return err
		}
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		rfqID = eval.EvaluationRFQID

		if eval.EvaluationStatus != model.EvaluationStatusActive {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "score"}
		}
		// Deadline dicek sinkron saat submit; tidak ada expiry berbasis timer.
		if time.Now().After(eval.EvaluationDeadline) {
			return &DeadlinePassedError{Deadline: eval.EvaluationDeadline}
		}

		var member model.EvaluationEvaluatorModel
		if err := tx.Where(
			"evaluation_evaluator_evaluation_id = ? AND evaluation_evaluator_user_id = ? AND evaluation_evaluator_status = ?",
			evalID, evaluatorID, model.EvaluatorStatusActive,
		).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AuthorizationError{Reason: "bukan evaluator aktif pada evaluasi ini"}
			}
			return err
		}

		var sub rfqmodel.SubmissionModel
		if err := tx.First(&sub, "submission_id = ?", in.SubmissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "submission", ID: in.SubmissionID}
			}
			return err
		}
		if sub.SubmissionRFQID != eval.EvaluationRFQID {
			return &ValidationError{Field: "submission_id", Reason: "submission bukan milik RFQ evaluasi ini"}
		}
		if sub.SubmissionStatus != rfqmodel.SubmissionStatusSubmitted {
			return &ValidationError{Field: "submission_id", Reason: "submission sudah ditarik"}
		}

		criteria := eval.Criteria()
		if err := validateCriterionScores(eval, criteria, in.CriterionScores); err != nil {
			return err
		}

		calc := CalcOverall(eval.EvaluationScoringMethod, criteria, in.CriterionScores, eval.EvaluationMaxScore)
		if in.OverallScore != nil && math.Abs(*in.OverallScore-calc.Overall) > 1e-3 {
			return &ValidationError{
				Field:  "overall_score",
				Reason: fmt.Sprintf("tidak konsisten dengan metode %s (hitung ulang: %.3f)", eval.EvaluationScoringMethod, calc.Overall),
			}
		}

		wasComplete, err := evaluatorHasScoredAll(tx, eval, evaluatorID)
		if err != nil {
			return err
		}

		score = &model.EvaluationScoreModel{
			EvaluationScoreEvaluationID:    evalID,
			EvaluationScoreSubmissionID:    in.SubmissionID,
			EvaluationScoreEvaluatorID:     evaluatorID,
			EvaluationScoreCriterionScores: datatypes.NewJSONType(in.CriterionScores),
			EvaluationScoreOverall:         calc.Overall,
			EvaluationScoreRating:          in.Rating,
			EvaluationScoreIncomplete:      calc.Incomplete,
			EvaluationScoreJustification:   in.Justification,
			EvaluationScoreStrengths:       in.Strengths,
			EvaluationScoreWeaknesses:      in.Weaknesses,
			EvaluationScoreConfidence:      in.Confidence,
			EvaluationScoreVersion:         1,
		}

		// Supersede, bukan duplikat: last-writer-wins per (evaluator, submission),
		// versi naik tiap overwrite.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "evaluation_score_evaluation_id"},
				{Name: "evaluation_score_submission_id"},
				{Name: "evaluation_score_evaluator_id"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"evaluation_score_criterion_scores": datatypes.NewJSONType(in.CriterionScores),
				"evaluation_score_overall":          calc.Overall,
				"evaluation_score_rating":           in.Rating,
				"evaluation_score_incomplete":       calc.Incomplete,
				"evaluation_score_justification":    in.Justification,
				"evaluation_score_strengths":        in.Strengths,
				"evaluation_score_weaknesses":       in.Weaknesses,
				"evaluation_score_confidence":       in.Confidence,
				"evaluation_score_version":          gorm.Expr("evaluation_scores.evaluation_score_version + 1"),
				"evaluation_score_updated_at":       time.Now(),
			}),
		}).Create(score).Error; err != nil {
			return err
		}

		nowComplete, err := evaluatorHasScoredAll(tx, eval, evaluatorID)
		if err != nil {
			return err
		}
		evaluatorFinished = !wasComplete && nowComplete

		transitioned, err = s.advanceIfComplete(tx, eval)
		return err
	})
	if err != nil {
		return nil, err
	}

	if evaluatorFinished {
		notifsvc.Dispatch(s.Notifier, notifsvc.Event{
			Type:         notifsvc.EventEvaluatorCompleted,
			EvaluationID: evalID,
			RFQID:        rfqID,
			ActorID:      evaluatorID,
		})
	}
	if transitioned {
		notifsvc.Dispatch(s.Notifier, notifsvc.Event{
			Type:         notifsvc.EventReadyForConsensus,
			EvaluationID: evalID,
			RFQID:        rfqID,
		})
	}
	return score, nil
}

/* =========================================================
   VALIDATION
========================================================= */

func validateCriterionScores(eval *model.EvaluationModel, criteria model.CriterionList, scores map[string]float64) error {
	if len(scores) == 0 {
		return &ValidationError{Field: "criterion_scores", Reason: "skor per kriteria wajib diisi"}
	}
	for id, v := range scores {
		cr, ok := criteria.ByID(id)
		if !ok {
			return &ValidationError{Field: id, Reason: "kriteria tidak dikenal"}
		}
		max := eval.EvaluationMaxScore
		if cr.MaxScore != nil {
			max = *cr.MaxScore
		}
		if eval.EvaluationScoringMethod == model.ScoringMethodPassFail {
			if v != 0 && v != 1 {
				return &ValidationError{Field: id, Reason: "metode pass_fail hanya menerima 0 atau 1"}
			}
			continue
		}
		if v < 0 || v > max {
			return &ValidationError{Field: id, Reason: fmt.Sprintf("skor harus di rentang [0, %g]", max)}
		}
	}
	for _, cr := range criteria {
		if !cr.Required {
			continue
		}
		if _, ok := scores[cr.CriterionID]; !ok {
			return &ValidationError{Field: cr.CriterionID, Reason: "kriteria wajib belum dinilai"}
		}
	}
	return nil
}

/* =========================================================
   COMPLETION TRACKER
   Selalu dihitung ulang dari data terkini (submission &
   keanggotaan bisa berubah di antara dua cek); tidak di-cache.
========================================================= */

func activeSubmissionIDs(tx *gorm.DB, rfqID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Model(&rfqmodel.SubmissionModel{}).
		Where("submission_rfq_id = ? AND submission_status = ?", rfqID, rfqmodel.SubmissionStatusSubmitted).
		Order("submission_submitted_at ASC").
		Pluck("submission_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func evaluatorHasScoredAll(tx *gorm.DB, eval *model.EvaluationModel, evaluatorID uuid.UUID) (bool, error) {
	subIDs, err := activeSubmissionIDs(tx, eval.EvaluationRFQID)
	if err != nil {
		return false, err
	}
	if len(subIDs) == 0 {
		return false, nil
	}
	var scored []uuid.UUID
	if err := tx.Model(&model.EvaluationScoreModel{}).
		Where("evaluation_score_evaluation_id = ? AND evaluation_score_evaluator_id = ?", eval.EvaluationID, evaluatorID).
		Pluck("evaluation_score_submission_id", &scored).Error; err != nil {
		return false, err
	}
	scoredSet := map[uuid.UUID]bool{}
	for _, id := range scored {
		scoredSet[id] = true
	}
	for _, id := range subIDs {
		if !scoredSet[id] {
			return false, nil
		}
	}
	return true, nil
}

func globallyComplete(tx *gorm.DB, eval *model.EvaluationModel) (bool, error) {
	evs, err := activeEvaluators(tx, eval.EvaluationID)
	if err != nil {
		return false, err
	}
	if len(evs) == 0 {
		return false, nil
	}
	for _, ev := range evs {
		done, err := evaluatorHasScoredAll(tx, eval, ev.EvaluationEvaluatorUserID)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
	}
	return true, nil
}

// advanceIfComplete: kalau semua evaluator aktif sudah menilai semua
// submission, transisikan active → consensus lewat CAS pada status.
// Dua penyelesai terakhir yang balapan: hanya satu yang RowsAffected=1,
// jadi notifikasi ready-for-consensus pasti tembak tepat sekali.
func (s *EvaluationService) advanceIfComplete(tx *gorm.DB, eval *model.EvaluationModel) (bool, error) {
	if eval.EvaluationStatus != model.EvaluationStatusActive {
		return false, nil
	}
	done, err := globallyComplete(tx, eval)
	if err != nil || !done {
		return false, err
	}

	res := tx.Model(&model.EvaluationModel{}).
		Where("evaluation_id = ? AND evaluation_status = ?", eval.EvaluationID, model.EvaluationStatusActive).
		Updates(map[string]any{
			"evaluation_status":             model.EvaluationStatusConsensus,
			"evaluation_consensus_notified": true,
			"evaluation_version":            gorm.Expr("evaluation_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil // kalah balapan, yang menang sudah notifikasi
	}
	log.Printf("[EvaluationService] eval=%s complete, advance ke consensus", eval.EvaluationID)
	return true, nil
}
