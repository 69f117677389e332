// file: internals/features/procurement/evaluations/service/results_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "procureku_backend/internals/features/procurement/evaluations/model"
)

/* =========================================================
   RESULTS & DETAIL (visibilitas blind evaluation)
========================================================= */

type EvaluationDetail struct {
	Evaluation *model.EvaluationModel            `json:"evaluation"`
	Evaluators []model.EvaluationEvaluatorModel  `json:"evaluators"`
	Scores     []model.EvaluationScoreModel      `json:"scores"`
	// MyProgress: submission yang sudah dinilai viewer (dipakai FE evaluator)
	MyScoredSubmissions []uuid.UUID `json:"my_scored_submissions"`
}

// GetDetail menerapkan aturan blind evaluation: evaluator tanpa override
// read-all hanya melihat skor miliknya sendiri, tidak pernah milik
// evaluator lain.
func (s *EvaluationService) GetDetail(ctx context.Context, viewerID uuid.UUID, role string, evalID uuid.UUID) (*EvaluationDetail, error) {
	eval, err := loadEvaluation(s.DB.WithContext(ctx), evalID)
	if err != nil {
		return nil, err
	}

	evaluators, err := func() ([]model.EvaluationEvaluatorModel, error) {
		var evs []model.EvaluationEvaluatorModel
		err := s.DB.WithContext(ctx).
			Where("evaluation_evaluator_evaluation_id = ?", evalID).
			Order("evaluation_evaluator_invited_at ASC").
			Find(&evs).Error
		return evs, err
	}()
	if err != nil {
		return nil, err
	}

	scoreQuery := s.DB.WithContext(ctx).
		Where("evaluation_score_evaluation_id = ?", evalID)
	if eval.EvaluationIsBlind && !s.Authz.CanReadAllScores(role) {
		scoreQuery = scoreQuery.Where("evaluation_score_evaluator_id = ?", viewerID)
	}

	var scores []model.EvaluationScoreModel
	if err := scoreQuery.
		Order("evaluation_score_created_at ASC").
		Find(&scores).Error; err != nil {
		return nil, err
	}

	var mine []uuid.UUID
	for _, sc := range scores {
		if sc.EvaluationScoreEvaluatorID == viewerID {
			mine = append(mine, sc.EvaluationScoreSubmissionID)
		}
	}

	return &EvaluationDetail{
		Evaluation:          eval,
		Evaluators:          evaluators,
		Scores:              scores,
		MyScoredSubmissions: mine,
	}, nil
}

type EvaluationResults struct {
	EvaluationID     uuid.UUID                            `json:"evaluation_id"`
	Status           model.EvaluationStatus               `json:"status"`
	Consensus        *model.EvaluationConsensusModel      `json:"consensus,omitempty"`
	Recommendation   *model.EvaluationRecommendationModel `json:"recommendation,omitempty"`
	Rankings         []model.RankingEntry                 `json:"rankings"`
}

// GetResults tersedia begitu konsensus tercapai (completed) atau sesudah
// finalized; sebelum itu not-yet-available.
func (s *EvaluationService) GetResults(ctx context.Context, evalID uuid.UUID) (*EvaluationResults, error) {
	var out *EvaluationResults
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		if eval.EvaluationStatus != model.EvaluationStatusCompleted && eval.EvaluationStatus != model.EvaluationStatusFinalized {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "results"}
		}

		var consensus model.EvaluationConsensusModel
		if err := tx.First(&consensus, "evaluation_consensus_evaluation_id = ?", evalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "consensus", ID: evalID}
			}
			return err
		}

		res := &EvaluationResults{
			EvaluationID: evalID,
			Status:       eval.EvaluationStatus,
			Consensus:    &consensus,
		}

		if eval.EvaluationStatus == model.EvaluationStatusFinalized {
			var rec model.EvaluationRecommendationModel
			if err := tx.First(&rec, "evaluation_recommendation_evaluation_id = ?", evalID).Error; err == nil {
				res.Recommendation = &rec
				res.Rankings = rec.EvaluationRecommendationRankings.Data()
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if len(res.Rankings) == 0 {
			rankings, err := deriveRankings(tx, eval)
			if err != nil {
				return err
			}
			res.Rankings = rankings
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
