// file: internals/features/procurement/evaluations/service/evaluation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
	reportsvc "procureku_backend/internals/features/procurement/reports/service"
	rfqservice "procureku_backend/internals/features/procurement/rfqs/service"
)

/* =========================================================
   SERVICE
   Engine evaluasi: lifecycle + scoring + konsensus +
   finalisasi + dispute. Semua dependency di-inject eksplisit.
========================================================= */

type EvaluationService struct {
	DB       *gorm.DB
	RFQ      *rfqservice.RFQService
	Notifier notifsvc.Notifier
	Reports  reportsvc.Generator
	Authz    Authorizer
}

func NewEvaluationService(
	db *gorm.DB,
	rfq *rfqservice.RFQService,
	notifier notifsvc.Notifier,
	reports reportsvc.Generator,
	authz Authorizer,
) *EvaluationService {
	if authz == nil {
		authz = RoleAuthorizer{}
	}
	return &EvaluationService{
		DB:       db,
		RFQ:      rfq,
		Notifier: notifier,
		Reports:  reports,
		Authz:    authz,
	}
}

/* =========================================================
   CREATE (draft)
========================================================= */

type CreateEvaluationInput struct {
	RFQID              uuid.UUID
	Title              string
	Description        *string
	Type               model.EvaluationType
	ScoringMethod      model.ScoringMethod
	MaxScore           float64
	PassingScore       *float64
	Criteria           model.CriterionList
	EvaluatorIDs       []uuid.UUID
	IsBlind            bool
	AllowConsensus     *bool
	ConsensusThreshold *int
	Deadline           time.Time
}

func (s *EvaluationService) Create(ctx context.Context, actorID uuid.UUID, role string, in CreateEvaluationInput) (*model.EvaluationModel, error) {
	if !s.Authz.CanManage(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak membuat evaluasi"}
	}

	rfq, err := s.RFQ.GetRFQ(ctx, in.RFQID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "rfq", ID: in.RFQID}
		}
		return nil, err
	}
	if !rfq.RFQStatus.ClosedForSubmissions() {
		return nil, &ValidationError{Field: "rfq_id", Reason: "RFQ belum closed untuk submission"}
	}

	allowConsensus := true
	if in.AllowConsensus != nil {
		allowConsensus = *in.AllowConsensus
	}
	threshold := 75
	if in.ConsensusThreshold != nil {
		threshold = *in.ConsensusThreshold
	}

	if err := validateEvaluationSemantics(in.Criteria, in.EvaluatorIDs, in.ScoringMethod, in.MaxScore, in.PassingScore, threshold, in.Deadline); err != nil {
		return nil, err
	}

	eval := &model.EvaluationModel{
		EvaluationRFQID:              rfq.RFQID,
		EvaluationTitle:              strings.TrimSpace(in.Title),
		EvaluationDescription:        in.Description,
		EvaluationType:               in.Type,
		EvaluationScoringMethod:      in.ScoringMethod,
		EvaluationMaxScore:           in.MaxScore,
		EvaluationPassingScore:       in.PassingScore,
		EvaluationCriteria:           datatypes.NewJSONType(in.Criteria),
		EvaluationIsBlind:            in.IsBlind,
		EvaluationAllowConsensus:     allowConsensus,
		EvaluationConsensusThreshold: threshold,
		EvaluationDeadline:           in.Deadline,
		EvaluationStatus:             model.EvaluationStatusDraft,
		EvaluationCreatedBy:          actorID,
	}

	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(eval).Error; err != nil {
			return err
		}
		for _, uid := range dedupeUUIDs(in.EvaluatorIDs) {
			ev := &model.EvaluationEvaluatorModel{
				EvaluationEvaluatorEvaluationID: eval.EvaluationID,
				EvaluationEvaluatorUserID:       uid,
				EvaluationEvaluatorStatus:       model.EvaluatorStatusActive,
				EvaluationEvaluatorInvitedAt:    time.Now(),
			}
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	log.Printf("[EvaluationService] created eval=%s rfq=%s method=%s evaluators=%d",
		eval.EvaluationID, eval.EvaluationRFQID, eval.EvaluationScoringMethod, len(in.EvaluatorIDs))

	for _, uid := range dedupeUUIDs(in.EvaluatorIDs) {
		notifsvc.Dispatch(s.Notifier, notifsvc.Event{
			Type:         notifsvc.EventEvaluatorAssigned,
			EvaluationID: eval.EvaluationID,
			RFQID:        eval.EvaluationRFQID,
			ActorID:      uid,
		})
	}
	return eval, nil
}

/* =========================================================
   UPDATE (draft only)
========================================================= */

type UpdateEvaluationInput struct {
	Title              *string
	Description        *string
	Type               *model.EvaluationType
	ScoringMethod      *model.ScoringMethod
	MaxScore           *float64
	PassingScore       *float64
	Criteria           *model.CriterionList
	IsBlind            *bool
	AllowConsensus     *bool
	ConsensusThreshold *int
	Deadline           *time.Time
}

func (s *EvaluationService) Update(ctx context.Context, actorID uuid.UUID, role string, evalID uuid.UUID, in UpdateEvaluationInput) (*model.EvaluationModel, error) {
	if !s.Authz.CanManage(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak mengubah evaluasi"}
	}

	var out *model.EvaluationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		if eval.EvaluationStatus != model.EvaluationStatusDraft {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "update"}
		}

		if in.Title != nil {
			eval.EvaluationTitle = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			eval.EvaluationDescription = in.Description
		}
		if in.Type != nil {
			eval.EvaluationType = *in.Type
		}
		if in.ScoringMethod != nil {
			eval.EvaluationScoringMethod = *in.ScoringMethod
		}
		if in.MaxScore != nil {
			eval.EvaluationMaxScore = *in.MaxScore
		}
		if in.PassingScore != nil {
			eval.EvaluationPassingScore = in.PassingScore
		}
		if in.Criteria != nil {
			eval.EvaluationCriteria = datatypes.NewJSONType(*in.Criteria)
		}
		if in.IsBlind != nil {
			eval.EvaluationIsBlind = *in.IsBlind
		}
		if in.AllowConsensus != nil {
			eval.EvaluationAllowConsensus = *in.AllowConsensus
		}
		if in.ConsensusThreshold != nil {
			eval.EvaluationConsensusThreshold = *in.ConsensusThreshold
		}
		if in.Deadline != nil {
			eval.EvaluationDeadline = *in.Deadline
		}

		evaluatorIDs, err := activeEvaluatorIDs(tx, evalID)
		if err != nil {
			return err
		}
		if err := validateEvaluationSemantics(
			eval.Criteria(), evaluatorIDs, eval.EvaluationScoringMethod,
			eval.EvaluationMaxScore, eval.EvaluationPassingScore,
			eval.EvaluationConsensusThreshold, eval.EvaluationDeadline,
		); err != nil {
			return err
		}

		eval.EvaluationVersion++
		if err := tx.Save(eval).Error; err != nil {
			return err
		}
		out = eval
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================================================
   START (draft → active, irreversible)
========================================================= */

func (s *EvaluationService) Start(ctx context.Context, actorID uuid.UUID, role string, evalID uuid.UUID) (*model.EvaluationModel, error) {
	if !s.Authz.CanManage(role) {
		return nil, &AuthorizationError{Reason: "role tidak berhak memulai evaluasi"}
	}

	eval, err := loadEvaluation(s.DB.WithContext(ctx), evalID)
	if err != nil {
		return nil, err
	}
	if eval.EvaluationStatus != model.EvaluationStatusDraft {
		return nil, &StateConflictError{Current: eval.EvaluationStatus, Attempted: "start"}
	}

	count, err := s.RFQ.CountActiveSubmissions(ctx, eval.EvaluationRFQID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &ValidationError{Field: "submissions", Reason: "belum ada submission pada RFQ, evaluasi tidak bisa dimulai"}
	}

	res := s.DB.WithContext(ctx).
		Model(&model.EvaluationModel{}).
		Where("evaluation_id = ? AND evaluation_status = ?", evalID, model.EvaluationStatusDraft).
		Updates(map[string]any{
			"evaluation_status":           model.EvaluationStatusActive,
			"evaluation_submission_count": count,
			"evaluation_version":          gorm.Expr("evaluation_version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// kalah balapan: start sudah terjadi (atau cancel)
		cur, err := loadEvaluation(s.DB.WithContext(ctx), evalID)
		if err != nil {
			return nil, err
		}
		return nil, &StateConflictError{Current: cur.EvaluationStatus, Attempted: "start"}
	}

	log.Printf("[EvaluationService] started eval=%s submissions=%d", evalID, count)
	notifsvc.Dispatch(s.Notifier, notifsvc.Event{
		Type:         notifsvc.EventEvaluationStarted,
		EvaluationID: evalID,
		RFQID:        eval.EvaluationRFQID,
		ActorID:      actorID,
		Payload:      map[string]any{"submission_count": count},
	})

	return loadEvaluation(s.DB.WithContext(ctx), evalID)
}

/* =========================================================
   CANCEL (draft → cancelled, satu-satunya escape)
========================================================= */

func (s *EvaluationService) Cancel(ctx context.Context, actorID uuid.UUID, role string, evalID uuid.UUID, reason string) error {
	if !s.Authz.CanManage(role) {
		return &AuthorizationError{Reason: "role tidak berhak membatalkan evaluasi"}
	}

	res := s.DB.WithContext(ctx).
		Model(&model.EvaluationModel{}).
		Where("evaluation_id = ? AND evaluation_status = ?", evalID, model.EvaluationStatusDraft).
		Updates(map[string]any{
			"evaluation_status":        model.EvaluationStatusCancelled,
			"evaluation_cancel_reason": strings.TrimSpace(reason),
			"evaluation_version":       gorm.Expr("evaluation_version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		cur, err := loadEvaluation(s.DB.WithContext(ctx), evalID)
		if err != nil {
			return err
		}
		return &StateConflictError{Current: cur.EvaluationStatus, Attempted: "cancel"}
	}

	notifsvc.Dispatch(s.Notifier, notifsvc.Event{
		Type:         notifsvc.EventEvaluationCancelled,
		EvaluationID: evalID,
		ActorID:      actorID,
		Payload:      map[string]any{"reason": reason},
	})
	return nil
}

/* =========================================================
   EVALUATOR MEMBERSHIP
   Boleh berubah selama draft atau active; completion tracker
   selalu menghitung ulang terhadap keanggotaan terkini.
========================================================= */

func (s *EvaluationService) AddEvaluator(ctx context.Context, actorID uuid.UUID, role string, evalID, userID uuid.UUID) error {
	if !s.Authz.CanManage(role) {
		return &AuthorizationError{Reason: "role tidak berhak mengubah evaluator"}
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEvaluation(tx, evalID); err != nil {
			return err
		}
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		if eval.EvaluationStatus != model.EvaluationStatusDraft && eval.EvaluationStatus != model.EvaluationStatusActive {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "add_evaluator"}
		}

		var existing model.EvaluationEvaluatorModel
		err = tx.Where("evaluation_evaluator_evaluation_id = ? AND evaluation_evaluator_user_id = ?", evalID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			// re-activate anggota yang pernah di-remove
			existing.EvaluationEvaluatorStatus = model.EvaluatorStatusActive
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			ev := &model.EvaluationEvaluatorModel{
				EvaluationEvaluatorEvaluationID: evalID,
				EvaluationEvaluatorUserID:       userID,
				EvaluationEvaluatorStatus:       model.EvaluatorStatusActive,
				EvaluationEvaluatorInvitedAt:    time.Now(),
			}
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
		default:
			return err
		}

		notifsvc.Dispatch(s.Notifier, notifsvc.Event{
			Type:         notifsvc.EventEvaluatorAssigned,
			EvaluationID: evalID,
			ActorID:      userID,
		})
		return nil
	})
}

func (s *EvaluationService) RemoveEvaluator(ctx context.Context, actorID uuid.UUID, role string, evalID, userID uuid.UUID) error {
	if !s.Authz.CanManage(role) {
		return &AuthorizationError{Reason: "role tidak berhak mengubah evaluator"}
	}
	var transitioned bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEvaluation(tx, evalID); err != nil {
			return err
		}
		eval, err := loadEvaluation(tx, evalID)
		if err != nil {
			return err
		}
		if eval.EvaluationStatus != model.EvaluationStatusDraft && eval.EvaluationStatus != model.EvaluationStatusActive {
			return &StateConflictError{Current: eval.EvaluationStatus, Attempted: "remove_evaluator"}
		}

		res := tx.Model(&model.EvaluationEvaluatorModel{}).
			Where("evaluation_evaluator_evaluation_id = ? AND evaluation_evaluator_user_id = ? AND evaluation_evaluator_status = ?",
				evalID, userID, model.EvaluatorStatusActive).
			Update("evaluation_evaluator_status", model.EvaluatorStatusRemoved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: "evaluator", ID: userID}
		}

		// removal bisa membuat semua evaluator tersisa komplet
		transitioned, err = s.advanceIfComplete(tx, eval)
		return err
	})
	if err != nil {
		return err
	}
	if transitioned {
		notifsvc.Dispatch(s.Notifier, notifsvc.Event{
			Type:         notifsvc.EventReadyForConsensus,
			EvaluationID: evalID,
		})
	}
	return nil
}

/* =========================================================
   SHARED LOADERS & VALIDATION
========================================================= */

// lockEvaluation menyerialisasi transaksi yang membaca kelengkapan skor
// lintas baris (globallyComplete membaca banyak baris score/evaluator,
// CAS status saja tidak cukup). UPDATE ini mengambil row lock pada baris
// evaluasi, jadi dua penulis konkuren pada evaluasi yang sama antri dan
// pembaca kedua melihat hasil commit pertama. Portabel postgres/sqlite.
func lockEvaluation(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.EvaluationModel{}).
		Where("evaluation_id = ?", id).
		Update("evaluation_updated_at", time.Now()).Error
}

func loadEvaluation(tx *gorm.DB, id uuid.UUID) (*model.EvaluationModel, error) {
	var eval model.EvaluationModel
	if err := tx.First(&eval, "evaluation_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "evaluation", ID: id}
		}
		return nil, err
	}
	return &eval, nil
}

func activeEvaluators(tx *gorm.DB, evalID uuid.UUID) ([]model.EvaluationEvaluatorModel, error) {
	var evs []model.EvaluationEvaluatorModel
	if err := tx.
		Where("evaluation_evaluator_evaluation_id = ? AND evaluation_evaluator_status = ?", evalID, model.EvaluatorStatusActive).
		Order("evaluation_evaluator_invited_at ASC").
		Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

func activeEvaluatorIDs(tx *gorm.DB, evalID uuid.UUID) ([]uuid.UUID, error) {
	evs, err := activeEvaluators(tx, evalID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(evs))
	for _, e := range evs {
		ids = append(ids, e.EvaluationEvaluatorUserID)
	}
	return ids, nil
}

func validateEvaluationSemantics(
	criteria model.CriterionList,
	evaluatorIDs []uuid.UUID,
	method model.ScoringMethod,
	maxScore float64,
	passingScore *float64,
	threshold int,
	deadline time.Time,
) error {
	if len(criteria) == 0 {
		return &ValidationError{Field: "criteria", Reason: "minimal satu kriteria"}
	}
	seen := map[string]bool{}
	for i, cr := range criteria {
		if strings.TrimSpace(cr.CriterionID) == "" {
			return &ValidationError{Field: fmt.Sprintf("criteria[%d].id", i), Reason: "id kriteria wajib diisi"}
		}
		if seen[cr.CriterionID] {
			return &ValidationError{Field: cr.CriterionID, Reason: "id kriteria duplikat"}
		}
		seen[cr.CriterionID] = true
		if cr.Weight < 0 {
			return &ValidationError{Field: cr.CriterionID, Reason: "bobot kriteria tidak boleh negatif"}
		}
		if cr.MaxScore != nil && *cr.MaxScore <= 0 {
			return &ValidationError{Field: cr.CriterionID, Reason: "max_score kriteria harus > 0"}
		}
	}
	if len(dedupeUUIDs(evaluatorIDs)) == 0 {
		return &ValidationError{Field: "evaluators", Reason: "minimal satu evaluator"}
	}
	if maxScore <= 0 {
		return &ValidationError{Field: "max_score", Reason: "max_score harus > 0"}
	}
	if passingScore != nil && *passingScore > maxScore {
		return &ValidationError{Field: "passing_score", Reason: "passing_score tidak boleh melebihi max_score"}
	}
	if threshold < 50 || threshold > 100 {
		return &ValidationError{Field: "consensus_threshold", Reason: "threshold harus di rentang 50..100"}
	}
	if !deadline.After(time.Now()) {
		return &ValidationError{Field: "deadline", Reason: "deadline harus di masa depan"}
	}
	return nil
}

func dedupeUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
