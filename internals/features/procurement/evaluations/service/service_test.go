// file: internals/features/procurement/evaluations/service/service_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
	reportsvc "procureku_backend/internals/features/procurement/reports/service"
	rfqmodel "procureku_backend/internals/features/procurement/rfqs/model"
	rfqservice "procureku_backend/internals/features/procurement/rfqs/service"

	"procureku_backend/internals/constants"
)

/* =========================================================
   Harness: sqlite in-memory per test, pool 1 koneksi supaya
   seluruh query melihat database yang sama.
========================================================= */

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&rfqmodel.RFQModel{},
		&rfqmodel.SubmissionModel{},
		&model.EvaluationModel{},
		&model.EvaluationEvaluatorModel{},
		&model.EvaluationScoreModel{},
		&model.EvaluationConsensusModel{},
		&model.EvaluationRecommendationModel{},
		&model.EvaluationDisputeModel{},
	))
	return db
}

// recordingNotifier menangkap event untuk diassert; thread-safe karena
// Dispatch memanggil dari goroutine terpisah.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifsvc.Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev notifsvc.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) count(tp notifsvc.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == tp {
			n++
		}
	}
	return n
}

func newTestService(db *gorm.DB, notifier notifsvc.Notifier) *EvaluationService {
	if notifier == nil {
		notifier = notifsvc.LogNotifier{}
	}
	return NewEvaluationService(
		db,
		rfqservice.NewRFQService(db),
		notifier,
		reportsvc.NewAsyncGenerator(func(uuid.UUID) {}),
		nil,
	)
}

/* =========================================================
   Fixtures
========================================================= */

func seedRFQ(t *testing.T, db *gorm.DB, status rfqmodel.RFQStatus) *rfqmodel.RFQModel {
	t.Helper()
	rfq := &rfqmodel.RFQModel{
		RFQTitle:           "Pengadaan Laptop Kantor",
		RFQReferenceNumber: fmt.Sprintf("RFQ-%s", uuid.New().String()[:8]),
		RFQOwnerUserID:     uuid.New(),
		RFQStatus:          status,
	}
	require.NoError(t, db.Create(rfq).Error)
	return rfq
}

func seedSubmission(t *testing.T, db *gorm.DB, rfqID uuid.UUID, supplier string, price float64, submittedAt time.Time) *rfqmodel.SubmissionModel {
	t.Helper()
	sub := &rfqmodel.SubmissionModel{
		SubmissionRFQID:        rfqID,
		SubmissionSupplierID:   uuid.New(),
		SubmissionSupplierName: supplier,
		SubmissionTotalPrice:   price,
		SubmissionCurrency:     "IDR",
		SubmissionStatus:       rfqmodel.SubmissionStatusSubmitted,
		SubmissionSubmittedAt:  submittedAt,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func weightedCriteria() model.CriterionList {
	return model.CriterionList{
		{CriterionID: "quality", CriterionName: "Kualitas", Weight: 60, Required: true},
		{CriterionID: "price", CriterionName: "Harga", Weight: 40, Required: true},
	}
}

func baseCreateInput(rfqID uuid.UUID, evaluators ...uuid.UUID) CreateEvaluationInput {
	return CreateEvaluationInput{
		RFQID:         rfqID,
		Title:         "Evaluasi Teknis Laptop",
		Type:          model.EvaluationTypeTechnical,
		ScoringMethod: model.ScoringMethodWeighted,
		MaxScore:      10,
		Criteria:      weightedCriteria(),
		EvaluatorIDs:  evaluators,
		Deadline:      time.Now().Add(48 * time.Hour),
	}
}

func mustCreateDraft(t *testing.T, s *EvaluationService, in CreateEvaluationInput) *model.EvaluationModel {
	t.Helper()
	eval, err := s.Create(context.Background(), uuid.New(), constants.RoleAdmin, in)
	require.NoError(t, err)
	require.Equal(t, model.EvaluationStatusDraft, eval.EvaluationStatus)
	return eval
}

func mustStart(t *testing.T, s *EvaluationService, evalID uuid.UUID) *model.EvaluationModel {
	t.Helper()
	eval, err := s.Start(context.Background(), uuid.New(), constants.RoleAdmin, evalID)
	require.NoError(t, err)
	require.Equal(t, model.EvaluationStatusActive, eval.EvaluationStatus)
	return eval
}

func reloadEvaluation(t *testing.T, db *gorm.DB, id uuid.UUID) *model.EvaluationModel {
	t.Helper()
	var eval model.EvaluationModel
	require.NoError(t, db.First(&eval, "evaluation_id = ?", id).Error)
	return &eval
}

func mustSubmitScore(t *testing.T, s *EvaluationService, evalID, evaluatorID, submissionID uuid.UUID, scores map[string]float64) *model.EvaluationScoreModel {
	t.Helper()
	sc, err := s.SubmitScore(context.Background(), evaluatorID, constants.RoleEvaluator, evalID, SubmitScoreInput{
		SubmissionID:    submissionID,
		CriterionScores: scores,
	})
	require.NoError(t, err)
	return sc
}
