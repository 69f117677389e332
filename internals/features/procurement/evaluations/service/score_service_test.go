// file: internals/features/procurement/evaluations/service/score_service_test.go
package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"procureku_backend/internals/constants"
	model "procureku_backend/internals/features/procurement/evaluations/model"
	rfqmodel "procureku_backend/internals/features/procurement/rfqs/model"
)

// activeFixture: evaluasi weighted yang sudah berjalan, 2 evaluator × 2 submission.
type activeFixture struct {
	eval *model.EvaluationModel
	subs []*rfqmodel.SubmissionModel
	e1   uuid.UUID
	e2   uuid.UUID
}

func newActiveFixture(t *testing.T, db *gorm.DB, s *EvaluationService) *activeFixture {
	t.Helper()
	rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
	subA := seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now().Add(-2*time.Hour))
	subB := seedSubmission(t, db, rfq.RFQID, "PT Jaya", 900, time.Now().Add(-time.Hour))

	e1, e2 := uuid.New(), uuid.New()
	eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, e1, e2))
	mustStart(t, s, eval.EvaluationID)

	return &activeFixture{
		eval: reloadEvaluation(t, db, eval.EvaluationID),
		subs: []*rfqmodel.SubmissionModel{subA, subB},
		e1:   e1,
		e2:   e2,
	}
}

func TestSubmitScoreGuards(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()
	fx := newActiveFixture(t, db, s)

	okScores := map[string]float64{"quality": 8, "price": 6}

	t.Run("bukan evaluator aktif", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, uuid.New(), constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: okScores,
		})
		var ae *AuthorizationError
		assert.ErrorAs(t, err, &ae)
	})

	t.Run("submission tidak dikenal", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    uuid.New(),
			CriterionScores: okScores,
		})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "submission", nf.Resource)
	})

	t.Run("submission milik RFQ lain", func(t *testing.T) {
		other := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		foreign := seedSubmission(t, db, other.RFQID, "PT Asing", 500, time.Now())
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    foreign.SubmissionID,
			CriterionScores: okScores,
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "submission_id", ve.Field)
	})

	t.Run("kriteria tidak dikenal", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: map[string]float64{"quality": 8, "price": 6, "bogus": 5},
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "bogus", ve.Field)
	})

	t.Run("skor di luar rentang", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: map[string]float64{"quality": 11, "price": 6},
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quality", ve.Field)
	})

	t.Run("kriteria wajib belum dinilai", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: map[string]float64{"quality": 8},
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "price", ve.Field)
	})

	t.Run("overall kiriman client harus konsisten", func(t *testing.T) {
		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: okScores,
			OverallScore:    fptr(9.9), // hitung ulang = 7.2
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "overall_score", ve.Field)
	})

	t.Run("deadline lewat ditolak sinkron", func(t *testing.T) {
		require.NoError(t, db.Model(&model.EvaluationModel{}).
			Where("evaluation_id = ?", fx.eval.EvaluationID).
			Update("evaluation_deadline", time.Now().Add(-time.Minute)).Error)
		t.Cleanup(func() {
			require.NoError(t, db.Model(&model.EvaluationModel{}).
				Where("evaluation_id = ?", fx.eval.EvaluationID).
				Update("evaluation_deadline", time.Now().Add(48*time.Hour)).Error)
		})

		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: okScores,
		})
		var de *DeadlinePassedError
		assert.ErrorAs(t, err, &de)
	})

	t.Run("scoring di luar status active", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		seedSubmission(t, db, rfq.RFQID, "PT Draf", 100, time.Now())
		draft := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, fx.e1))

		_, err := s.SubmitScore(ctx, fx.e1, constants.RoleEvaluator, draft.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: okScores,
		})
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusDraft, sc.Current)
	})
}

func TestSubmitScoreSupersede(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	fx := newActiveFixture(t, db, s)

	first := mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID, map[string]float64{"quality": 8, "price": 6})
	assert.InDelta(t, 7.2, first.EvaluationScoreOverall, 1e-9)

	// submit ulang: supersede, bukan baris kedua
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID, map[string]float64{"quality": 9, "price": 9})

	var rows []model.EvaluationScoreModel
	require.NoError(t, db.
		Where("evaluation_score_evaluation_id = ? AND evaluation_score_evaluator_id = ? AND evaluation_score_submission_id = ?",
			fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID).
		Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.InDelta(t, 9, rows[0].EvaluationScoreOverall, 1e-9)
	assert.Equal(t, 2, rows[0].EvaluationScoreVersion)
	assert.Equal(t, map[string]float64{"quality": 9, "price": 9}, rows[0].EvaluationScoreCriterionScores.Data())
}

func TestCompletionAdvancesToConsensus(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	s := newTestService(db, notifier)
	fx := newActiveFixture(t, db, s)

	scores := map[string]float64{"quality": 8, "price": 6}

	// e1 selesai semua submission → evaluator_completed, belum consensus
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID, scores)
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[1].SubmissionID, scores)

	cur := reloadEvaluation(t, db, fx.eval.EvaluationID)
	require.Equal(t, model.EvaluationStatusActive, cur.EvaluationStatus)
	assert.Eventually(t, func() bool {
		return notifier.count("evaluator_completed") == 1
	}, 2*time.Second, 10*time.Millisecond)

	// e2 menyusul → komplet global, transisi otomatis
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e2, fx.subs[0].SubmissionID, scores)
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e2, fx.subs[1].SubmissionID, scores)

	cur = reloadEvaluation(t, db, fx.eval.EvaluationID)
	assert.Equal(t, model.EvaluationStatusConsensus, cur.EvaluationStatus)
	assert.True(t, cur.EvaluationConsensusNotified)

	assert.Eventually(t, func() bool {
		return notifier.count("ready_for_consensus") == 1
	}, 2*time.Second, 10*time.Millisecond)
	// dan tidak pernah lebih dari sekali
	assert.Never(t, func() bool {
		return notifier.count("ready_for_consensus") > 1
	}, 300*time.Millisecond, 50*time.Millisecond)
}

// Dua skor pamungkas yang masuk bersamaan: hanya satu yang boleh
// memenangkan CAS active → consensus.
func TestConcurrentFinalScoresAdvanceOnce(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	s := newTestService(db, notifier)
	fx := newActiveFixture(t, db, s)

	scores := map[string]float64{"quality": 8, "price": 6}
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID, scores)
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e2, fx.subs[0].SubmissionID, scores)
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[1].SubmissionID, scores)

	// tinggal satu skor; dua submit identik balapan (idempoten via upsert)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.SubmitScore(context.Background(), fx.e2, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
				SubmissionID:    fx.subs[1].SubmissionID,
				CriterionScores: scores,
			})
		}(i)
	}
	wg.Wait()

	// minimal satu menang; yang kalah boleh sukses (upsert idempoten) atau
	// mendarat setelah transisi dan ditolak state guard
	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusConsensus, sc.Current)
	}
	require.GreaterOrEqual(t, wins, 1)

	cur := reloadEvaluation(t, db, fx.eval.EvaluationID)
	assert.Equal(t, model.EvaluationStatusConsensus, cur.EvaluationStatus)

	assert.Eventually(t, func() bool {
		return notifier.count("ready_for_consensus") >= 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool {
		return notifier.count("ready_for_consensus") > 1
	}, 300*time.Millisecond, 50*time.Millisecond)
}

// Dua gap terakhir ada di pasangan (evaluator, submission) yang BERBEDA,
// jadi unique index skor tidak menyerialisasi mereka. Tanpa lock per
// evaluasi keduanya bisa membaca "belum komplet" dan transisi tidak
// tembak sama sekali; di sini harus tembak tepat sekali.
func TestConcurrentDisjointFinalScoresAdvanceOnce(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	s := newTestService(db, notifier)
	fx := newActiveFixture(t, db, s)

	scores := map[string]float64{"quality": 8, "price": 6}
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e1, fx.subs[0].SubmissionID, scores)
	mustSubmitScore(t, s, fx.eval.EvaluationID, fx.e2, fx.subs[1].SubmissionID, scores)

	// gap tersisa: e1×sub[1] dan e2×sub[0], disubmit konkuren
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.SubmitScore(context.Background(), fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[1].SubmissionID,
			CriterionScores: scores,
		})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.SubmitScore(context.Background(), fx.e2, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
			SubmissionID:    fx.subs[0].SubmissionID,
			CriterionScores: scores,
		})
	}()
	wg.Wait()

	// yang mendarat kedua boleh ditolak state guard kalau transisi sudah
	// terjadi, tapi transisinya sendiri tidak boleh zero-fire
	for _, err := range errs {
		if err == nil {
			continue
		}
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusConsensus, sc.Current)
	}

	cur := reloadEvaluation(t, db, fx.eval.EvaluationID)
	assert.Equal(t, model.EvaluationStatusConsensus, cur.EvaluationStatus)
	assert.True(t, cur.EvaluationConsensusNotified)

	assert.Eventually(t, func() bool {
		return notifier.count("ready_for_consensus") >= 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool {
		return notifier.count("ready_for_consensus") > 1
	}, 300*time.Millisecond, 50*time.Millisecond)
}

func TestSubmitScoreAfterConsensusWindowClosed(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	fx := newActiveFixture(t, db, s)

	scores := map[string]float64{"quality": 8, "price": 6}
	for _, e := range []uuid.UUID{fx.e1, fx.e2} {
		for _, sub := range fx.subs {
			mustSubmitScore(t, s, fx.eval.EvaluationID, e, sub.SubmissionID, scores)
		}
	}
	require.Equal(t, model.EvaluationStatusConsensus, reloadEvaluation(t, db, fx.eval.EvaluationID).EvaluationStatus)

	_, err := s.SubmitScore(context.Background(), fx.e1, constants.RoleEvaluator, fx.eval.EvaluationID, SubmitScoreInput{
		SubmissionID:    fx.subs[0].SubmissionID,
		CriterionScores: scores,
	})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, model.EvaluationStatusConsensus, sc.Current)
}

func TestSubmitScorePassFailOnlyBinary(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)

	rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
	sub := seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
	e1 := uuid.New()

	in := baseCreateInput(rfq.RFQID, e1)
	in.ScoringMethod = model.ScoringMethodPassFail
	in.MaxScore = 100
	in.Criteria = model.CriterionList{
		{CriterionID: "legal", Required: true},
		{CriterionID: "tax", Required: true},
	}
	eval := mustCreateDraft(t, s, in)
	mustStart(t, s, eval.EvaluationID)

	_, err := s.SubmitScore(context.Background(), e1, constants.RoleEvaluator, eval.EvaluationID, SubmitScoreInput{
		SubmissionID:    sub.SubmissionID,
		CriterionScores: map[string]float64{"legal": 1, "tax": 0.5},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tax", ve.Field)

	sc := mustSubmitScore(t, s, eval.EvaluationID, e1, sub.SubmissionID, map[string]float64{"legal": 1, "tax": 1})
	assert.InDelta(t, 100, sc.EvaluationScoreOverall, 1e-9)
}
