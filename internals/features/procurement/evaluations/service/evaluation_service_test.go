// file: internals/features/procurement/evaluations/service/evaluation_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procureku_backend/internals/constants"
	model "procureku_backend/internals/features/procurement/evaluations/model"
	rfqmodel "procureku_backend/internals/features/procurement/rfqs/model"
)

func TestCreateEvaluation(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()

	t.Run("sukses membuat draft dengan evaluator", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		e1, e2 := uuid.New(), uuid.New()
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, e1, e2))

		assert.Equal(t, model.EvaluationStatusDraft, eval.EvaluationStatus)
		assert.True(t, eval.EvaluationAllowConsensus)
		assert.Equal(t, 75, eval.EvaluationConsensusThreshold)

		var count int64
		require.NoError(t, db.Model(&model.EvaluationEvaluatorModel{}).
			Where("evaluation_evaluator_evaluation_id = ?", eval.EvaluationID).
			Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("evaluator duplikat cukup satu baris", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		e1 := uuid.New()
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, e1, e1, e1))

		var count int64
		require.NoError(t, db.Model(&model.EvaluationEvaluatorModel{}).
			Where("evaluation_evaluator_evaluation_id = ?", eval.EvaluationID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rfq belum closed ditolak", func(t *testing.T) {
		rfq := seedRFQ(t, db, "published")
		_, err := s.Create(ctx, uuid.New(), constants.RoleAdmin, baseCreateInput(rfq.RFQID, uuid.New()))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "rfq_id", ve.Field)
	})

	t.Run("rfq tidak ada", func(t *testing.T) {
		_, err := s.Create(ctx, uuid.New(), constants.RoleAdmin, baseCreateInput(uuid.New(), uuid.New()))
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "rfq", nf.Resource)
	})

	t.Run("role evaluator tidak boleh membuat", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		_, err := s.Create(ctx, uuid.New(), constants.RoleEvaluator, baseCreateInput(rfq.RFQID, uuid.New()))
		var ae *AuthorizationError
		assert.ErrorAs(t, err, &ae)
	})

	t.Run("validasi semantik", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)

		cases := []struct {
			name   string
			mutate func(*CreateEvaluationInput)
			field  string
		}{
			{"tanpa kriteria", func(in *CreateEvaluationInput) { in.Criteria = nil }, "criteria"},
			{"id kriteria duplikat", func(in *CreateEvaluationInput) {
				in.Criteria = model.CriterionList{{CriterionID: "x", Weight: 1}, {CriterionID: "x", Weight: 1}}
			}, "x"},
			{"bobot negatif", func(in *CreateEvaluationInput) {
				in.Criteria = model.CriterionList{{CriterionID: "x", Weight: -1}}
			}, "x"},
			{"tanpa evaluator", func(in *CreateEvaluationInput) { in.EvaluatorIDs = nil }, "evaluators"},
			{"max_score nol", func(in *CreateEvaluationInput) { in.MaxScore = 0 }, "max_score"},
			{"passing di atas max", func(in *CreateEvaluationInput) { in.PassingScore = fptr(11) }, "passing_score"},
			{"threshold di bawah 50", func(in *CreateEvaluationInput) { in.ConsensusThreshold = iptr(49) }, "consensus_threshold"},
			{"threshold di atas 100", func(in *CreateEvaluationInput) { in.ConsensusThreshold = iptr(101) }, "consensus_threshold"},
			{"deadline lampau", func(in *CreateEvaluationInput) { in.Deadline = time.Now().Add(-time.Hour) }, "deadline"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := baseCreateInput(rfq.RFQID, uuid.New())
				tc.mutate(&in)
				_, err := s.Create(ctx, uuid.New(), constants.RoleAdmin, in)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tc.field, ve.Field)
			})
		}
	})
}

func TestUpdateEvaluation(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()

	rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
	seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
	eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))

	t.Run("update draft menaikkan versi", func(t *testing.T) {
		before := eval.EvaluationVersion
		updated, err := s.Update(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, UpdateEvaluationInput{
			Title: sptr("Evaluasi Revisi"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Evaluasi Revisi", updated.EvaluationTitle)
		assert.Equal(t, before+1, updated.EvaluationVersion)
	})

	t.Run("update dengan kriteria invalid ditolak", func(t *testing.T) {
		_, err := s.Update(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, UpdateEvaluationInput{
			Criteria: &model.CriterionList{},
		})
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("setelah start tidak bisa diubah", func(t *testing.T) {
		mustStart(t, s, eval.EvaluationID)
		_, err := s.Update(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, UpdateEvaluationInput{
			Title: sptr("Terlambat"),
		})
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusActive, sc.Current)
	})
}

func TestStartEvaluation(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()

	t.Run("tanpa submission tidak bisa mulai", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))
		_, err := s.Start(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "submissions", ve.Field)
	})

	t.Run("start merekam jumlah submission", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
		seedSubmission(t, db, rfq.RFQID, "PT Jaya", 900, time.Now())
		// submission withdrawn tidak ikut dihitung
		withdrawn := seedSubmission(t, db, rfq.RFQID, "PT Batal", 800, time.Now())
		require.NoError(t, db.Model(withdrawn).
			Update("submission_status", "withdrawn").Error)

		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))
		started := mustStart(t, s, eval.EvaluationID)
		assert.Equal(t, 2, started.EvaluationSubmissionCount)
	})

	t.Run("start kedua konflik", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))
		mustStart(t, s, eval.EvaluationID)

		_, err := s.Start(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID)
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusActive, sc.Current)
	})
}

func TestCancelEvaluation(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()

	t.Run("cancel draft dengan alasan", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))

		require.NoError(t, s.Cancel(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, "RFQ dibatalkan owner"))
		cur := reloadEvaluation(t, db, eval.EvaluationID)
		assert.Equal(t, model.EvaluationStatusCancelled, cur.EvaluationStatus)
		require.NotNil(t, cur.EvaluationCancelReason)
		assert.Equal(t, "RFQ dibatalkan owner", *cur.EvaluationCancelReason)
	})

	t.Run("setelah start tidak bisa cancel", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))
		mustStart(t, s, eval.EvaluationID)

		err := s.Cancel(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, "terlambat")
		var sc *StateConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, model.EvaluationStatusActive, sc.Current)
	})

	t.Run("cancel dua kali konflik", func(t *testing.T) {
		rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
		eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, uuid.New()))
		require.NoError(t, s.Cancel(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, "pertama"))

		err := s.Cancel(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, "kedua")
		var sc *StateConflictError
		assert.ErrorAs(t, err, &sc)
	})
}

func TestEvaluatorMembership(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(db, nil)
	ctx := context.Background()

	rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
	seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
	e1 := uuid.New()
	eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, e1))
	mustStart(t, s, eval.EvaluationID)

	t.Run("tambah evaluator saat active", func(t *testing.T) {
		e2 := uuid.New()
		require.NoError(t, s.AddEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, e2))

		ids, err := activeEvaluatorIDs(db, eval.EvaluationID)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("remove lalu add kembali me-reactivate baris lama", func(t *testing.T) {
		e3 := uuid.New()
		require.NoError(t, s.AddEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, e3))
		require.NoError(t, s.RemoveEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, e3))
		require.NoError(t, s.AddEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, e3))

		var count int64
		require.NoError(t, db.Model(&model.EvaluationEvaluatorModel{}).
			Where("evaluation_evaluator_evaluation_id = ? AND evaluation_evaluator_user_id = ?", eval.EvaluationID, e3).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("remove evaluator yang tidak ada", func(t *testing.T) {
		err := s.RemoveEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, uuid.New())
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

// Removal anggota terakhir yang belum menilai dapat membuat sisanya
// komplet: evaluasi harus langsung maju ke consensus.
func TestRemoveEvaluatorAdvancesToConsensus(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	s := newTestService(db, notifier)
	ctx := context.Background()

	rfq := seedRFQ(t, db, rfqmodel.RFQStatusClosed)
	sub := seedSubmission(t, db, rfq.RFQID, "PT Maju", 1000, time.Now())
	e1, e2 := uuid.New(), uuid.New()
	eval := mustCreateDraft(t, s, baseCreateInput(rfq.RFQID, e1, e2))
	mustStart(t, s, eval.EvaluationID)

	mustSubmitScore(t, s, eval.EvaluationID, e1, sub.SubmissionID, map[string]float64{"quality": 8, "price": 6})
	cur := reloadEvaluation(t, db, eval.EvaluationID)
	require.Equal(t, model.EvaluationStatusActive, cur.EvaluationStatus)

	require.NoError(t, s.RemoveEvaluator(ctx, uuid.New(), constants.RoleAdmin, eval.EvaluationID, e2))

	cur = reloadEvaluation(t, db, eval.EvaluationID)
	assert.Equal(t, model.EvaluationStatusConsensus, cur.EvaluationStatus)
	assert.True(t, cur.EvaluationConsensusNotified)
	assert.Eventually(t, func() bool {
		return notifier.count("ready_for_consensus") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func iptr(v int) *int { return &v }

