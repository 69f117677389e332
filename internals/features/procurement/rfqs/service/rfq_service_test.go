// file: internals/features/procurement/rfqs/service/rfq_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	model "procureku_backend/internals/features/procurement/rfqs/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.RFQModel{}, &model.SubmissionModel{}))
	return db
}

func TestActiveSubmissions(t *testing.T) {
	db := newTestDB(t)
	s := NewRFQService(db)
	ctx := context.Background()

	rfq := &model.RFQModel{
		RFQTitle:           "Pengadaan ATK",
		RFQReferenceNumber: "RFQ-ATK-001",
		RFQOwnerUserID:     uuid.New(),
		RFQStatus:          model.RFQStatusClosed,
	}
	require.NoError(t, db.Create(rfq).Error)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	mk := func(name string, at time.Time, status model.SubmissionStatus) {
		require.NoError(t, db.Create(&model.SubmissionModel{
			SubmissionRFQID:        rfq.RFQID,
			SubmissionSupplierID:   uuid.New(),
			SubmissionSupplierName: name,
			SubmissionTotalPrice:   100,
			SubmissionCurrency:     "IDR",
			SubmissionStatus:       status,
			SubmissionSubmittedAt:  at,
		}).Error)
	}
	mk("PT Kedua", base.Add(time.Hour), model.SubmissionStatusSubmitted)
	mk("PT Pertama", base, model.SubmissionStatusSubmitted)
	mk("PT Mundur", base.Add(2*time.Hour), model.SubmissionStatusWithdrawn)

	t.Run("withdrawn tidak ikut dan urut submitted_at", func(t *testing.T) {
		subs, err := s.ListActiveSubmissions(ctx, rfq.RFQID)
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "PT Pertama", subs[0].SubmissionSupplierName)
		assert.Equal(t, "PT Kedua", subs[1].SubmissionSupplierName)
	})

	t.Run("count hanya yang aktif", func(t *testing.T) {
		n, err := s.CountActiveSubmissions(ctx, rfq.RFQID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("rfq tanpa submission", func(t *testing.T) {
		n, err := s.CountActiveSubmissions(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRFQStatusClosedForSubmissions(t *testing.T) {
	assert.True(t, model.RFQStatusClosed.ClosedForSubmissions())
	assert.True(t, model.RFQStatusAwarded.ClosedForSubmissions())
	assert.False(t, model.RFQStatusDraft.ClosedForSubmissions())
	assert.False(t, model.RFQStatusPublished.ClosedForSubmissions())
	assert.False(t, model.RFQStatusCancelled.ClosedForSubmissions())
}
