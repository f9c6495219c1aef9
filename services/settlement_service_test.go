package services

import (
	"testing"
	"time"

	"github.com/Hramos93/wholabank/models"
	"github.com/stretchr/testify/require"
)

func TestSweepStalePending(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db, newTestConfig(t))

	stale := &models.Transaction{
		Kind:       models.TransactionKindMerchantPayment,
		Amount:     5000,
		Reference:  "tx-stale",
		IssuerBank: "0002",
		Status:     models.TransactionStatusPending,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(stale).Error)

	fresh := &models.Transaction{
		Kind:       models.TransactionKindMerchantPayment,
		Amount:     3000,
		Reference:  "tx-fresh",
		IssuerBank: "0002",
		Status:     models.TransactionStatusPending,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(fresh).Error)

	require.NoError(t, svc.SweepStalePending())

	var closed models.Transaction
	require.NoError(t, db.First(&closed, stale.ID).Error)
	require.Equal(t, models.TransactionStatusRejected, closed.Status)
	require.Equal(t, CodeRoutingFailure, closed.ResponseCode)

	// Свежая PENDING-запись остается: ее закроет основной поток
	var pending models.Transaction
	require.NoError(t, db.First(&pending, fresh.ID).Error)
	require.Equal(t, models.TransactionStatusPending, pending.Status)
}

func TestSettlementReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db, newTestConfig(t))
	account, _ := seedCardholder(t, db, "00010001000012345678", "5000010000012345", 10000)

	sourceID := account.ID
	require.NoError(t, db.Create(&models.Transaction{
		Kind:         models.TransactionKindMerchantPayment,
		Amount:       5000,
		SourceID:     &sourceID,
		Reference:    "tx-ok",
		IssuerBank:   "0001",
		Status:       models.TransactionStatusApproved,
		ResponseCode: "201",
	}).Error)
	require.NoError(t, db.Create(&models.Transaction{
		Kind:         models.TransactionKindMerchantPayment,
		Amount:       9000,
		Reference:    "tx-bad",
		IssuerBank:   "0002",
		Status:       models.TransactionStatusRejected,
		ResponseCode: CodeRoutingFailure,
	}).Error)

	report, err := svc.SettlementReport(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.Contains(t, report, `<SettlementReport bank="0001"`)
	require.Contains(t, report, `reference="tx-ok"`)
	require.Contains(t, report, `reference="tx-bad"`)
	require.Contains(t, report, "<SourceAccount>00010001000012345678</SourceAccount>")
	// В итог попадают только одобренные операции
	require.Contains(t, report, "<ApprovedTotal>50.00</ApprovedTotal>")
	require.Contains(t, report, "<Count>2</Count>")
}
