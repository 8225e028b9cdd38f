package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/models"
)

func seedPendingOrder(repo *fakeRepo, number string) {
	repo.orders[number] = &models.Order{
		OrderNumber: number,
		Status:      models.OrderStatusPendingPayment,
		TotalAmount: 210,
	}
}

func TestReconcileConfirmsWithSessionRef(t *testing.T) {
	repo := newFakeRepo()
	seedPendingOrder(repo, "AP-20260828-0001")
	svc := NewConfirmationService(repo)

	result, err := svc.Reconcile(context.Background(), "AP-20260828-0001", "cs_test_1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, result.Status)
	assert.Empty(t, result.Note)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "cs_test_1", repo.orders["AP-20260828-0001"].PaymentSessionRef)
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	seedPendingOrder(repo, "AP-20260828-0001")
	svc := NewConfirmationService(repo)

	// A refreshed confirmation page reconciles the same order twice.
	first, err := svc.Reconcile(context.Background(), "AP-20260828-0001", "cs_test_1")
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), "AP-20260828-0001", "cs_test_1")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, models.OrderStatusConfirmed, repo.orders["AP-20260828-0001"].Status)
}

func TestReconcileWithoutSessionRefCarriesFallbackNote(t *testing.T) {
	repo := newFakeRepo()
	seedPendingOrder(repo, "AP-20260828-0002")
	svc := NewConfirmationService(repo)

	result, err := svc.Reconcile(context.Background(), "AP-20260828-0002", "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPendingPayment, result.Status)
	assert.Equal(t, FallbackNote, result.Note)
	assert.Zero(t, repo.updateCall)
}

func TestReconcileWithoutSessionRefConfirmedOrderHasNoNote(t *testing.T) {
	repo := newFakeRepo()
	repo.orders["AP-20260828-0003"] = &models.Order{
		OrderNumber: "AP-20260828-0003",
		Status:      models.OrderStatusConfirmed,
		TotalAmount: 210,
	}
	svc := NewConfirmationService(repo)

	result, err := svc.Reconcile(context.Background(), "AP-20260828-0003", "")
	require.NoError(t, err)
	assert.Empty(t, result.Note)
}

func TestReconcileUpdateFailureIsASoftWarning(t *testing.T) {
	repo := newFakeRepo()
	seedPendingOrder(repo, "AP-20260828-0004")
	repo.updateErr = errors.New("deadlock detected")
	svc := NewConfirmationService(repo)

	result, err := svc.Reconcile(context.Background(), "AP-20260828-0004", "cs_test_4")
	require.NoError(t, err)

	assert.Equal(t, FinalizingWarning, result.Warning)
	assert.Equal(t, models.OrderStatusPendingPayment, result.Status)
}

func TestReconcileUnknownOrder(t *testing.T) {
	svc := NewConfirmationService(newFakeRepo())

	_, err := svc.Reconcile(context.Background(), "AP-20260828-9999", "cs_test_x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
