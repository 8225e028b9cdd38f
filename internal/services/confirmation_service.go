package services

import (
	"context"
	"log"

	"github.com/example/achievepack/internal/models"
)

// FinalizingWarning is the soft warning shown when the status update after
// a successful payment could not be written. The charge already happened
// from the gateway's perspective, so this is never treated as fatal.
const FinalizingWarning = "We're finalizing your order. You'll receive a confirmation email shortly."

// ConfirmationService reconciles orders when control returns from the
// payment gateway (or from the fallback path).
type ConfirmationService struct {
	repo OrderRepository
}

// NewConfirmationService constructs a ConfirmationService.
func NewConfirmationService(repo OrderRepository) *ConfirmationService {
	return &ConfirmationService{repo: repo}
}

// ReconcileResult describes the order after a reconciliation attempt.
type ReconcileResult struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Note        string  `json:"note,omitempty"`
	Warning     string  `json:"warning,omitempty"`
}

// Reconcile confirms the order matching orderNumber when a gateway session
// reference is present. It is idempotent: confirming an already-confirmed
// order again (a refreshed confirmation page) changes nothing. With no
// session reference the order is reported as-is, carrying the fallback note
// for orders still awaiting manual payment.
func (s *ConfirmationService) Reconcile(ctx context.Context, orderNumber, sessionRef string) (*ReconcileResult, error) {
	order, err := s.repo.OrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}

	if sessionRef == "" {
		if order.Status == models.OrderStatusPendingPayment {
			result.Note = FallbackNote
		}
		return result, nil
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderNumber, sessionRef, models.OrderStatusConfirmed); err != nil {
		// The payment already went through; surface a soft warning only.
		log.Printf("[Confirmation] Status update failed for %s: %v", orderNumber, err)
		result.Warning = FinalizingWarning
		return result, nil
	}

	result.Status = models.OrderStatusConfirmed
	return result, nil
}
