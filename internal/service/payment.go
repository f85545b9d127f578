// internal/service/payment.go
package service

import (
	"context"
	"fmt"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/payment"
	"github.com/google/uuid"
)

// PaymentService fronts the gateway for the plan purchase flow. Order
// creation and signature verification are two independent calls; the client
// sequences them and then registers the company separately, matching the
// checkout widget's handshake.
type PaymentService struct {
	gateway *payment.Gateway
}

func NewPaymentService(gateway *payment.Gateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

type CreateOrderInput struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateOrderOutput struct {
	Order *payment.Order `json:"order"`
	KeyID string         `json:"key_id"`
}

func (s *PaymentService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	receipt := fmt.Sprintf("rcpt_%s", uuid.NewString())
	order, err := s.gateway.CreateOrder(input.Amount, input.Currency, receipt)
	if err != nil {
		return nil, err
	}

	return &CreateOrderOutput{Order: order, KeyID: s.gateway.KeyID()}, nil
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPayment recomputes the checkout signature server-side. It mutates no
// state; a verified payment only entitles the client to proceed with
// company registration.
func (s *PaymentService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) error {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return fmt.Errorf("%w: order id, payment id and signature are required", domain.ErrInvalidInput)
	}
	return s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature)
}
