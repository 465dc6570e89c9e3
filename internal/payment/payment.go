// Package payment is the thin cart/mandate collaborator: an opaque pair of
// calls the platform makes before a paid practice session. Mandate signing
// lives with the payment peer, not here.
package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CartMandate describes one purchasable practice session.
type CartMandate struct {
	CartID        string    `json:"cart_id"`
	InterviewType string    `json:"interview_type"`
	AmountCents   int       `json:"amount_cents"`
	Currency      string    `json:"currency"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Receipt confirms a charged mandate.
type Receipt struct {
	ReceiptID string    `json:"receipt_id"`
	CartID    string    `json:"cart_id"`
	ChargedAt time.Time `json:"charged_at"`
}

// Service is the opaque payment collaborator.
type Service interface {
	GetCart(ctx context.Context, interviewType string) (*CartMandate, error)
	Charge(ctx context.Context, mandate *CartMandate) (*Receipt, error)
}

// Stub is the in-memory payment service used when no payment peer is
// configured. Carts are priced flat per interview type and expire after an
// hour; charging an expired or unknown cart fails.
type Stub struct {
	mu    sync.Mutex
	carts map[string]*CartMandate
}

var _ Service = (*Stub)(nil)

// NewStub creates an in-memory payment service.
func NewStub() *Stub {
	return &Stub{carts: make(map[string]*CartMandate)}
}

func (s *Stub) GetCart(_ context.Context, interviewType string) (*CartMandate, error) {
	if interviewType == "" {
		return nil, fmt.Errorf("interview_type is required")
	}
	cart := &CartMandate{
		CartID:        uuid.New().String(),
		InterviewType: interviewType,
		AmountCents:   2500,
		Currency:      "USD",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	s.mu.Lock()
	s.carts[cart.CartID] = cart
	s.mu.Unlock()
	return cart, nil
}

func (s *Stub) Charge(_ context.Context, mandate *CartMandate) (*Receipt, error) {
	if mandate == nil {
		return nil, fmt.Errorf("cart mandate is required")
	}
	s.mu.Lock()
	stored, ok := s.carts[mandate.CartID]
	if ok {
		delete(s.carts, mandate.CartID)
	}
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown cart %s", mandate.CartID)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("cart %s has expired", mandate.CartID)
	}

	return &Receipt{
		ReceiptID: uuid.New().String(),
		CartID:    mandate.CartID,
		ChargedAt: time.Now(),
	}, nil
}
