package payment

import (
	"context"
	"testing"
)

func TestStub_CartAndCharge(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	cart, err := s.GetCart(ctx, "system_design")
	if err != nil {
		t.Fatal(err)
	}
	if cart.CartID == "" || cart.AmountCents != 2500 || cart.Currency != "USD" {
		t.Errorf("cart = %+v", cart)
	}

	receipt, err := s.Charge(ctx, cart)
	if err != nil {
		t.Fatal(err)
	}
	if receipt.CartID != cart.CartID || receipt.ReceiptID == "" {
		t.Errorf("receipt = %+v", receipt)
	}

	// A cart can be charged once.
	if _, err := s.Charge(ctx, cart); err == nil {
		t.Error("second charge = nil, want error")
	}
}

func TestStub_Validation(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	if _, err := s.GetCart(ctx, ""); err == nil {
		t.Error("GetCart(\"\") = nil, want error")
	}
	if _, err := s.Charge(ctx, nil); err == nil {
		t.Error("Charge(nil) = nil, want error")
	}
	if _, err := s.Charge(ctx, &CartMandate{CartID: "made-up"}); err == nil {
		t.Error("Charge(unknown cart) = nil, want error")
	}
}
