package validator

import "testing"

type walletForm struct {
	Wallet string  `json:"wallet_address" validate:"required,eth_addr"`
	Status string  `json:"status" validate:"required,oneof=accepted rejected"`
	Phone  *string `json:"phone" validate:"omitempty,max=5"`
	Note   string  `validate:"omitempty,max=3"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	phone := "123456"
	err := v.Validate(&walletForm{Wallet: "not-a-wallet", Status: "paid", Phone: &phone, Note: "long"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := v.FormatValidationErrors(err)
	want := map[string]string{
		"wallet_address": "wallet_address must be a valid wallet address",
		"status":         "status must be one of: accepted rejected",
		"phone":          "phone must be at most 5 characters",
		"Note":           "Note must be at most 3 characters",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	v := NewValidator()
	if got := v.FormatValidationErrors(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestValidate_AcceptsChecksumlessAddress(t *testing.T) {
	v := NewValidator()
	form := &walletForm{Wallet: "0x52908400098527886E0F7030069857D2E4169EE7", Status: "accepted"}
	if err := v.Validate(form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateVar_WalletAddress(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateVar("0x52908400098527886E0F7030069857D2E4169EE7", "eth_addr"); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
	for _, bad := range []string{"0xabc", "not-a-wallet", "0x52908400098527886E0F7030069857D2E4169EE7ffffffffffffffffffffffff"} {
		if err := v.ValidateVar(bad, "eth_addr"); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}
