package webtopay

import (
	"net/url"
	"strings"
	"testing"
)

func testConfig() *Config {
	return &Config{
		GatewayURL:   "https://www.mokejimai.lt/pay/",
		ProjectID:    "12345",
		SignPassword: "secret-password",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := testConfig()
	data, sign, err := Encode(cfg, PaymentRequest{
		OrderID:     "2600000123456",
		AmountCents: 15000,
		Currency:    "EUR",
		Country:     "LT",
		Language:    "LIT",
		PayText:     "Flight coupon",
		AcceptURL:   "https://shop.example.com/accept",
		CancelURL:   "https://shop.example.com/cancel",
		CallbackURL: "https://shop.example.com/callback",
		PayerEmail:  "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	values, err := DecodeAndVerify(data, sign, cfg.SignPassword)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := values.Get("orderid"); got != "2600000123456" {
		t.Fatalf("orderid = %q", got)
	}
	if got := values.Get("amount"); got != "15000" {
		t.Fatalf("amount = %q", got)
	}
	if got := values.Get("projectid"); got != "12345" {
		t.Fatalf("projectid = %q", got)
	}
}

func TestDecodeRejectsTamperedSignature(t *testing.T) {
	cfg := testConfig()
	data, sign, err := Encode(cfg, PaymentRequest{OrderID: "260001", AmountCents: 100, Currency: "EUR"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if _, err := DecodeAndVerify(data, "0"+sign[1:], cfg.SignPassword); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestDecodeRejectsTamperedData(t *testing.T) {
	cfg := testConfig()
	_, sign, err := Encode(cfg, PaymentRequest{OrderID: "260001", AmountCents: 100, Currency: "EUR"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	other, _, err := Encode(cfg, PaymentRequest{OrderID: "260002", AmountCents: 100, Currency: "EUR"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := DecodeAndVerify(other, sign, cfg.SignPassword); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid for swapped data, got %v", err)
	}
}

func TestDecodeAcceptsUppercaseSignature(t *testing.T) {
	cfg := testConfig()
	data, sign, err := Encode(cfg, PaymentRequest{OrderID: "260001", AmountCents: 100, Currency: "EUR"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if _, err := DecodeAndVerify(data, strings.ToUpper(sign), cfg.SignPassword); err != nil {
		t.Fatalf("uppercase hex signature should verify, got %v", err)
	}
}

func TestDecodeRejectsWrongPassword(t *testing.T) {
	cfg := testConfig()
	data, sign, err := Encode(cfg, PaymentRequest{OrderID: "260001", AmountCents: 100, Currency: "EUR"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := DecodeAndVerify(data, sign, "other-password"); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyCallbackParsesPayerFields(t *testing.T) {
	cfg := testConfig()
	payload := url.Values{}
	payload.Set("projectid", cfg.ProjectID)
	payload.Set("orderid", "2600000123456")
	payload.Set("status", "1")
	payload.Set("payment", "banklink")
	payload.Set("payamount", "15000")
	payload.Set("paycurrency", "EUR")
	payload.Set("p_email", "buyer@example.com")
	payload.Set("name", "Jonas")
	payload.Set("surename", "Jonaitis")

	data := encodeWebsafe(payload.Encode())
	form := map[string][]string{
		ParamData:      {data},
		ParamSignature: {signMD5(data + cfg.SignPassword)},
	}

	callback, err := VerifyCallback(cfg, form)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !callback.Paid() {
		t.Fatal("expected paid callback")
	}
	if callback.OrderID != "2600000123456" {
		t.Fatalf("orderid = %q", callback.OrderID)
	}
	if callback.PayAmountCents != 15000 {
		t.Fatalf("payamount = %d", callback.PayAmountCents)
	}
	if callback.PayerSurname != "Jonaitis" {
		t.Fatalf("surname = %q", callback.PayerSurname)
	}
}

func TestVerifyCallbackMissingSignature(t *testing.T) {
	cfg := testConfig()
	form := map[string][]string{
		ParamData: {encodeWebsafe("orderid=1")},
	}
	if _, err := VerifyCallback(cfg, form); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestBuildRedirectURL(t *testing.T) {
	cfg := testConfig()
	redirect, err := BuildRedirectURL(cfg, PaymentRequest{
		OrderID:     "260001",
		AmountCents: 30000,
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatalf("build redirect failed: %v", err)
	}
	if !strings.HasPrefix(redirect, "https://www.mokejimai.lt/pay/?") {
		t.Fatalf("unexpected redirect base: %s", redirect)
	}
	parsed, err := url.Parse(redirect)
	if err != nil {
		t.Fatalf("parse redirect failed: %v", err)
	}
	query := parsed.Query()
	if query.Get(ParamData) == "" || query.Get("sign") == "" {
		t.Fatalf("redirect missing data/sign: %s", redirect)
	}
	if _, err := DecodeAndVerify(query.Get(ParamData), query.Get("sign"), cfg.SignPassword); err != nil {
		t.Fatalf("redirect payload does not verify: %v", err)
	}
}
