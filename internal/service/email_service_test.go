package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/models"
)

func TestBuildCouponEmailBody(t *testing.T) {
	body := buildCouponEmailBody(CouponEmailInput{
		CouponID:     "2542000123",
		TypeTitle:    "Apžvalginis skrydis",
		WelcomeText:  "Sveikiname! Jums padovanotas skrydis.",
		ValidityText: "Kuponas galioja sezono metu.",
		Expires:      "2027-10-01",
		PayerName:    "Jonas",
	})

	for _, want := range []string{
		"Hello Jonas,",
		"Sveikiname! Jums padovanotas skrydis.",
		"Coupon: Apžvalginis skrydis",
		"Coupon number: 2542000123",
		"Valid until: 2027-10-01",
		"Kuponas galioja sezono metu.",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildCouponEmailBodyWithoutOptionalFields(t *testing.T) {
	body := buildCouponEmailBody(CouponEmailInput{
		CouponID:  "2542000123",
		TypeTitle: "Test flight",
		Expires:   "2027-10-01",
	})
	if !strings.HasPrefix(body, "Hello,") {
		t.Fatalf("expected anonymous greeting, got:\n%s", body)
	}
}

func TestSendCouponEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendCouponEmail("jonas@example.com", CouponEmailInput{CouponID: "x"})
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
}

func TestSendCouponEmailNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	err := svc.SendCouponEmail("jonas@example.com", CouponEmailInput{CouponID: "x"})
	if !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestSendCouponEmailInvalidRecipient(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	err := svc.SendCouponEmail("not-an-email", CouponEmailInput{CouponID: "x"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestFormatExpires(t *testing.T) {
	coupon := &models.Coupon{Expires: time.Date(2027, time.October, 1, 0, 0, 0, 0, time.UTC)}
	if got := FormatExpires(coupon); got != "2027-10-01" {
		t.Fatalf("expected 2027-10-01, got %s", got)
	}
}
