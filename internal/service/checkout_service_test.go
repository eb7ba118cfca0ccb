package service

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/payment/webtopay"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testSignPassword = "test-sign-password"

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *OrderService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:checkout_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CouponType{}, &models.Order{}, &models.Coupon{}, &models.Counter{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponTypeRepo := repository.NewCouponTypeRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	couponSvc := NewCouponService(couponRepo, orderRepo, couponTypeRepo, counterRepo, queueClient, []int{7, 8, 9, 10})
	orderSvc := NewOrderService(orderRepo, couponTypeRepo, counterRepo, couponSvc, queueClient, false)

	checkoutSvc := NewCheckoutService(&webtopay.Config{
		GatewayURL:   "https://www.mokejimai.lt/pay/",
		ProjectID:    "12345",
		SignPassword: testSignPassword,
		Test:         true,
	}, "https://shop.example.com", orderSvc, couponTypeRepo)
	return checkoutSvc, orderSvc, db
}

func signedCallbackForm(values url.Values, password string) map[string][]string {
	data := base64.URLEncoding.EncodeToString([]byte(values.Encode()))
	sum := md5.Sum([]byte(data + password))
	return map[string][]string{
		"data": {data},
		"ss1":  {hex.EncodeToString(sum[:])},
	}
}

func paidCallbackValues(orderID string, amountCents int64) url.Values {
	values := url.Values{}
	values.Set("projectid", "12345")
	values.Set("orderid", orderID)
	values.Set("status", "1")
	values.Set("payamount", fmt.Sprintf("%d", amountCents))
	values.Set("paycurrency", "EUR")
	values.Set("name", "Jonas")
	values.Set("surename", "Jonaitis")
	values.Set("p_email", "jonas@example.com")
	values.Set("test", "1")
	return values
}

func TestStartPaymentBuildsGatewayURL(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	redirect, err := checkoutSvc.StartPayment(order.ID)
	if err != nil {
		t.Fatalf("start payment failed: %v", err)
	}
	if !strings.HasPrefix(redirect, "https://www.mokejimai.lt/pay/?") {
		t.Fatalf("unexpected redirect prefix: %s", redirect)
	}

	parsed, err := url.Parse(redirect)
	if err != nil {
		t.Fatalf("parse redirect failed: %v", err)
	}
	query := parsed.Query()
	payload, err := webtopay.DecodeAndVerify(query.Get("data"), query.Get("sign"), testSignPassword)
	if err != nil {
		t.Fatalf("redirect payload does not verify: %v", err)
	}
	if payload.Get("orderid") != order.ID {
		t.Fatalf("expected orderid %s, got %s", order.ID, payload.Get("orderid"))
	}
	if payload.Get("amount") != "15000" {
		t.Fatalf("expected amount 15000, got %s", payload.Get("amount"))
	}
	if payload.Get("currency") != "EUR" {
		t.Fatalf("expected currency EUR, got %s", payload.Get("currency"))
	}
	if payload.Get("callbackurl") != "https://shop.example.com/api/payments/webtopay/callback" {
		t.Fatalf("unexpected callbackurl: %s", payload.Get("callbackurl"))
	}
}

func TestStartPaymentRequiresPendingOrder(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := orderSvc.Cancel(order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := checkoutSvc.StartPayment(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestHandleCallbackMarksOrderPaid(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	form := signedCallbackForm(paidCallbackValues(order.ID, 15000), testSignPassword)
	paid, err := checkoutSvc.HandleCallback(form)
	if err != nil {
		t.Fatalf("handle callback failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}
	if paid.PayerName != "Jonas" || paid.PayerSurname != "Jonaitis" {
		t.Fatalf("unexpected payer: %s %s", paid.PayerName, paid.PayerSurname)
	}
	if paid.PayerEmail != "jonas@example.com" {
		t.Fatalf("unexpected payer email: %s", paid.PayerEmail)
	}
	if paid.PaymentProvider != constants.PaymentProviderWebToPay {
		t.Fatalf("unexpected provider: %s", paid.PaymentProvider)
	}
	if len(paid.Coupons) != 1 {
		t.Fatalf("expected 1 coupon, got %d", len(paid.Coupons))
	}
}

func TestHandleCallbackKeepsOrderTestFlag(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.Test {
		t.Fatalf("expected real order from non-test service")
	}

	// The gateway claims a sandbox transaction; the order's own flag wins.
	form := signedCallbackForm(paidCallbackValues(order.ID, 15000), testSignPassword)
	if _, err := checkoutSvc.HandleCallback(form); err != nil {
		t.Fatalf("handle callback failed: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Test {
		t.Fatalf("callback data must not change the order's test flag")
	}
	if reloaded.Status != constants.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", reloaded.Status)
	}
}

func TestHandleCallbackRejectsTamperedSignature(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	form := signedCallbackForm(paidCallbackValues(order.ID, 15000), "wrong-password")
	if _, err := checkoutSvc.HandleCallback(form); !errors.Is(err, webtopay.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	reloaded, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending after rejected callback, got %s", reloaded.Status)
	}
}

func TestHandleCallbackAmountMismatch(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	form := signedCallbackForm(paidCallbackValues(order.ID, 100), testSignPassword)
	if _, err := checkoutSvc.HandleCallback(form); !errors.Is(err, ErrPaymentMismatch) {
		t.Fatalf("expected ErrPaymentMismatch, got %v", err)
	}

	reloaded, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending after amount mismatch, got %s", reloaded.Status)
	}
}

func TestHandleCallbackNotPaidStatus(t *testing.T) {
	checkoutSvc, orderSvc, db := setupCheckoutServiceTest(t)
	couponType := createTestCouponType(t, db, "training")

	order, err := orderSvc.Create(CreateOrderInput{CouponTypeID: couponType.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	values := paidCallbackValues(order.ID, 15000)
	values.Set("status", "0")
	settled, err := checkoutSvc.HandleCallback(signedCallbackForm(values, testSignPassword))
	if err != nil {
		t.Fatalf("handle callback failed: %v", err)
	}
	if settled != nil {
		t.Fatalf("expected no settlement for non-paid status, got %+v", settled)
	}

	reloaded, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending, got %s", reloaded.Status)
	}
}
