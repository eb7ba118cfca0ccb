package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/provider"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/repository"
	"github.com/soaringcoupons/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_consumer_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CouponType{}, &models.Order{}, &models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	container := &provider.Container{
		CouponTypeRepo: repository.NewCouponTypeRepository(db),
		OrderRepo:      repository.NewOrderRepository(db),
		CouponRepo:     repository.NewCouponRepository(db),
		EmailService:   service.NewEmailService(&config.EmailConfig{Enabled: false}),
	}
	return NewConsumer(container), db
}

func couponEmailTask(t *testing.T, couponID string) *asynq.Task {
	t.Helper()

	task, err := queue.NewCouponEmailTask(queue.CouponEmailPayload{CouponID: couponID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleCouponEmailSkipsUnknownCoupon(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	if err := consumer.handleCouponEmail(context.Background(), couponEmailTask(t, "missing")); err != nil {
		t.Fatalf("expected nil for unknown coupon, got %v", err)
	}
}

func TestHandleCouponEmailSkipsEmptyReceiver(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	order := models.Order{ID: "2511000001", CouponTypeID: "training", Quantity: 1, Status: constants.OrderStatusPaid}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	coupon := models.Coupon{ID: order.ID, OrderID: order.ID, CouponTypeID: "training", Status: constants.CouponStatusActive, Expires: time.Now().AddDate(1, 0, 0)}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if err := consumer.handleCouponEmail(context.Background(), couponEmailTask(t, coupon.ID)); err != nil {
		t.Fatalf("expected nil for order without payer email, got %v", err)
	}
}

func TestHandleCouponEmailPropagatesSendFailure(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	couponType := models.CouponType{ID: "training", Title: "Test flight", Currency: "EUR", DefaultExpirationMonths: 6, IsActive: true}
	if err := db.Create(&couponType).Error; err != nil {
		t.Fatalf("create coupon type failed: %v", err)
	}
	order := models.Order{ID: "2511000002", CouponTypeID: couponType.ID, Quantity: 1, Status: constants.OrderStatusPaid, PayerEmail: "jonas@example.com"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	coupon := models.Coupon{ID: order.ID, OrderID: order.ID, CouponTypeID: couponType.ID, Status: constants.CouponStatusActive, Expires: time.Now().AddDate(1, 0, 0)}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	// mail delivery is off in this setup, the task must surface the error so
	// asynq retries it
	err := consumer.handleCouponEmail(context.Background(), couponEmailTask(t, coupon.ID))
	if !errors.Is(err, service.ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
}

func TestHandleCouponEmailInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskCouponEmail, []byte("{not json"))
	if err := consumer.handleCouponEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)

	mux := asynq.NewServeMux()
	NewConsumer(nil).Register(mux)
}
