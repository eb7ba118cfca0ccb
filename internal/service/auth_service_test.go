package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected verify to fail for wrong password")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	admin := &models.Admin{ID: 7, Username: "admin"}
	token, expiresAt, err := svc.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %s", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != 7 || claims.Username != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseJWT(token + "tampered"); err == nil {
		t.Fatalf("expected parse to fail for tampered token")
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	hash, err := svc.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := db.Create(&models.Admin{Username: "admin", PasswordHash: hash}).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	admin, token, _, err := svc.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("expected last_login_at to be set")
	}

	if _, _, _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
