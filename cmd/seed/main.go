package main

import (
	"os"

	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	couponTypes := []models.CouponType{
		{
			ID:          "training",
			Title:       "Apžvalginis skrydis",
			Description: "Apžvalginis skrydis dviviečiu sklandytuvu su patyrusiu pilotu.",
			WelcomeText: "Sveikiname! Jums padovanotas apžvalginis skrydis sklandytuvu. " +
				"Susisiekite su mumis ir suderinkite skrydžio laiką.",
			ValidityCondText: "Kuponas galioja skrydžių sezono metu, iš anksto " +
				"suderinus laiką ir esant tinkamoms oro sąlygoms.",
			Price:                   models.NewMoneyFromDecimal(decimal.NewFromFloat(150.00)),
			Currency:                "EUR",
			DefaultExpirationMonths: 6,
			SortOrder:               100,
			IsActive:                true,
		},
		{
			ID:          "acro",
			Title:       "Pilotažinis skrydis",
			Description: "Aukštojo pilotažo skrydis dviviečiu sklandytuvu.",
			WelcomeText: "Sveikiname! Jums padovanotas aukštojo pilotažo skrydis " +
				"sklandytuvu. Susisiekite su mumis ir suderinkite skrydžio laiką.",
			ValidityCondText: "Kuponas galioja skrydžių sezono metu, iš anksto " +
				"suderinus laiką ir esant tinkamoms oro sąlygoms.",
			Price:                   models.NewMoneyFromDecimal(decimal.NewFromFloat(300.00)),
			Currency:                "EUR",
			DefaultExpirationMonths: 6,
			SortOrder:               200,
			IsActive:                true,
		},
	}

	for _, ct := range couponTypes {
		var existing models.CouponType
		if err := models.DB.Where("id = ?", ct.ID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&ct).Error; err != nil {
				stdLog.Printf("Failed to create coupon type %s: %v", ct.ID, err)
			} else {
				stdLog.Printf("Created coupon type: %s", ct.ID)
			}
			continue
		}
		existing.Title = ct.Title
		existing.Description = ct.Description
		existing.WelcomeText = ct.WelcomeText
		existing.ValidityCondText = ct.ValidityCondText
		existing.Price = ct.Price
		existing.Currency = ct.Currency
		existing.DefaultExpirationMonths = ct.DefaultExpirationMonths
		existing.SortOrder = ct.SortOrder
		existing.IsActive = ct.IsActive
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update coupon type %s: %v", ct.ID, err)
		} else {
			stdLog.Printf("Updated coupon type: %s", ct.ID)
		}
	}

	adminUser := os.Getenv("SC_DEFAULT_ADMIN_USERNAME")
	adminPass := os.Getenv("SC_DEFAULT_ADMIN_PASSWORD")
	if err := models.InitDefaultAdmin(adminUser, adminPass); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Println("Seed completed")
}
