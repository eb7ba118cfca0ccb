package provider

import (
	"github.com/soaringcoupons/internal/cache"
	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/payment/webtopay"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/repository"
	"github.com/soaringcoupons/internal/service"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	CouponTypeRepo repository.CouponTypeRepository
	OrderRepo      repository.OrderRepository
	CouponRepo     repository.CouponRepository
	CounterRepo    repository.CounterRepository

	// Services
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	CatalogService  *service.CatalogService
	CouponService   *service.CouponService
	OrderService    *service.OrderService
	CheckoutService *service.CheckoutService
}

// NewContainer initializes the container
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CouponTypeRepo = repository.NewCouponTypeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CounterRepo = repository.NewCounterRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CatalogService = service.NewCatalogService(c.CouponTypeRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.OrderRepo, c.CouponTypeRepo, c.CounterRepo, c.QueueClient, c.Config.Coupon.SeasonMonths)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CouponTypeRepo, c.CounterRepo, c.CouponService, c.QueueClient, c.Config.WebToPay.Test)
	c.CheckoutService = service.NewCheckoutService(&webtopay.Config{
		GatewayURL:   c.Config.WebToPay.GatewayURL,
		ProjectID:    c.Config.WebToPay.ProjectID,
		SignPassword: c.Config.WebToPay.SignPassword,
		Test:         c.Config.WebToPay.Test,
	}, c.Config.Shop.BaseURL, c.OrderService, c.CouponTypeRepo)
}
