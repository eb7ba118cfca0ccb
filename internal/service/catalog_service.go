package service

import (
	"context"
	"strings"
	"time"

	"github.com/soaringcoupons/internal/cache"
	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService coupon type catalog reads
type CatalogService struct {
	couponTypeRepo repository.CouponTypeRepository
}

// NewCatalogService creates a catalog service
func NewCatalogService(couponTypeRepo repository.CouponTypeRepository) *CatalogService {
	return &CatalogService{couponTypeRepo: couponTypeRepo}
}

// ListTypes lists the published catalog, served from cache when available
func (s *CatalogService) ListTypes(ctx context.Context) ([]models.CouponType, error) {
	var cached []models.CouponType
	hit, err := cache.GetJSON(ctx, constants.CacheKeyCouponTypes, &cached)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	couponTypes, err := s.couponTypeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyCouponTypes, couponTypes, catalogCacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "error", err)
	}
	return couponTypes, nil
}

// GetType fetches a single coupon type by slug
func (s *CatalogService) GetType(id string) (*models.CouponType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCouponTypeNotFound
	}
	couponType, err := s.couponTypeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if couponType == nil {
		return nil, ErrCouponTypeNotFound
	}
	return couponType, nil
}

// InvalidateCache drops the catalog cache entry after a catalog change
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyCouponTypes); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}
