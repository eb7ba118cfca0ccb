package admin

import (
	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler admin API endpoints
type Handler struct {
	*provider.Container
}

// New creates the admin handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}
