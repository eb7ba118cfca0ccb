package admin

import (
	"strings"

	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest admin login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an administrator and issues a session token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		requestLog(c).Warnw("admin_login_failed", "username", req.Username, "error", err)
		handlershared.RespondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}
