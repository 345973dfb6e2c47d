package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/interfaces/http/dto"
)

// AuthHandler exposes token refresh. Credential login happens in the
// upstream identity system; this API only rotates tokens it issued.
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

func NewAuthHandler(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a token pair. The presented refresh token is
// blacklisted so it cannot be replayed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "refresh_token is required")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.refreshError(c, err)
		return
	}

	if h.blacklist != nil {
		revoked, berr := h.blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if berr != nil {
			h.logger.Warn("Blacklist check failed during refresh",
				zap.String("jti", claims.ID),
				zap.Error(berr))
		} else if revoked {
			h.refreshError(c, auth.ErrTokenBlacklisted)
			return
		}
	}

	pair, err := h.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		h.refreshError(c, err)
		return
	}

	// One-shot refresh tokens: revoke the presented one for its remaining life.
	if h.blacklist != nil {
		if err := h.blacklist.AddToBlacklist(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
			h.logger.Warn("Failed to revoke consumed refresh token",
				zap.String("jti", claims.ID),
				zap.Error(err))
		}
	}

	h.Success(c, pair)
}

func (h *AuthHandler) refreshError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Refresh token has expired")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Refresh token has been revoked")
	case errors.Is(err, auth.ErrInvalidTokenType):
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Token is not a refresh token")
	default:
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Invalid refresh token")
	}
}
