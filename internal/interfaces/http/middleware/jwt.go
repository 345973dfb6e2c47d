package middleware

import (
	"net/http"
	"strings"

	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys under which validated token claims are stored on the gin context.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTBranchIDKey = "jwt_branch_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig configures access token authentication.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist, when set, rejects revoked tokens and invalidated
	// user sessions.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths and SkipPathPrefixes bypass authentication entirely.
	SkipPaths        []string
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig authenticates everything except health probes and the
// refresh endpoint, which validates its own refresh token.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/refresh",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default configuration.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig authenticates requests, stores the claims on
// the context, and tags the request logger with actor and branch.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipAuth(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, reason := bearerToken(c)
		if reason != "" {
			rejectUnauthorized(c, cfg, auth.ErrInvalidToken, reason)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && revoked(c, cfg, claims) {
			rejectUnauthorized(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTBranchIDKey, claims.BranchID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRoleKey, claims.Role)

		// Propagate identity into the request context so the logger tags
		// every downstream entry.
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithActorID(ctx, log, claims.UserID)
		ctx, _ = logger.WithBranchID(ctx, log, claims.BranchID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("branch_id", claims.BranchID),
				zap.String("username", claims.Username),
			)
		}

		c.Next()
	}
}

func skipAuth(cfg JWTMiddlewareConfig, path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the access token from the Authorization header.
// The second return value is the rejection reason when extraction fails.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "Invalid authorization header format"
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

// revoked checks the blacklist for the token JTI and for a user-wide
// invalidation issued after the token was minted. Lookup failures fail
// open so an unavailable blacklist store does not take the API down.
func revoked(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if blacklisted {
			return true
		}
	}

	if claims.UserID != "" {
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check user token invalidation",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		} else if invalidated {
			return true
		}
	}

	return false
}

var authErrorCodes = map[error]struct {
	code    string
	message string
}{
	auth.ErrExpiredToken:     {"TOKEN_EXPIRED", "Token has expired"},
	auth.ErrInvalidToken:     {"INVALID_TOKEN", "Invalid token"},
	auth.ErrInvalidTokenType: {"INVALID_TOKEN_TYPE", "Invalid token type"},
	auth.ErrTokenNotYetValid: {"TOKEN_NOT_VALID", "Token is not yet valid"},
	auth.ErrTokenBlacklisted: {"TOKEN_REVOKED", "Token has been revoked"},
}

func rejectUnauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error, reason string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", reason),
			zap.String("path", c.Request.URL.Path),
		)
	}

	resp, ok := authErrorCodes[err]
	if !ok {
		resp.code, resp.message = "UNAUTHORIZED", "Authentication required"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    resp.code,
			"message": resp.message,
		},
	})
}

// GetJWTClaims returns the validated claims, or nil before authentication.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// MustGetJWTClaims returns the validated claims and panics when the
// middleware has not run. Only for handlers behind authentication.
func MustGetJWTClaims(c *gin.Context) *auth.Claims {
	claims := GetJWTClaims(c)
	if claims == nil {
		panic("jwt claims not found in context")
	}
	return claims
}

func contextString(c *gin.Context, key string) string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetJWTUserID returns the authenticated user ID, or "".
func GetJWTUserID(c *gin.Context) string {
	return contextString(c, JWTUserIDKey)
}

// GetJWTBranchID returns the authenticated branch ID, or "".
func GetJWTBranchID(c *gin.Context) string {
	return contextString(c, JWTBranchIDKey)
}

// GetJWTUsername returns the authenticated username, or "".
func GetJWTUsername(c *gin.Context) string {
	return contextString(c, JWTUsernameKey)
}

// GetJWTRole returns the approval role carried by the token, or "".
func GetJWTRole(c *gin.Context) string {
	return contextString(c, JWTRoleKey)
}
