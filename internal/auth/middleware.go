package auth

import (
	"aiplugin/internal/common"
	"aiplugin/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsContextKey gin 上下文中保存令牌声明的键
const ClaimsContextKey = "auth_claims"

// AuthMiddleware JWT 认证中间件，WebSocket 握手可用 ?token= 传递令牌
func AuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractTokenFromBearer(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "缺少认证令牌")
			return
		}

		claims, err := jwtService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("令牌验证失败", zap.Error(err))
			common.AbortWithError(c, common.CodeUnauthorized, "令牌验证失败")
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequireRole 角色检查，需位于 AuthMiddleware 之后
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			common.AbortWithError(c, common.CodeUnauthorized, "未认证")
			return
		}
		if !claims.HasRole(role) {
			common.AbortWithError(c, common.CodeForbidden, "权限不足")
			return
		}
		c.Next()
	}
}

// GetClaims 读取当前请求的令牌声明
func GetClaims(c *gin.Context) (*TokenClaims, bool) {
	v, ok := c.Get(ClaimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*TokenClaims)
	return claims, ok
}
