package middleware

import (
	"errors"
	"net/http"
	"strings"

	"RentalNegotiator/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// PairingAuth 는 페어링 토큰을 Authorization 헤더 또는 ?token= 쿼리에서 읽어 검증한다.
// 브라우저 WebSocket 은 헤더를 붙일 수 없어서 쿼리도 허용한다.
func PairingAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
				return
			}
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Pairing token required"})
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Pairing token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid pairing token"})
			return
		}
		c.Set("session_id", claims.Subject)
		c.Next()
	}
}

// LocalOnly 는 루프백 주소에서 온 요청만 통과시킨다. 페어링 토큰 발급용.
func LocalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip != "127.0.0.1" && ip != "::1" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Pairing is only available from this computer"})
			return
		}
		c.Next()
	}
}
