package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	errAuthRequired = "Authentication required"
	errTokenInvalid = "Invalid or expired token"
)

// Auth validates a Bearer JWT and sets "userID" and "userEmail" in the
// gin context. A missing credential is 401; a credential that fails
// verification is 403 so the client can treat it as session
// termination. The verified claims are trusted for the rest of the
// request; the user row is not re-fetched.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
			return
		}

		email, _ := claims["email"].(string)

		c.Set("userID", userID)
		c.Set("userEmail", email)
		c.Next()
	}
}
