package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authMiddleware accepts "Authorization: Bearer <key>" or "x-api-key: <key>".
func authMiddleware(apiKey string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(apiKey))
	return func(c *gin.Context) {
		got := ""
		if v := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(v, "Bearer ") {
			got = strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
		}
		if got == "" {
			got = strings.TrimSpace(c.GetHeader("x-api-key"))
		}
		if got != "" && subtle.ConstantTimeCompare([]byte(got), expected) == 1 {
			c.Next()
			return
		}
		renderJSON(c, http.StatusUnauthorized, gin.H{"error": errorBody{Message: "unauthorized", Code: "invalid_api_key"}})
		c.Abort()
	}
}
