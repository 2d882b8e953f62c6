package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cronSecretHeader carries the shared secret the external scheduler presents
// when triggering internal jobs.
const cronSecretHeader = "X-Cron-Secret"

// CronAuth guards scheduler-only routes with a shared secret. An empty
// configured secret rejects everything, so an unconfigured deployment cannot
// be triggered anonymously.
func CronAuth(sharedSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		provided := c.GetHeader(cronSecretHeader)
		if sharedSecret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(sharedSecret)) != 1 {
			logger.Warn("Cron trigger rejected: missing or invalid shared secret")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
