package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/utils"
)

// InternalAuth guards the admin and operations surface: a shared token plus
// a private-network IP allowlist.
func InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Internal-Token")
		if token != config.C.Security.InternalToken {
			c.JSON(http.StatusUnauthorized, utils.CustomError(constant.CodeUnauthorized, "invalid internal token"))
			c.Abort()
			return
		}

		ip := c.ClientIP()
		whitelist := []string{"127.0.0.1", "192.168.", "10.", "::1"}
		allowed := false
		for _, prefix := range whitelist {
			if strings.HasPrefix(ip, prefix) {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, utils.CustomError(constant.CodeUnauthorized, "ip not allowed: "+ip))
			c.Abort()
			return
		}

		c.Next()
	}
}
