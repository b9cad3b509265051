package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/utils"
)

// AuthHMAC verifies the X-Signature header against an HMAC-SHA256 of the raw
// request body. GETs pass through.
func AuthHMAC() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		sig := c.GetHeader("X-Signature")
		if sig == "" {
			c.JSON(http.StatusUnauthorized, utils.CustomError(constant.CodeUnauthorized, "missing signature"))
			c.Abort()
			return
		}

		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(config.C.Security.HMACSecret))
		mac.Write(body)
		if !hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(sig)) {
			c.JSON(http.StatusUnauthorized, utils.CustomError(constant.CodeUnauthorized, "bad signature"))
			c.Abort()
			return
		}
		c.Next()
	}
}
