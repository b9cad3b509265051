package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/utils"
)

func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.JSON(http.StatusInternalServerError, utils.Error(constant.CodeInternal))
				c.Abort()
			}
		}()
		c.Next()
	}
}
