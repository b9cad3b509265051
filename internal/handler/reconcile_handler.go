package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/service"
	"mkt-settlement-api/internal/utils"
)

type ReconcileHandler struct{ svc *service.ReconciliationService }

func NewReconcileHandler() *ReconcileHandler {
	return &ReconcileHandler{svc: service.NewReconciliationService()}
}

// Report builds the reconciliation snapshot for [from, to). Defaults to the
// current month so operators can hit it bare.
func (h *ReconcileHandler) Report(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
			return
		}
		to = parsed
	}
	if !to.After(from) {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, "to must be after from"))
		return
	}

	vo, err := h.svc.Run(from, to)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(vo))
}
