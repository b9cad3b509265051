package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/mq"
	"mkt-settlement-api/internal/service"
	"mkt-settlement-api/internal/utils"
)

type SettlementHandler struct{ svc *service.SettlementService }

func NewSettlementHandler() *SettlementHandler {
	return &SettlementHandler{svc: service.NewSettlementService()}
}

// Run triggers a batch for today via the queue, same path the scheduler uses.
func (h *SettlementHandler) Run(c *gin.Context) {
	var req dto.RunSettlementReq
	_ = c.ShouldBindJSON(&req)

	msg := dto.SettlementRunMQ{
		Date:  time.Now().Format("2006-01-02"),
		Force: req.Force,
	}
	if err := mq.PublishSettlementRun(msg); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeInternal))
		return
	}
	c.JSON(http.StatusOK, utils.Success(gin.H{"date": msg.Date}))
}

func (h *SettlementHandler) List(c *gin.Context) {
	var merchantID *uint64
	if raw := c.Query("merchant_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
			return
		}
		merchantID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, total, err := h.svc.List(merchantID, c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(gin.H{"total": total, "settlements": rows}))
}

func (h *SettlementHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	vo, err := h.svc.Get(id)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(vo))
}

// MarkPaid records the completed bank transfer.
func (h *SettlementHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	var req dto.MarkPaidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, "transaction_reference is required"))
		return
	}

	if err := h.svc.MarkPaid(id, req.TransactionReference); err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(nil))
}
