package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/mq"
	"mkt-settlement-api/internal/utils"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler { return &PaymentHandler{} }

// Webhook accepts the gateway callback and hands it to the stamping consumer.
// The endpoint only validates shape; the consumer is idempotent, so the
// gateway can safely retry against us.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req dto.PaymentWebhookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, err.Error()))
		return
	}

	msg := dto.PaymentConfirmedMQ{
		OrderID:       req.OrderID,
		Success:       req.Success,
		TransactionID: req.TransactionID,
		CardScheme:    req.CardScheme,
		CardCountry:   req.CardCountry,
		Ts:            time.Now().Unix(),
	}
	if err := mq.PublishPaymentConfirmed(msg); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeInternal))
		return
	}
	c.JSON(http.StatusOK, utils.Success(nil))
}
