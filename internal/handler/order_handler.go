package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/service"
	"mkt-settlement-api/internal/utils"
)

type OrderHandler struct{ svc *service.OrderService }

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{svc: service.NewOrderService()}
}

// Create freezes an order with its tax split and commission snapshots.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, err.Error()))
		return
	}

	resp, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	order, items, err := h.svc.Get(id)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(gin.H{"order": order, "items": items}))
}

// Delivered stamps delivery and the frozen settlement eligibility date.
func (h *OrderHandler) Delivered(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	var req dto.DeliveredReq
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.MarkDelivered(id, req.DeliveredAt); err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(nil))
}
