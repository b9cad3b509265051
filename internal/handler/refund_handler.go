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

type RefundHandler struct{ svc *service.RefundService }

func NewRefundHandler() *RefundHandler {
	return &RefundHandler{svc: service.NewRefundService()}
}

func (h *RefundHandler) Create(c *gin.Context) {
	var req dto.CreateRefundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, err.Error()))
		return
	}

	vo, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(vo))
}

func (h *RefundHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	var req dto.RefundStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, err.Error()))
		return
	}

	vo, err := h.svc.UpdateStatus(id, req.Status)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(vo))
}

func (h *RefundHandler) Get(c *gin.Context) {
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
