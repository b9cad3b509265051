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

type RuleHandler struct{ svc *service.RuleService }

func NewRuleHandler() *RuleHandler {
	return &RuleHandler{svc: service.NewRuleService()}
}

func (h *RuleHandler) Create(c *gin.Context) {
	var req dto.CreateRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.CustomError(constant.CodeBadRequest, err.Error()))
		return
	}

	rule, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(rule))
}

func (h *RuleHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	onlyActive := c.DefaultQuery("active", "true") == "true"

	rules, total, err := h.svc.List(c.Query("level"), onlyActive, limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(gin.H{"total": total, "rules": rules}))
}

func (h *RuleHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeBadRequest))
		return
	}

	if err := h.svc.Deactivate(id); err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, utils.Success(nil))
}
