package controller

import (
	"codex_backend/internal/service"
	"codex_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HistoryController struct {
	service *service.HistoryService
}

func NewHistoryController(s *service.HistoryService) *HistoryController {
	return &HistoryController{service: s}
}

type SaveHistoryRequest struct {
	UserID   string `json:"user_id"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ListHistory godoc
// @Summary 获取用户历史记录
// @Description 按提交时间倒序返回最近 20 条
// @Tags 历史记录
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {array} model.History
// @Failure 500 {object} util.ErrorResponse
// @Router /history/{userId} [get]
func (c *HistoryController) ListHistory(ctx *gin.Context) {
	userID := ctx.Param("userId")

	histories, err := c.service.List(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err, "Failed to fetch history", zap.String("user_id", userID))
		return
	}

	util.Success(ctx, histories)
}

// SaveHistory godoc
// @Summary 保存历史记录
// @Tags 历史记录
// @Accept json
// @Produce json
// @Param body body SaveHistoryRequest true "历史记录"
// @Success 201 {object} util.MessageResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /history [post]
func (c *HistoryController) SaveHistory(ctx *gin.Context) {
	var req SaveHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			util.Error(ctx, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		util.BadRequest(ctx, "Missing required fields")
		return
	}

	_, err := c.service.Save(ctx.Request.Context(), req.UserID, req.Code, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnsupportedLanguage):
			util.BadRequest(ctx, "Unsupported language: "+req.Language)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, "Missing required fields")
		default:
			util.LogInternalError(ctx, err, "Failed to save history", zap.String("user_id", req.UserID))
		}
		return
	}

	util.Message(ctx, http.StatusCreated, "History saved")
}

// DeleteHistory godoc
// @Summary 删除历史记录
// @Tags 历史记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} util.MessageResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /history/{id} [delete]
func (c *HistoryController) DeleteHistory(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx, "History item not found")
			return
		}
		util.LogInternalError(ctx, err, "Failed to delete history", zap.String("id", id))
		return
	}

	util.Message(ctx, http.StatusOK, "History deleted")
}
