package controller

import (
	"codex_backend/internal/service"
	"codex_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const analysisFailedMessage = "Analysis failed. Please check your code and try again."

type AnalysisController struct {
	service *service.AnalysisService
}

func NewAnalysisController(s *service.AnalysisService) *AnalysisController {
	return &AnalysisController{service: s}
}

// AnalyzeRequest code 允许任意 JSON 类型，非字符串按空字符串处理
type AnalyzeRequest struct {
	Code     interface{} `json:"code" swaggertype:"string"`
	Language string      `json:"language"`
}

// Analyze godoc
// @Summary 分析代码
// @Description 将代码和语言提交给模型，返回复杂度、算法、质量评分等固定结构的结果
// @Tags 分析
// @Accept json
// @Produce json
// @Param body body AnalyzeRequest true "代码与语言"
// @Success 200 {object} model.AnalysisResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /analyze [post]
func (c *AnalysisController) Analyze(ctx *gin.Context) {
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			util.Error(ctx, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		util.BadRequest(ctx, "Code and language are required")
		return
	}

	if req.Code == nil || req.Language == "" {
		util.BadRequest(ctx, "Code and language are required")
		return
	}

	result, err := c.service.Analyze(ctx.Request.Context(), service.CoerceCode(req.Code), req.Language)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnsupportedLanguage):
			util.BadRequest(ctx, "Unsupported language: "+req.Language)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, "Code and language are required")
		default:
			// 上游错误已在 service 中记录
			util.InternalServerError(ctx, analysisFailedMessage)
		}
		return
	}

	util.Success(ctx, result)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
