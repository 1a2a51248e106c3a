package service

import (
	"codex_backend/internal/model"
	"codex_backend/internal/util"
	"codex_backend/pkg/logger"
	"codex_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// 模型回复无法解析时使用的固定结果
const (
	FallbackTime            = "O(n)"
	FallbackSpace           = "O(1)"
	FallbackCyclomatic      = 5
	FallbackQualityScore    = 75
	FallbackStarRating      = 3
	FallbackSecurity        = "None"
	FallbackAlgorithmDetail = ""
)

// SyntaxChecker 本地语法检查，结果写入 AnalysisResult.Errors
type SyntaxChecker interface {
	Check(language, code string) []model.CodeError
}

type AnalysisService struct {
	model  ModelClient
	syntax SyntaxChecker
}

func NewAnalysisService(client ModelClient, syntax SyntaxChecker) *AnalysisService {
	return &AnalysisService{model: client, syntax: syntax}
}

// CoerceCode 非字符串的 code 按空字符串处理
func CoerceCode(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func (s *AnalysisService) Validate(code, language string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: code is required", util.ErrValidation)
	}
	lang := util.NormalizeLanguage(language)
	if lang == "" {
		return "", fmt.Errorf("%w: language is required", util.ErrValidation)
	}
	if !util.IsSupportedLanguage(lang) {
		return "", fmt.Errorf("%w: %w %q", util.ErrValidation, util.ErrUnsupportedLanguage, language)
	}
	return lang, nil
}

// Analyze 校验输入后调用模型，结果整理为固定结构。上游失败直接返回，不重试
func (s *AnalysisService) Analyze(ctx context.Context, code, language string) (*model.AnalysisResult, error) {
	lang, err := s.Validate(code, language)
	if err != nil {
		monitoring.AnalysisTotal.WithLabelValues(metricLanguage(language), "invalid").Inc()
		return nil, err
	}

	out, err := s.model.Analyze(ctx, code, lang)
	if err != nil {
		outcome := "upstream_error"
		var authErr *AuthOrQuotaError
		if errors.As(err, &authErr) {
			outcome = "auth_error"
		}
		monitoring.AnalysisTotal.WithLabelValues(lang, outcome).Inc()
		logger.Log.Error("Model analysis failed",
			zap.String("language", lang),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		if !IsUpstreamError(err) {
			err = &AdapterError{Err: err}
		}
		return nil, err
	}

	result, outcome := normalize(out)
	result.Language = lang
	result.Errors = s.checkSyntax(lang, code)
	monitoring.AnalysisTotal.WithLabelValues(lang, outcome).Inc()

	return result, nil
}

func (s *AnalysisService) checkSyntax(language, code string) []model.CodeError {
	if s.syntax == nil {
		return []model.CodeError{}
	}
	errs := s.syntax.Check(language, code)
	if errs == nil {
		return []model.CodeError{}
	}
	return errs
}

func metricLanguage(language string) string {
	lang := util.NormalizeLanguage(language)
	if util.IsSupportedLanguage(lang) {
		return lang
	}
	return "unknown"
}

// FallbackResult 解析失败时的固定结果，explanation 为模型原文
func FallbackResult(raw string) *model.AnalysisResult {
	return &model.AnalysisResult{
		Explanation: raw,
		Complexity: model.Complexity{
			Time:            FallbackTime,
			Space:           FallbackSpace,
			Cyclomatic:      model.Cyclomatic{Value: FallbackCyclomatic, Rating: model.RatingLow},
			QualityScore:    FallbackQualityScore,
			Readability:     FallbackStarRating,
			Efficiency:      FallbackStarRating,
			Maintainability: FallbackStarRating,
		},
		Algorithms: model.Algorithms{
			Detected: []model.DetectedAlgorithm{},
			Details:  FallbackAlgorithmDetail,
		},
		Security: FallbackSecurity,
		Errors:   []model.CodeError{},
	}
}

func normalize(out ModelOutput) (*model.AnalysisResult, string) {
	switch o := out.(type) {
	case *ParsedOutput:
		return normalizeParsed(o), "parsed"
	case *FallbackOutput:
		return FallbackResult(o.Raw), "fallback"
	default:
		return FallbackResult(""), "fallback"
	}
}

func normalizeParsed(o *ParsedOutput) *model.AnalysisResult {
	result := FallbackResult(o.Explanation)

	c := &result.Complexity
	c.Time = orDefault(o.TimeComplexity, FallbackTime)
	c.Space = orDefault(o.SpaceComplexity, FallbackSpace)
	if o.Cyclomatic != nil {
		value := FallbackCyclomatic
		if o.Cyclomatic.Value != nil {
			value = clamp(*o.Cyclomatic.Value, 0, 1<<16)
		}
		rating, ok := parseRating(o.Cyclomatic.Rating)
		if !ok {
			rating = ratingForCyclomatic(value)
		}
		c.Cyclomatic = model.Cyclomatic{Value: value, Rating: rating}
	}
	c.QualityScore = clampOr(o.QualityScore, 0, 100, FallbackQualityScore)
	c.Readability = clampOr(o.Readability, 0, 5, FallbackStarRating)
	c.Efficiency = clampOr(o.Efficiency, 0, 5, FallbackStarRating)
	c.Maintainability = clampOr(o.Maintainability, 0, 5, FallbackStarRating)

	for _, a := range o.Algorithms {
		confidence, ok := parseRating(a.Confidence)
		if !ok {
			confidence = model.RatingMedium
		}
		result.Algorithms.Detected = append(result.Algorithms.Detected, model.DetectedAlgorithm{
			Name:       a.Name,
			Confidence: confidence,
		})
	}
	result.Algorithms.Details = o.AlgorithmDetail

	result.Optimizations = o.Optimizations
	result.BestPractices = o.BestPractices
	result.Security = orDefault(o.Security, FallbackSecurity)

	return result
}

func parseRating(s string) (model.Rating, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return model.RatingLow, true
	case "medium", "moderate", "mid":
		return model.RatingMedium, true
	case "high":
		return model.RatingHigh, true
	default:
		return "", false
	}
}

// ratingForCyclomatic 1-10 低，11-20 中，其余高
func ratingForCyclomatic(value int) model.Rating {
	switch {
	case value <= 10:
		return model.RatingLow
	case value <= 20:
		return model.RatingMedium
	default:
		return model.RatingHigh
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampOr(v *int, lo, hi, def int) int {
	if v == nil {
		return def
	}
	return clamp(*v, lo, hi)
}
