package service

import (
	"bytes"
	"codex_backend/internal/config"
	"codex_backend/pkg/logger"
	"codex_backend/pkg/monitoring"
	"codex_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ModelClient 代码分析的模型适配层，AnalysisService 只依赖这个接口
type ModelClient interface {
	Analyze(ctx context.Context, code, language string) (ModelOutput, error)
}

type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
	// 重试间隔，测试中可调小
	retryInterval time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config:        cfg,
		client:        &http.Client{},
		retryInterval: 500 * time.Millisecond,
	}
}

// UpdateConfig 配置热更新时替换模型、超时等参数
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *AIService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StatusError 模型服务返回非 200
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("AI API error (status %d): %s", e.StatusCode, e.Body)
}

// Analyze 构造评分提示词调用模型，回复无法解析时降级为 *FallbackOutput
func (s *AIService) Analyze(ctx context.Context, code, language string) (ModelOutput, error) {
	text, err := s.Complete(ctx, BuildAnalysisPrompt(language, code))
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	out, parseErr := ParseModelOutput(text)
	if parseErr != nil {
		logger.Log.Warn("Model reply is not valid JSON, using fallback result",
			zap.String("language", language),
			zap.Int("reply_length", len(text)),
			zap.Error(parseErr),
		)
	}
	return out, nil
}

// Complete 单次补全调用，带超时和重试预算，鉴权/限流类错误不重试
func (s *AIService) Complete(ctx context.Context, prompt string) (string, error) {
	cfg := s.currentConfig()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ctx, span := tracing.Tracer().Start(ctx, "ai.chat_completion")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", cfg.Model))

	attempts := 0
	start := time.Now()
	op := func() (string, error) {
		attempts++
		text, err := s.chat(ctx, cfg, prompt)
		if err != nil && !isRetryable(ctx, err) {
			return "", backoff.Permanent(err)
		}
		if err != nil {
			logger.Log.Warn("Model request failed, retrying",
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
		}
		return text, err
	}

	text, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryInterval)),
		backoff.WithMaxTries(uint(cfg.MaxRetries+1)),
	)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("ai.attempts", attempts))
	monitoring.UpstreamDuration.WithLabelValues(cfg.Model, status).Observe(time.Since(start).Seconds())

	return text, err
}

func (s *AIService) chat(ctx context.Context, cfg config.AIConfig, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return strings.TrimSpace(result.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// isRetryable 只有网络错误和 5xx 会重试
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if authOrQuotaPattern.MatchString(err.Error()) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(" + strconv.Itoa(len(s)-n) + " more bytes)"
}
