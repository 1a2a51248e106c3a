package service

import (
	"codex_backend/internal/model"
	"codex_backend/internal/repository"
	"codex_backend/internal/util"
	"codex_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"strings"
)

type HistoryService struct {
	repo  *repository.HistoryRepository
	limit int
}

func NewHistoryService(repo *repository.HistoryRepository, limit int) *HistoryService {
	if limit <= 0 {
		limit = 20
	}
	return &HistoryService{repo: repo, limit: limit}
}

func observe(op string, err error) {
	status := "ok"
	switch {
	case errors.Is(err, util.ErrNotFound):
		status = "not_found"
	case errors.Is(err, util.ErrValidation):
		status = "invalid"
	case err != nil:
		status = "error"
	}
	monitoring.HistoryOperations.WithLabelValues(op, status).Inc()
}

// Save 三个字段都必填，language 必须是支持的语言
func (s *HistoryService) Save(ctx context.Context, userID, code, language string) (h *model.History, err error) {
	defer func() { observe("insert", err) }()

	userID = strings.TrimSpace(userID)
	lang := util.NormalizeLanguage(language)
	if userID == "" || code == "" || lang == "" {
		return nil, fmt.Errorf("%w: user_id, code and language are required", util.ErrValidation)
	}
	if !util.IsSupportedLanguage(lang) {
		return nil, fmt.Errorf("%w: %w %q", util.ErrValidation, util.ErrUnsupportedLanguage, language)
	}

	h = &model.History{
		UserID:   userID,
		Code:     code,
		Language: lang,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, &StoreError{Op: "insert", Err: err}
	}
	return h, nil
}

// List 最近的记录在前，最多返回 limit 条
func (s *HistoryService) List(ctx context.Context, userID string) (list []model.History, err error) {
	defer func() { observe("list", err) }()

	list, err = s.repo.ListByUser(ctx, strings.TrimSpace(userID), s.limit)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return list, nil
}

func (s *HistoryService) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return util.ErrNotFound
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return err
		}
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}
