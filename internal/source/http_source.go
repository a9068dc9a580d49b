package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// resultSuccess 后端 Result 包装的成功码（与 owlFront ResultEnum.SUCCESS 一致）
const resultSuccess = 2000

// cardsResult 后端 Result 包装
type cardsResult struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  struct {
		Items      []models.MonitorCard `json:"items"`
		Pagination struct {
			Size  int `json:"size"`
			Page  int `json:"page"`
			Count int `json:"count"`
		} `json:"pagination"`
	} `json:"result"`
}

// HTTPCardSource 调用 wisefido-data vital-focus API 的卡片数据源
type HTTPCardSource struct {
	httpClient *resty.Client
	pageSize   int
	tenantID   string
	logger     *zap.Logger
}

// NewHTTPCardSource 创建 HTTP 卡片数据源
func NewHTTPCardSource(cfg *config.Config, logger *zap.Logger, tenantID string) *HTTPCardSource {
	client := resty.New().
		SetBaseURL(cfg.Monitor.API.BaseURL).
		SetTimeout(8 * time.Second). // 必须小于轮询间隔
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPCardSource{
		httpClient: client,
		pageSize:   cfg.Monitor.API.PageSize,
		tenantID:   tenantID,
		logger:     logger,
	}
}

// FetchCards 拉取当前租户的卡片列表
func (s *HTTPCardSource) FetchCards(ctx context.Context) ([]models.MonitorCard, error) {
	var result cardsResult

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("tenant_id", s.tenantID).
		SetQueryParam("page", "1").
		SetQueryParam("pageSize", strconv.Itoa(s.pageSize)).
		SetResult(&result).
		Get("/data/api/v1/data/vital-focus/cards")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("cards API returned HTTP %d", resp.StatusCode())
	}

	if result.Code != resultSuccess {
		return nil, fmt.Errorf("cards API returned code %d: %s", result.Code, result.Message)
	}

	s.logger.Debug("Fetched cards from API",
		zap.Int("card_count", len(result.Result.Items)),
	)

	return result.Result.Items, nil
}
