package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RunCompletedEvent 排班生成完成事件载荷
type RunCompletedEvent struct {
	RunID       string `json:"runId"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	NumWeeks    int    `json:"numWeeks"`
	Days        int    `json:"days"`
	GeneratedAt string `json:"generatedAt"` // RFC3339
}

// Webhook 生成完成后把事件 POST 到配置的 URL。
// URL 为空时禁用；失败只记日志，不影响生成流程
type Webhook struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhook 创建 webhook 通知器
func NewWebhook(url string, logger *zap.Logger) *Webhook {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client, url: url, logger: logger}
}

// Enabled 是否配置了通知地址
func (w *Webhook) Enabled() bool { return w != nil && w.url != "" }

// RunCompleted 发送生成完成事件
func (w *Webhook) RunCompleted(ctx context.Context, event RunCompletedEvent) {
	if !w.Enabled() {
		return
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(w.url)
	if err != nil {
		w.logger.Warn("schedule webhook failed",
			zap.String("url", w.url),
			zap.String("run_id", event.RunID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		w.logger.Warn("schedule webhook rejected",
			zap.String("url", w.url),
			zap.String("run_id", event.RunID),
			zap.Int("status", resp.StatusCode()),
		)
	}
}
