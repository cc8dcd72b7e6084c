package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"palmvote/internal/logger"

	"github.com/tidwall/gjson"
)

// OpenAIChatClient：兼容 OpenAI / DeepSeek / Qwen 的聊天补全接口（/v1/chat/completions）。
type OpenAIChatClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	// 429/5xx 的重试次数；0 表示默认 2 次，负数表示不重试
	MaxRetries   int
	ExtraHeaders map[string]string
	HTTPClient   *http.Client
}

type openAIChatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

func (c *OpenAIChatClient) ID() string {
	return "openai:" + c.Model
}

func (c *OpenAIChatClient) endpoint() string {
	url := strings.TrimRight(c.BaseURL, "/")
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	// 配置里可能已带上 /chat/completions，统一去掉后再追加一次
	url = strings.TrimSuffix(url, "/chat/completions")
	return url + "/chat/completions"
}

func (c *OpenAIChatClient) Call(ctx context.Context, payload ChatPayload) (string, error) {
	maxRetries := c.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	body, err := json.Marshal(openAIChatRequest{
		Model:       c.Model,
		Messages:    buildMessages(payload),
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", err
	}
	url := c.endpoint()
	logger.Debugf("[AI] 请求: POST %s model=%s key=%s", url, c.Model, maskKey(c.APIKey))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		out, retryAfter, err := c.do(ctx, url, body)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if retryAfter < 0 || attempt == maxRetries {
			break
		}
		if retryAfter == 0 {
			// 指数退避：0.8s, 1.6s, 3.2s ... 上限 8s
			retryAfter = min(800*time.Millisecond<<attempt, 8*time.Second)
		}
		timer := time.NewTimer(retryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return "", lastErr
}

// do 执行一次请求；retryAfter < 0 表示不可重试。
func (c *OpenAIChatClient) do(ctx context.Context, url string, body []byte) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", -1, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	for k, v := range c.ExtraHeaders {
		req.Header.Set(k, v)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", -1, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", -1, err
	}
	if resp.StatusCode/100 == 2 {
		out, err := extractContent(raw, "choices.0.message.content")
		return out, -1, err
	}
	msg := strings.TrimSpace(gjson.GetBytes(raw, "error.message").String())
	if msg == "" {
		msg = resp.Status
	}
	statusErr := fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		wait := time.Duration(0)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.Atoi(ra); perr == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		return "", wait, statusErr
	default:
		return "", -1, statusErr
	}
}

func maskKey(key string) string {
	if key == "" {
		return "-"
	}
	if len(key) > 4 {
		return "****" + key[len(key)-4:]
	}
	return "****"
}
