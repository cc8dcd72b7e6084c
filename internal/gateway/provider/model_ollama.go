package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"palmvote/internal/logger"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 1 << 20

// OllamaChatClient 调用本地 Ollama 的 /api/chat（非流式）。
type OllamaChatClient struct {
	BaseURL     string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

func NewOllamaChatClient(baseURL, model string, temperature float64) *OllamaChatClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaChatClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       model,
		Temperature: temperature,
		HTTPClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *OllamaChatClient) ID() string {
	return "ollama:" + c.Model
}

func (c *OllamaChatClient) Call(ctx context.Context, payload ChatPayload) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    c.Model,
		Messages: buildMessages(payload),
		Stream:   false,
		Options:  map[string]any{"temperature": c.Temperature},
	})
	if err != nil {
		return "", err
	}
	url := c.BaseURL + "/api/chat"
	logger.Debugf("[AI] 请求: POST %s model=%s", url, c.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama connection failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("ollama read body failed: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		msg := strings.TrimSpace(gjson.GetBytes(raw, "error").String())
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("ollama status=%d: %s", resp.StatusCode, msg)
	}
	return extractContent(raw, "message.content")
}

func (c *OllamaChatClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func buildMessages(payload ChatPayload) []chatMessage {
	messages := make([]chatMessage, 0, 2)
	if payload.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: payload.System})
	}
	return append(messages, chatMessage{Role: "user", Content: payload.User})
}

// extractContent 从响应 JSON 中取出文本；路径缺失视为响应格式错误。
func extractContent(raw []byte, path string) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("malformed response: invalid json")
	}
	content := gjson.GetBytes(raw, path)
	if !content.Exists() || content.Type != gjson.String {
		return "", fmt.Errorf("malformed response: missing %s", path)
	}
	return content.String(), nil
}
