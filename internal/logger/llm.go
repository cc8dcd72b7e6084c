package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

var (
	llmMu  sync.Mutex
	llmLog *log.Logger
)

// SetLLMWriter 设置模型请求/响应的转录输出；nil 表示关闭。
func SetLLMWriter(w io.Writer) {
	llmMu.Lock()
	defer llmMu.Unlock()
	if w == nil {
		llmLog = nil
		return
	}
	llmLog = log.New(w, "", log.LstdFlags)
}

// LLMEnabled reports whether transcripts are being recorded.
func LLMEnabled() bool {
	llmMu.Lock()
	defer llmMu.Unlock()
	return llmLog != nil
}

type llmSection struct {
	Title string
	Body  string
}

func logLLM(kind, agent, provider string, sections []llmSection) {
	llmMu.Lock()
	l := llmLog
	llmMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[LLM]")
	for _, tag := range []string{kind, agent, provider} {
		if tag == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(title)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func LogLLMRequest(agent, provider, systemPrompt, userPrompt string) {
	logLLM("request", agent, provider, []llmSection{
		{Title: "SYSTEM", Body: systemPrompt},
		{Title: "USER", Body: userPrompt},
	})
}

func LogLLMResponse(agent, provider, raw string) {
	logLLM("response", agent, provider, []llmSection{{Title: "RAW", Body: raw}})
}

func LogLLMError(agent, provider string, err error) {
	if err == nil {
		return
	}
	logLLM("error", agent, provider, []llmSection{{Title: "ERROR", Body: err.Error()}})
}
