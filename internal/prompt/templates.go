package prompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// NoncePlaceholder 在 user 模板中被替换为每次调用的随机种子（含提示）。
const NoncePlaceholder = "{{nonce}}"

//go:embed schema.json
var templateSchemaJSON string

var templateSchema = jsonschema.MustCompileString("prompt_schema.json", templateSchemaJSON)

// Hints 是注入到 user 文本中的两条噪声提示。
type Hints struct {
	Front string `yaml:"front" json:"front"`
	Back  string `yaml:"back" json:"back"`
}

// Templates 是一次组装所需的全部提示词文本。
type Templates struct {
	System string `yaml:"system" json:"system"`
	User   string `yaml:"user" json:"user"`
	Hints  Hints  `yaml:"hints" json:"hints"`
}

// Default 返回内置模板。
func Default() Templates {
	return Templates{
		System: "你是一个参加博弈游戏的智体。规则：3人玩'手心手背'，少数派获胜。你需要随机选择，避免被预测。",
		User: "随机种子: " + NoncePlaceholder + "。\n\n" +
			"请立即从以下两个选项中随机选一个：\n1. 手心\n2. 手背\n\n" +
			"你的回复必须只包含'手心'或'手背'这4个字，不要有任何其他内容。",
		Hints: Hints{
			Front: "大多数人会选手心",
			Back:  "大多数人会选手背",
		},
	}
}

// Render 用 seed 替换 user 模板中的占位符。
func (t Templates) Render(seed string) string {
	return strings.ReplaceAll(t.User, NoncePlaceholder, seed)
}

// Validate 按内置 JSON schema 校验模板。
func (t Templates) Validate() error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := templateSchema.Validate(doc); err != nil {
		return fmt.Errorf("prompt templates invalid: %w", err)
	}
	return nil
}

// ReadFile 以内置模板为底，叠加 YAML 文件中出现的字段；未知字段报错。
func ReadFile(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read prompt file failed: %w", err)
	}
	tpl := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&tpl); err != nil && !errors.Is(err, io.EOF) {
		return Templates{}, fmt.Errorf("parse prompt file failed: %w", err)
	}
	tpl.System = strings.TrimSpace(tpl.System)
	tpl.User = strings.TrimSpace(tpl.User)
	tpl.Hints.Front = strings.TrimSpace(tpl.Hints.Front)
	tpl.Hints.Back = strings.TrimSpace(tpl.Hints.Back)
	if err := tpl.Validate(); err != nil {
		return Templates{}, err
	}
	return tpl, nil
}
