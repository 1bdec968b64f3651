package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Interaction 一条历史客服交互
type Interaction struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	BroadCategory   string `json:"broad_category"`
	CustomerMessage string `json:"customer_message"`
	AgentReply      string `json:"agent_reply"`
}

// Usable 客户消息与坐席回复都非空
func (i Interaction) Usable() bool {
	return strings.TrimSpace(i.CustomerMessage) != "" && strings.TrimSpace(i.AgentReply) != ""
}

// ContextText 写入知识库的正文
func (i Interaction) ContextText() string {
	return fmt.Sprintf("Customer query: %s\nBroad Category: %s\nSpecific Category: %s\nAgent reply: %s",
		i.CustomerMessage, i.BroadCategory, i.Category, i.AgentReply)
}

// LoadFile 读取 JSON 数组或 JSONL 文件
func LoadFile(path string) ([]Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load 自动识别 JSON 数组或 JSONL
func Load(r io.Reader) ([]Interaction, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if first == '[' {
		var items []Interaction
		if err := json.NewDecoder(br).Decode(&items); err != nil {
			return nil, fmt.Errorf("failed to decode interactions: %w", err)
		}
		return items, nil
	}
	return loadLines(br)
}

func loadLines(r io.Reader) ([]Interaction, error) {
	var items []Interaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item Interaction
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// peekNonSpace 跳过前导空白并返回第一个字符（不消费）
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
		default:
			return b[0], nil
		}
	}
}
