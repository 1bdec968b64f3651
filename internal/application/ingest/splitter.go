package ingest

import (
	"strings"
	"unicode"
)

// 默认切分参数
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 20
)

// Chunk 切分后的片段
type Chunk struct {
	Text string
	// StartIndex 片段在原文中的起始字符（rune）位置
	StartIndex int
}

// Splitter 按字符数切分文本，尽量在空白处断开，相邻片段有重叠
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter 创建 Splitter
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Splitter{size: size, overlap: overlap}
}

// Split 切分文本
func (s *Splitter) Split(text string) []Chunk {
	runes := []rune(text)
	n := len(runes)
	var chunks []Chunk

	for start := 0; start < n; {
		end := min(start+s.size, n)
		if end < n {
			end = s.breakPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, Chunk{Text: piece, StartIndex: start})
		}
		if end >= n {
			break
		}

		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// breakPoint 在窗口后半段寻找最后一个换行或空白，找不到则硬切
func (s *Splitter) breakPoint(runes []rune, start, end int) int {
	floor := start + s.size/2
	for i := end; i > floor; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
