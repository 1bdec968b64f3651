package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_ShortText(t *testing.T) {
	chunks := NewSplitter(1000, 20).Split("  short text  ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartIndex)
}

func TestSplitter_Empty(t *testing.T) {
	assert.Empty(t, NewSplitter(10, 2).Split(""))
	assert.Empty(t, NewSplitter(10, 2).Split("   "))
}

func TestSplitter_RespectsSizeAndOverlap(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := NewSplitter(100, 20).Split(text)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 100)
		assert.False(t, strings.HasPrefix(c.Text, " "))
	}
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].StartIndex, chunks[i-1].StartIndex)
	}
}

func TestSplitter_RuneSafe(t *testing.T) {
	text := strings.Repeat("退款申请", 100)
	chunks := NewSplitter(50, 5).Split(text)

	require.NotEmpty(t, chunks)
	assert.Equal(t, 50, utf8.RuneCountInString(chunks[0].Text))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.Text))
	}
}

func TestSplitter_BreaksOnWhitespace(t *testing.T) {
	text := "aaaa bbbb cccc dddd"
	chunks := NewSplitter(12, 0).Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa bbbb", chunks[0].Text)
	assert.Equal(t, "cccc dddd", chunks[1].Text)
}

func TestNewSplitter_InvalidOverlap(t *testing.T) {
	s := NewSplitter(10, 10)
	assert.Equal(t, 0, s.overlap)
	s = NewSplitter(0, -1)
	assert.Equal(t, DefaultChunkSize, s.size)
}
