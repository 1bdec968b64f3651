package support

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/supportdesk/backend/internal/domain/support"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Judgment
		wantErr  bool
	}{
		{
			name: "plain json",
			raw:  `{"category":"Returns_Exchanges","confidence":0.92,"anger_level":0.2,"explanation":"asks for refund"}`,
			expected: domain.Judgment{
				Category: domain.CategoryReturnsExchanges, Confidence: 0.92, AngerLevel: 0.2, Explanation: "asks for refund",
			},
		},
		{
			name: "markdown fenced",
			raw:  "```json\n{\"category\": \"Shipping_Delivery\", \"confidence\": 0.5, \"anger_level\": 0.8}\n```",
			expected: domain.Judgment{
				Category: domain.CategoryShippingDelivery, Confidence: 0.5, AngerLevel: 0.8,
			},
		},
		{
			name: "surrounding prose",
			raw:  "Sure! Here is the result: {\"category\": \"Other_General\", \"confidence\": 0.4, \"anger_level\": 0} Hope it helps.",
			expected: domain.Judgment{
				Category: domain.CategoryOtherGeneral, Confidence: 0.4, AngerLevel: 0,
			},
		},
		{
			name: "missing scores use fallback values",
			raw:  `{"category":"Other_General"}`,
			expected: domain.Judgment{
				Category: domain.CategoryOtherGeneral, Confidence: 0, AngerLevel: 0.5,
			},
		},
		{name: "not json", raw: "I think it's about shipping", wantErr: true},
		{name: "broken json", raw: `{"category": "Other_General",`, wantErr: true},
		{name: "missing category", raw: `{"confidence": 0.3}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJudgment(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrMalformedOutput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestModelJudge_Judge(t *testing.T) {
	gen := &fakeGenerator{reply: `{"category":"Product_Service_Issues","confidence":0.7,"anger_level":0.95,"explanation":"broken item"}`}
	judge := NewModelJudge(gen, NewPromptBuilder(nil, 0))
	policy := domain.DefaultPolicy()

	got, err := judge.Judge(context.Background(), "it arrived broken!!!", policy.CategoryNames())
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryProductIssues, got.Category)
	assert.Equal(t, 0.95, got.AngerLevel)

	// 分类 Prompt 列出所有已配置分类
	require.Len(t, gen.prompts, 1)
	for _, c := range policy.CategoryNames() {
		assert.Contains(t, gen.prompts[0], string(c))
	}
	assert.Contains(t, gen.prompts[0], "it arrived broken!!!")
}

func TestModelJudge_MalformedOutputFallsBack(t *testing.T) {
	gen := &fakeGenerator{reply: "no idea"}
	judge := NewModelJudge(gen, NewPromptBuilder(nil, 0))

	got, err := judge.Judge(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackJudgment(), got)
}

func TestModelJudge_TransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("503")}
	judge := NewModelJudge(gen, NewPromptBuilder(nil, 0))

	_, err := judge.Judge(context.Background(), "hello", nil)
	require.Error(t, err)
}
