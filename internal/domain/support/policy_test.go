package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Compiles(t *testing.T) {
	rs := DefaultRuleset()

	assert.Equal(t, []Category{
		CategoryOrderCancellation,
		CategoryReturnsExchanges,
		CategoryShippingDelivery,
		CategoryProductIssues,
		CategoryOtherGeneral,
	}, rs.Policy.CategoryNames())
	assert.Equal(t, CategoryOtherGeneral, rs.Policy.DefaultCategory)
	assert.Equal(t, DefaultAngerThreshold, rs.Handoff.Threshold())
}

func TestPolicy_Validate(t *testing.T) {
	valid := func() Policy {
		return Policy{
			Categories: []CategoryRule{
				{Name: "A", Keywords: []string{"a"}},
				{Name: "B", Keywords: []string{"b"}},
			},
			DefaultCategory:             "B",
			HumanInterventionCategories: []Category{"A"},
			AngerThreshold:              0.5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr string
	}{
		{"valid", func(p *Policy) {}, ""},
		{"no categories", func(p *Policy) { p.Categories = nil }, "at least one category"},
		{"threshold too high", func(p *Policy) { p.AngerThreshold = 1.5 }, "anger_threshold"},
		{"threshold negative", func(p *Policy) { p.AngerThreshold = -0.1 }, "anger_threshold"},
		{"duplicate", func(p *Policy) { p.Categories[1].Name = "A" }, "duplicate category"},
		{"empty name", func(p *Policy) { p.Categories[0].Name = "" }, "has no name"},
		{"reserved name", func(p *Policy) { p.Categories[0].Name = CategoryError }, "reserved"},
		{"unknown default", func(p *Policy) { p.DefaultCategory = "Z" }, "default category"},
		{"unknown human category", func(p *Policy) { p.HumanInterventionCategories = []Category{"Z"} }, "human intervention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			_, err := p.Compile()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestPolicy_CompileDoesNotMutateInput 编译不修改原始策略
func TestPolicy_CompileDoesNotMutateInput(t *testing.T) {
	p := Policy{
		Categories:      []CategoryRule{{Name: "A", Keywords: []string{" UPPER ", "upper", ""}}},
		DefaultCategory: "A",
	}

	rs, err := p.Compile()
	require.NoError(t, err)

	assert.Equal(t, []string{" UPPER ", "upper", ""}, p.Categories[0].Keywords)
	assert.Equal(t, []string{"upper"}, rs.Policy.Categories[0].Keywords)
}

func TestPolicy_DefaultCategoryFilledIn(t *testing.T) {
	p := Policy{Categories: []CategoryRule{{Name: CategoryOtherGeneral}}}

	rs, err := p.Compile()
	require.NoError(t, err)
	assert.Equal(t, CategoryOtherGeneral, rs.Policy.DefaultCategory)
}

func TestPolicy_Guidance(t *testing.T) {
	rs := DefaultRuleset()

	assert.Contains(t, rs.Policy.Guidance(CategoryShippingDelivery), "tracking")
	// 未知分类回退到默认分类的指引
	assert.Equal(t, rs.Policy.Guidance(CategoryOtherGeneral), rs.Policy.Guidance("Nope"))
	assert.True(t, rs.Policy.Has(CategoryReturnsExchanges))
	assert.False(t, rs.Policy.Has(CategoryUnknown))
}
