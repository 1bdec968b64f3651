package support

import "strings"

type keywordRule struct {
	category Category
	keywords []string
}

// KeywordClassifier 基于关键词子串匹配的分类器
// 按分类优先级顺序匹配，第一个命中的分类胜出，不做最佳匹配
type KeywordClassifier struct {
	rules    []keywordRule
	fallback Category
}

// NewKeywordClassifier 根据策略创建分类器，关键词需已规范化为小写
func NewKeywordClassifier(p *Policy) *KeywordClassifier {
	rules := make([]keywordRule, 0, len(p.Categories))
	for _, rule := range p.Categories {
		rules = append(rules, keywordRule{
			category: rule.Name,
			keywords: append([]string(nil), rule.Keywords...),
		})
	}
	fallback := p.DefaultCategory
	if fallback == "" {
		fallback = CategoryOtherGeneral
	}
	return &KeywordClassifier{rules: rules, fallback: fallback}
}

// Classify 返回文本所属分类
func (c *KeywordClassifier) Classify(text string) Category {
	lowered := strings.ToLower(strings.ToValidUTF8(text, ""))
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return c.fallback
}

// MatchedKeyword 返回命中的分类和关键词，未命中时 keyword 为空
func (c *KeywordClassifier) MatchedKeyword(text string) (Category, string) {
	lowered := strings.ToLower(strings.ToValidUTF8(text, ""))
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category, kw
			}
		}
	}
	return c.fallback, ""
}

// Default 兜底分类
func (c *KeywordClassifier) Default() Category {
	return c.fallback
}
