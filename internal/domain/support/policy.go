package support

import (
	"fmt"
	"strings"
)

// CategoryRule 单个分类的关键词与回复指引
// 规则在 Policy.Categories 中的顺序即匹配优先级
type CategoryRule struct {
	Name     Category `json:"name"`
	Keywords []string `json:"keywords"`
	Guidance string   `json:"guidance"`
}

// Policy 可外部配置的路由策略
type Policy struct {
	// Categories 有序分类列表，靠前的优先匹配
	Categories []CategoryRule `json:"categories"`
	// DefaultCategory 未命中任何关键词时的分类
	DefaultCategory Category `json:"default_category"`
	// HumanInterventionCategories 必须人工处理的分类
	HumanInterventionCategories []Category `json:"human_intervention_categories"`
	// AngerThreshold 愤怒值超过该阈值即转人工
	AngerThreshold float64 `json:"anger_threshold"`
}

// Normalize 规范化关键词（去空白、转小写、去重）
func (p *Policy) Normalize() {
	if p.DefaultCategory == "" {
		p.DefaultCategory = CategoryOtherGeneral
	}
	for i := range p.Categories {
		rule := &p.Categories[i]
		rule.Name = Category(strings.TrimSpace(string(rule.Name)))
		seen := make(map[string]struct{}, len(rule.Keywords))
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		rule.Keywords = keywords
		rule.Guidance = strings.TrimSpace(rule.Guidance)
	}
}

// Validate 校验策略
func (p *Policy) Validate() error {
	if len(p.Categories) == 0 {
		return fmt.Errorf("policy must define at least one category")
	}
	if p.AngerThreshold < 0 || p.AngerThreshold > 1 {
		return fmt.Errorf("anger_threshold %v outside [0,1]", p.AngerThreshold)
	}

	names := make(map[Category]struct{}, len(p.Categories))
	for i, rule := range p.Categories {
		if rule.Name == "" {
			return fmt.Errorf("category #%d has no name", i)
		}
		if rule.Name == CategoryError || rule.Name == CategoryUnknown {
			return fmt.Errorf("category name %q is reserved", rule.Name)
		}
		if _, dup := names[rule.Name]; dup {
			return fmt.Errorf("duplicate category %q", rule.Name)
		}
		names[rule.Name] = struct{}{}
	}

	if _, ok := names[p.DefaultCategory]; !ok {
		return fmt.Errorf("default category %q is not defined", p.DefaultCategory)
	}
	for _, c := range p.HumanInterventionCategories {
		if _, ok := names[c]; !ok {
			return fmt.Errorf("human intervention category %q is not defined", c)
		}
	}
	return nil
}

// CategoryNames 按优先级返回所有分类名
func (p *Policy) CategoryNames() []Category {
	out := make([]Category, len(p.Categories))
	for i, rule := range p.Categories {
		out[i] = rule.Name
	}
	return out
}

// Has 分类是否在策略中定义
func (p *Policy) Has(c Category) bool {
	for _, rule := range p.Categories {
		if rule.Name == c {
			return true
		}
	}
	return false
}

// Guidance 返回分类的回复指引，未定义时回退到默认分类的指引
func (p *Policy) Guidance(c Category) string {
	var fallback string
	for _, rule := range p.Categories {
		if rule.Name == c {
			return rule.Guidance
		}
		if rule.Name == p.DefaultCategory {
			fallback = rule.Guidance
		}
	}
	return fallback
}

// Ruleset 编译后的只读策略快照
type Ruleset struct {
	Policy     Policy
	Classifier *KeywordClassifier
	Handoff    *HandoffPolicy
}

// Compile 规范化、校验并编译策略
func (p Policy) Compile() (*Ruleset, error) {
	p.Categories = cloneRules(p.Categories)
	p.HumanInterventionCategories = append([]Category(nil), p.HumanInterventionCategories...)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Ruleset{
		Policy:     p,
		Classifier: NewKeywordClassifier(&p),
		Handoff:    NewHandoffPolicy(p.HumanInterventionCategories, p.AngerThreshold),
	}, nil
}

func cloneRules(rules []CategoryRule) []CategoryRule {
	out := make([]CategoryRule, len(rules))
	for i, r := range rules {
		out[i] = CategoryRule{
			Name:     r.Name,
			Keywords: append([]string(nil), r.Keywords...),
			Guidance: r.Guidance,
		}
	}
	return out
}
