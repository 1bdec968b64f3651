package policy

import (
	"fmt"
	"os"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"gopkg.in/yaml.v3"
)

// fileRule YAML 中的分类规则
type fileRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Guidance string   `yaml:"guidance"`
}

// filePolicy 策略文件结构
//
//	default_category: Other_General
//	anger_threshold: 0.7
//	human_intervention_categories: [Returns_Exchanges]
//	categories:
//	  - name: Returns_Exchanges
//	    keywords: [refund, return]
//	    guidance: |
//	      1. Acknowledge their request
type filePolicy struct {
	DefaultCategory             string     `yaml:"default_category"`
	AngerThreshold              *float64   `yaml:"anger_threshold"`
	HumanInterventionCategories []string   `yaml:"human_intervention_categories"`
	Categories                  []fileRule `yaml:"categories"`
}

// Parse 解析并编译 YAML 策略
func Parse(data []byte) (*domain.Ruleset, error) {
	var fp filePolicy
	if err := yaml.Unmarshal(data, &fp); err != nil {
		return nil, fmt.Errorf("failed to parse policy yaml: %w", err)
	}

	p := domain.Policy{
		DefaultCategory: domain.Category(fp.DefaultCategory),
		AngerThreshold:  domain.DefaultAngerThreshold,
	}
	if fp.AngerThreshold != nil {
		p.AngerThreshold = *fp.AngerThreshold
	}
	for _, c := range fp.HumanInterventionCategories {
		p.HumanInterventionCategories = append(p.HumanInterventionCategories, domain.Category(c))
	}
	for _, r := range fp.Categories {
		p.Categories = append(p.Categories, domain.CategoryRule{
			Name:     domain.Category(r.Name),
			Keywords: r.Keywords,
			Guidance: r.Guidance,
		})
	}

	rs, err := p.Compile()
	if err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return rs, nil
}

// LoadFile 从文件加载策略
func LoadFile(path string) (*domain.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Marshal 将策略序列化为 YAML（supportctl policy 使用）
func Marshal(p domain.Policy) ([]byte, error) {
	fp := filePolicy{
		DefaultCategory: string(p.DefaultCategory),
		AngerThreshold:  &p.AngerThreshold,
	}
	for _, c := range p.HumanInterventionCategories {
		fp.HumanInterventionCategories = append(fp.HumanInterventionCategories, string(c))
	}
	for _, r := range p.Categories {
		fp.Categories = append(fp.Categories, fileRule{
			Name:     string(r.Name),
			Keywords: r.Keywords,
			Guidance: r.Guidance,
		})
	}
	return yaml.Marshal(fp)
}
