package support

import "math"

// HandoffPolicy 转人工决策
type HandoffPolicy struct {
	mandatory map[Category]struct{}
	threshold float64
}

// NewHandoffPolicy 创建转人工策略
func NewHandoffPolicy(mandatory []Category, angerThreshold float64) *HandoffPolicy {
	set := make(map[Category]struct{}, len(mandatory))
	for _, c := range mandatory {
		set[c] = struct{}{}
	}
	return &HandoffPolicy{mandatory: set, threshold: angerThreshold}
}

// ShouldEscalate 分类属于强制人工集合，或愤怒值超过阈值时返回 true
// 愤怒值不在 [0,1] 内返回 *InvalidScoreError，不做截断
func (p *HandoffPolicy) ShouldEscalate(category Category, angerLevel float64) (bool, error) {
	if math.IsNaN(angerLevel) || angerLevel < 0 || angerLevel > 1 {
		return false, &InvalidScoreError{Score: angerLevel}
	}
	if _, ok := p.mandatory[category]; ok {
		return true, nil
	}
	return angerLevel > p.threshold, nil
}

// Threshold 愤怒阈值
func (p *HandoffPolicy) Threshold() float64 {
	return p.threshold
}

// IsMandatory 分类是否必须人工处理
func (p *HandoffPolicy) IsMandatory(category Category) bool {
	_, ok := p.mandatory[category]
	return ok
}
