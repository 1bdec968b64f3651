package support

// EstimateConfidence 根据检索到的相似文档数量给出置信度标签
// 只要有任何历史先例即为 high，否则为 low
func EstimateConfidence(retrievedCount int) ConfidenceLabel {
	if retrievedCount > 0 {
		return ConfidenceHigh
	}
	return ConfidenceLow
}
