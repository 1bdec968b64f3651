package support

// 内置分类
const (
	CategoryOrderCancellation Category = "Order_Management_Cancellation"
	CategoryReturnsExchanges  Category = "Returns_Exchanges"
	CategoryShippingDelivery  Category = "Shipping_Delivery"
	CategoryProductIssues     Category = "Product_Service_Issues"
)

// DefaultAngerThreshold 内置愤怒阈值
const DefaultAngerThreshold = 0.7

// DefaultPolicy 内置策略，未提供策略文件时使用
func DefaultPolicy() Policy {
	return Policy{
		Categories: []CategoryRule{
			{
				Name: CategoryOrderCancellation,
				Keywords: []string{
					"cancel", "cancel_request", "proforma_invoice", "cancellation",
					"terminate", "end", "stop", "discontinue",
				},
				Guidance: "1. Acknowledge the customer's request to cancel\n" +
					"2. Explain the cancellation steps clearly\n" +
					"3. Mention any relevant policies or deadlines\n" +
					"4. Offer alternatives if appropriate",
			},
			{
				Name: CategoryReturnsExchanges,
				Keywords: []string{
					"exchange", "how_to_return", "no_proof", "proof_complaint", "receipt",
					"return", "returns", "money back", "reimburse", "refund",
				},
				Guidance: "1. Acknowledge the return or exchange request\n" +
					"2. Explain the return process step by step\n" +
					"3. Mention timeframes and requirements such as proof of purchase\n" +
					"4. Describe what happens next",
			},
			{
				Name: CategoryShippingDelivery,
				Keywords: []string{
					"fw_shipping_process", "missing", "shipping", "status_shipping", "wrong_address",
					"delivery", "shipment", "tracking", "lost package", "package",
				},
				Guidance: "1. Acknowledge the customer's delivery concern\n" +
					"2. Explain how to get tracking information or updates\n" +
					"3. Describe the relevant delivery process\n" +
					"4. Offer concrete solutions for the problem",
			},
			{
				Name: CategoryProductIssues,
				Keywords: []string{
					"complaint", "price", "price_match", "product", "wrong_product",
					"not working", "broken", "error", "bug", "technical", "issue",
					"problem", "fix", "defective", "quality",
				},
				Guidance: "1. Acknowledge the problem with empathy\n" +
					"2. Provide troubleshooting steps if applicable\n" +
					"3. Point to helpful resources\n" +
					"4. Suggest escalation if the issue persists",
			},
			{
				Name: CategoryOtherGeneral,
				Keywords: []string{
					"3f2", "discount_code", "other", "status_return", "unclear_c_request",
					"unsubscribe", "general", "help", "question", "inquiry",
					"password", "reset", "login",
				},
				Guidance: "1. Acknowledge the customer's question\n" +
					"2. Provide the relevant information\n" +
					"3. Point to helpful resources\n" +
					"4. Explain the next steps",
			},
		},
		DefaultCategory:             CategoryOtherGeneral,
		HumanInterventionCategories: nil,
		AngerThreshold:              DefaultAngerThreshold,
	}
}

// DefaultRuleset 编译内置策略
func DefaultRuleset() *Ruleset {
	rs, err := DefaultPolicy().Compile()
	if err != nil {
		panic("default support policy is invalid: " + err.Error())
	}
	return rs
}
