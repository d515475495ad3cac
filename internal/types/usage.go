package types

// TokenUsage is the provider-neutral token accounting for one completion.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add returns the sum of two usages. A nil operand counts as zero.
func (u *TokenUsage) Add(other *TokenUsage) *TokenUsage {
	if u == nil && other == nil {
		return nil
	}
	sum := &TokenUsage{}
	for _, part := range []*TokenUsage{u, other} {
		if part == nil {
			continue
		}
		sum.InputTokens += part.InputTokens
		sum.OutputTokens += part.OutputTokens
		sum.TotalTokens += part.TotalTokens
	}
	return sum
}
