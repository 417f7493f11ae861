package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"travel-ai-planner/internal/domain/ports/adapter"
)

// countTokensLocal estimates prompt tokens offline with tiktoken. Used for
// metrics, so close enough beats an extra network call.
func countTokensLocal(model string, messages []adapter.Message) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
	}
	return total, nil
}
