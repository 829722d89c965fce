package memory

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

const summaryPrompt = `Progressively summarize the conversation below, adding onto the
previous summary and returning a new summary. Keep concrete facts the
assistant may need later: items discussed, quantities, prices, and
preferences the customer stated.

Previous summary:
%s

New lines of conversation:
%s

New summary:`

// OpenAISummarizer folds conversation turns into a summary with a
// single flat chat-completion call.
type OpenAISummarizer struct {
	client *openaisdk.Client
	model  string
}

func NewOpenAISummarizer(client *openaisdk.Client, model string) (*OpenAISummarizer, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: summary model is required", contractx.ErrValidation)
	}
	return &OpenAISummarizer{client: client, model: strings.TrimSpace(model)}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, prior string, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return prior, nil
	}

	var lines strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&lines, "Human: %s\nAI: %s\n", t.Input, t.Output)
	}
	if prior == "" {
		prior = "(none)"
	}

	resp, err := s.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(s.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(fmt.Sprintf(summaryPrompt, prior, lines.String())),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: summary completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: summary completion returned no choices", contractx.ErrSchemaViolation)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
