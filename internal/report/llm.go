package report

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// phrasingInstruction keeps the model on a short, warm, plain-language
// register appropriate for seniors.
const phrasingInstruction = "You write short, warm, plain-language weekly medication summaries " +
	"for an elderly reader. Two or three encouraging sentences, no medical advice, no emojis."

// Phraser turns raw adherence numbers into friendly prose.
type Phraser interface {
	Phrase(ctx context.Context, prompt string) (string, error)
}

// OpenAIPhraser calls the OpenAI chat completion API.
type OpenAIPhraser struct {
	client *openai.Client
	model  string
}

func NewOpenAIPhraser(apiKey, model string) *OpenAIPhraser {
	return &OpenAIPhraser{client: openai.NewClient(apiKey), model: model}
}

func (p *OpenAIPhraser) Phrase(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", errors.New("openai client not initialized")
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: phrasingInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
