package openai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"MaxBot/pkg/llm"
)

type IChatGPT interface {
	llm.ILLM
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT() IChatGPT {
	return NewChatGPTWithConfig(openai.DefaultConfig(os.Getenv("OPENAI_API_KEY")), os.Getenv("OPENAI_CHAT_MODEL"))
}

func NewChatGPTWithConfig(config openai.ClientConfig, model string) IChatGPT {
	if model == "" {
		model = openai.GPT4Turbo
	}

	return &chatGPTService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *chatGPTService) GenerateAnswer(ctx context.Context, contextPrompt, question string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: llm.UserPrompt(contextPrompt, question)},
		},
		Temperature: llm.Temperature,
		MaxTokens:   llm.MaxTokens,
	})
}

func (c *chatGPTService) AnalyzeSentiment(ctx context.Context, text string) (llm.Sentiment, error) {
	reply, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: llm.SentimentTemperature,
		MaxTokens:   llm.SentimentMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return llm.ParseSentiment(reply), nil
}

func (c *chatGPTService) RateRelevance(ctx context.Context, question, excerpt string) (int, error) {
	reply, err := c.GenerateAnswer(ctx, "", llm.RelevancePrompt(question, excerpt))
	if err != nil {
		return 0, err
	}
	return llm.ParseScore(reply), nil
}

func (c *chatGPTService) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyCompletion
	}
	return content, nil
}
