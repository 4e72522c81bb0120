package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"MaxBot/pkg/llm"
)

type IGemini interface {
	llm.ILLM
	Close() error
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) model(system string, temperature float32, maxTokens int32) *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxTokens)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	return model
}

func (g *geminiClient) GenerateAnswer(ctx context.Context, contextPrompt, question string) (string, error) {
	model := g.model(llm.SystemPrompt, llm.Temperature, llm.MaxTokens)
	return generate(ctx, model, llm.UserPrompt(contextPrompt, question))
}

func (g *geminiClient) AnalyzeSentiment(ctx context.Context, text string) (llm.Sentiment, error) {
	model := g.model(llm.SentimentPrompt, llm.SentimentTemperature, llm.SentimentMaxTokens)
	reply, err := generate(ctx, model, text)
	if err != nil {
		return "", err
	}
	return llm.ParseSentiment(reply), nil
}

func (g *geminiClient) RateRelevance(ctx context.Context, question, excerpt string) (int, error) {
	reply, err := g.GenerateAnswer(ctx, "", llm.RelevancePrompt(question, excerpt))
	if err != nil {
		return 0, err
	}
	return llm.ParseScore(reply), nil
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(res)
}

// responseText concatenates the text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", llm.ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", llm.ErrEmptyCompletion
	}
	return out, nil
}
