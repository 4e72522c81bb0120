// Package llm holds what the answer providers share: the interface services
// depend on, prompts, and parsing of the model's short replies.
package llm

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVO"
	SentimentNegative Sentiment = "NEGATIVO"
	SentimentNeutral  Sentiment = "NEUTRO"
)

const (
	SystemPrompt    = "Você é um assistente útil que fornece respostas precisas e concisas em português."
	SentimentPrompt = "Analise o sentimento do texto fornecido e retorne apenas: POSITIVO, NEGATIVO ou NEUTRO"

	Temperature          = 0.7
	MaxTokens            = 300
	SentimentTemperature = 0.3
	SentimentMaxTokens   = 10
)

const (
	ContextWork        = "No contexto profissional e de trabalho:"
	ContextEducational = "Respondendo de forma informativa e educacional:"
	ContextFriendly    = "Respondendo de forma amigável e helpful:"
)

var ErrEmptyCompletion = errors.New("model returned no content")

type ILLM interface {
	GenerateAnswer(ctx context.Context, contextPrompt, question string) (string, error)
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
	RateRelevance(ctx context.Context, question, excerpt string) (int, error)
}

// UserPrompt joins the category context with the question.
func UserPrompt(contextPrompt, question string) string {
	contextPrompt = strings.TrimSpace(contextPrompt)
	if contextPrompt == "" {
		return question
	}
	return contextPrompt + " " + question
}

func RelevancePrompt(question, excerpt string) string {
	return "Pergunta: \"" + question + "\"\n" +
		"Trecho de conversa: \"" + excerpt + "\"\n\n" +
		"Em uma escala de 0 a 100, qual a relevância deste trecho de conversa para responder à pergunta acima? Retorne apenas o número."
}

var firstNumber = regexp.MustCompile(`\d+`)

// ParseScore reads the first integer in reply, clamped to 0..100. A reply
// without digits scores 0.
func ParseScore(reply string) int {
	match := firstNumber.FindString(reply)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// ParseSentiment maps a free-form reply to a label, defaulting to neutral.
func ParseSentiment(reply string) Sentiment {
	upper := strings.ToUpper(reply)
	switch {
	case strings.Contains(upper, string(SentimentNegative)):
		return SentimentNegative
	case strings.Contains(upper, string(SentimentPositive)):
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
