package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := map[string]int{
		"85":                 85,
		"Relevância: 40/100": 40,
		"999":                100,
		"nenhuma":            0,
		"":                   0,
	}
	for reply, want := range tests {
		assert.Equal(t, want, ParseScore(reply), "reply %q", reply)
	}
}

func TestParseSentiment(t *testing.T) {
	assert.Equal(t, SentimentPositive, ParseSentiment(" positivo\n"))
	assert.Equal(t, SentimentNegative, ParseSentiment("NEGATIVO."))
	assert.Equal(t, SentimentNeutral, ParseSentiment("NEUTRO"))
	assert.Equal(t, SentimentNeutral, ParseSentiment("não sei"))
}

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, "No contexto profissional e de trabalho: qual o prazo?",
		UserPrompt("No contexto profissional e de trabalho: ", "qual o prazo?"))
	assert.Equal(t, "qual o prazo?", UserPrompt("", "qual o prazo?"))
}
