package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaxBot/pkg/llm"
)

func TestResponseText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Boa "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("pergunta! "),
			}},
		}},
	}

	text, err := responseText(res)
	require.NoError(t, err)
	assert.Equal(t, "Boa pergunta!", text)
}

func TestResponseText_Empty(t *testing.T) {
	_, err := responseText(nil)
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiClient()
	assert.Error(t, err)
}
