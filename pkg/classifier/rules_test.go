package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules_AccentedWords(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 1, rules.Matches(CategoryWork, "Terminei o relatório."))
	assert.Equal(t, 1, rules.Matches(CategoryLocalSuggestions, "tem um café aqui?"))
	assert.Equal(t, 1, rules.Matches(CategoryGeneralQuestions, "vocês já viram isso"))
	assert.Zero(t, rules.Matches(CategoryWork, "preciso entregar isso"))
	assert.Zero(t, rules.Matches(CategoryOther, "qualquer texto"))
}

func TestDefaultRules_BoundariesShareSeparator(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 1, rules.Matches(CategoryLocalSuggestions, "Alguém conhece boa pizzaria?"))
	assert.Equal(t, 1, rules.Matches(CategoryLocalSuggestions, "indica bom"))
	assert.Equal(t, 2, rules.Matches(CategoryLocalSuggestions, "Conhecem um lugar bom?"))
	assert.Zero(t, rules.Matches(CategoryLocalSuggestions, "indicabom"))
}

func TestDefaultRules_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 2, DefaultRules().Matches(CategoryWork, "REUNIÃO com a EQUIPE"))
}

func TestDefaultRules_ReturnsCopy(t *testing.T) {
	rules := DefaultRules()
	rules[CategoryWork] = nil

	assert.NotEmpty(t, DefaultRules()[CategoryWork])
}

func TestIsDirectQuestion(t *testing.T) {
	assert.True(t, IsDirectQuestion("Qual é a capital?"))
	assert.True(t, IsDirectQuestion("por que o céu é azul"))
	assert.True(t, IsDirectQuestion("How does it work"))
	assert.False(t, IsDirectQuestion("me diga qual é"))
	assert.False(t, IsDirectQuestion("Qualquer um serve"))
}

func TestCompileRules(t *testing.T) {
	rules, err := CompileRules(map[Category][]string{
		CategoryOther: {`\bviol[ãa]o\b`},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rules.Matches(CategoryOther, "toco violão"))

	_, err = CompileRules(map[Category][]string{"sports": {`x`}})
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, err = CompileRules(map[Category][]string{CategoryWork: {`(`}})
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Work ")
	require.NoError(t, err)
	assert.Equal(t, CategoryWork, c)

	_, err = ParseCategory("trabalho")
	require.ErrorIs(t, err, ErrUnknownCategory)
}
