package classifier

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func scenarioExamples() []Example {
	return []Example{
		{Text: "preciso revisar o relatório", Category: CategoryWork},
		{Text: "onde fica um bom restaurante", Category: CategoryLocalSuggestions},
		{Text: "como funciona a internet", Category: CategoryGeneralQuestions},
		{Text: "vocês já foram a um show", Category: CategoryOther},
	}
}

func trainedClassifier(t *testing.T, examples []Example) *Classifier {
	t.Helper()
	c := New(WithLogger(quietLogger()))
	require.NoError(t, c.Train(examples))
	return c
}

func TestClassify_EndToEndScenario(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	result, err := c.Classify("Preciso entregar o relatório urgente")
	require.NoError(t, err)
	assert.Equal(t, CategoryWork, result.Category)

	result, err = c.Classify("Onde encontro uma boa academia?")
	require.NoError(t, err)
	assert.Equal(t, CategoryLocalSuggestions, result.Category)
}

func TestClassify_NotTrained(t *testing.T) {
	c := New(WithLogger(quietLogger()))

	_, err := c.Classify("qualquer coisa")
	require.ErrorIs(t, err, ErrNotTrained)

	_, err = c.Explain("qualquer coisa")
	require.ErrorIs(t, err, ErrNotTrained)
	assert.False(t, c.Trained())
}

func TestClassify_FallbackOnNonsense(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	for _, input := range []string{"1234 !!! ###", "", "   ", "?!"} {
		result, err := c.Classify(input)
		require.NoError(t, err)
		assert.Equal(t, Fallback, result.Category, "input %q", input)
		assert.Equal(t, 0, result.Confidence, "input %q", input)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	first, err := c.Classify("Como funciona a reunião do projeto?")
	require.NoError(t, err)
	second, err := c.Classify("Como funciona a reunião do projeto?")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	inputs := []string{
		"preciso revisar o relatório",
		"onde fica um bom restaurante perto da praça",
		"Quem foi o primeiro homem a pisar na Lua?",
		"vocês já foram a um show",
		"relatório relatório relatório",
		"ééé ààà",
		"",
	}
	for _, input := range inputs {
		result, err := c.Classify(input)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Confidence, 0, "input %q", input)
		assert.LessOrEqual(t, result.Confidence, 100, "input %q", input)
	}
}

func TestClassify_CategoryCoverage(t *testing.T) {
	examples := []Example{
		{Text: "preciso revisar o relatório do cliente", Category: CategoryWork},
		{Text: "onde fica um bom restaurante", Category: CategoryLocalSuggestions},
		{Text: "como funciona a internet", Category: CategoryGeneralQuestions},
		{Text: "estou aprendendo a tocar violão", Category: CategoryOther},
	}
	c := trainedClassifier(t, examples)

	for _, example := range examples {
		result, err := c.Classify(example.Text + "!")
		require.NoError(t, err)
		assert.Equal(t, example.Category, result.Category, "text %q", example.Text)
		assert.Greater(t, result.Confidence, 0)
	}
}

func TestClassify_PatternDominance(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	explanation, err := c.Explain("amanhã tem reunião com a equipe")
	require.NoError(t, err)

	assert.Equal(t, CategoryWork, explanation.Result.Category)
	for _, score := range explanation.Scores {
		if score.Category == CategoryWork {
			assert.Zero(t, score.Similarity)
			assert.Equal(t, 2, score.PatternMatches)
		}
	}
}

func TestExplain_DirectQuestionBonus(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())

	explanation, err := c.Explain("Quando abre o mercado?")
	require.NoError(t, err)

	for _, score := range explanation.Scores {
		if score.Category == CategoryGeneralQuestions {
			assert.Equal(t, DefaultWeights().DirectQuestion, score.QuestionBonus)
		} else {
			assert.Zero(t, score.QuestionBonus)
		}
	}
	assert.Equal(t, CategoryGeneralQuestions, explanation.Result.Category)
	assert.Equal(t, []string{"quando", "abre", "o", "mercado"}, explanation.Tokens)
}

func TestClassify_TieGoesToPriorityOrder(t *testing.T) {
	rules := MustCompileRules(map[Category][]string{
		CategoryWork:             {`\bping\b`},
		CategoryLocalSuggestions: {`\bping\b`},
	})
	c := New(WithLogger(quietLogger()), WithRules(rules))
	require.NoError(t, c.Train([]Example{{Text: "bom dia", Category: CategoryOther}}))

	result, err := c.Classify("ping")
	require.NoError(t, err)
	assert.Equal(t, CategoryWork, result.Category)
	assert.Equal(t, 50, result.Confidence)
}

func TestTrain_EmptyExamplesIsTolerated(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	require.NoError(t, c.Train(nil))

	for _, text := range []string{"estou aprendendo violão", "relatório com prazo", "Qual restaurante perto daqui?"} {
		result, err := c.Classify(text)
		require.NoError(t, err)
		assert.Equal(t, Result{Category: Fallback, Confidence: 0}, result, text)
	}
	assert.True(t, c.Stats().Trained)
	assert.Zero(t, c.Stats().Vocabulary)

	explanation, err := c.Explain("relatório com prazo")
	require.NoError(t, err)
	require.Len(t, explanation.Scores, 4)
	for _, score := range explanation.Scores {
		assert.Zero(t, score.PatternMatches, score.Category)
		assert.Zero(t, score.Score, score.Category)
	}
}

func TestTrain_UnknownCategoryKeepsPreviousModel(t *testing.T) {
	c := New(WithLogger(quietLogger()))

	err := c.Train([]Example{{Text: "oi", Category: "sports"}})
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.False(t, c.Trained())

	require.NoError(t, c.Train(scenarioExamples()))
	before := c.Stats()

	err = c.Train([]Example{{Text: "oi", Category: "trabalho"}})
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, before, c.Stats())
}

func TestTrain_RebuildsFromScratch(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())
	require.Equal(t, 4, sumDocuments(c.Stats()))

	require.NoError(t, c.Train([]Example{
		{Text: "prazo do projeto", Category: CategoryWork},
	}))

	stats := c.Stats()
	assert.Equal(t, 1, sumDocuments(stats))
	assert.Equal(t, 3, stats.Vocabulary)
	assert.Equal(t, 0, stats.Documents[CategoryOther])
}

func TestClassify_ConcurrentReaders(t *testing.T) {
	c := trainedClassifier(t, scenarioExamples())
	want, err := c.Classify("Onde encontro uma boa academia?")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Classify("Onde encontro uma boa academia?")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func sumDocuments(s Stats) int {
	total := 0
	for _, n := range s.Documents {
		total += n
	}
	return total
}
