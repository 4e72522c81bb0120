package corpus

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaxBot/pkg/classifier"
)

func bufferedLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, buf
}

func TestLoad_TrimsAndSkipsEmptyLines(t *testing.T) {
	source := fstest.MapFS{
		"work.txt":              {Data: []byte("  reunião às 10h  \n\n\t\nrelatório do mês\r\n")},
		"local_suggestions.txt": {Data: []byte("onde fica a praça?")},
		"general_questions.txt": {Data: []byte("")},
		"other.txt":             {Data: []byte("bom dia\n")},
	}
	logger, _ := bufferedLogger()

	examples := New(source, logger).Load()

	assert.Equal(t, []classifier.Example{
		{Text: "reunião às 10h", Category: classifier.CategoryWork},
		{Text: "relatório do mês", Category: classifier.CategoryWork},
		{Text: "onde fica a praça?", Category: classifier.CategoryLocalSuggestions},
		{Text: "bom dia", Category: classifier.CategoryOther},
	}, examples)
}

func TestLoad_MissingSourceIsLoggedAndSkipped(t *testing.T) {
	source := fstest.MapFS{
		"work.txt":  {Data: []byte("prazo do projeto\n")},
		"other.txt": {Data: []byte("valeu\n")},
	}
	logger, buf := bufferedLogger()

	examples := New(source, logger).Load()

	require.Len(t, examples, 2)
	assert.Equal(t, classifier.CategoryWork, examples[0].Category)
	assert.Equal(t, classifier.CategoryOther, examples[1].Category)
	assert.Contains(t, buf.String(), "local_suggestions.txt")
	assert.Contains(t, buf.String(), "general_questions.txt")
	assert.Contains(t, buf.String(), `"level":"warning"`)
}

func TestLoad_NilSource(t *testing.T) {
	logger, _ := bufferedLogger()

	assert.Empty(t, New(nil, logger).Load())
}

func TestLoad_WithExtension(t *testing.T) {
	source := fstest.MapFS{
		"work.csv": {Data: []byte("entrega amanhã\n")},
		"work.txt": {Data: []byte("não deve ser lido\n")},
	}
	logger, _ := bufferedLogger()

	examples := New(source, logger, WithExtension("csv")).Load()

	assert.Equal(t, []classifier.Example{
		{Text: "entrega amanhã", Category: classifier.CategoryWork},
	}, examples)
}

func TestDefault_CoversEveryCategory(t *testing.T) {
	logger, buf := bufferedLogger()

	examples := New(Default(), logger).Load()

	counts := map[classifier.Category]int{}
	for _, example := range examples {
		counts[example.Category]++
	}
	for _, category := range classifier.Categories() {
		assert.Greater(t, counts[category], 0, "category %s", category)
	}
	assert.NotContains(t, buf.String(), "warning")
}

func TestDefault_TrainsUsableClassifier(t *testing.T) {
	logger, _ := bufferedLogger()
	c := classifier.New(classifier.WithLogger(logger))
	require.NoError(t, c.Train(New(Default(), logger).Load()))

	result, err := c.Classify("Preciso preparar uma apresentação importante")
	require.NoError(t, err)
	assert.Equal(t, classifier.CategoryWork, result.Category)

	result, err = c.Classify("Alguém conhece um restaurante bom perto daqui?")
	require.NoError(t, err)
	assert.Equal(t, classifier.CategoryLocalSuggestions, result.Category)
}

func TestDefault_RecommendationCueCountsOnce(t *testing.T) {
	logger, _ := bufferedLogger()
	c := classifier.New(classifier.WithLogger(logger))
	require.NoError(t, c.Train(New(Default(), logger).Load()))

	explanation, err := c.Explain("Alguém conhece boa pizzaria?")
	require.NoError(t, err)
	assert.Equal(t, classifier.CategoryLocalSuggestions, explanation.Result.Category)
	assert.Greater(t, explanation.Result.Confidence, 70)

	for _, score := range explanation.Scores {
		if score.Category == classifier.CategoryLocalSuggestions {
			assert.Equal(t, 1, score.PatternMatches)
		}
	}
}

func TestFromDirectory_EmptyFallsBackToDefault(t *testing.T) {
	logger, _ := bufferedLogger()

	assert.Equal(t, New(Default(), logger).Load(), New(FromDirectory(""), logger).Load())
}

func TestMerge(t *testing.T) {
	a := []classifier.Example{{Text: "a", Category: classifier.CategoryWork}}
	b := []classifier.Example{{Text: "b", Category: classifier.CategoryOther}}

	assert.Equal(t, append(append([]classifier.Example{}, a...), b...), Merge(a, b))
	assert.Empty(t, Merge())
}
