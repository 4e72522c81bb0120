// Package classifier assigns short conversational messages to one of a fixed
// set of categories. It blends a TF-IDF centroid model with hand-authored
// regular expression cues and reports a label together with a confidence
// percentage.
//
// A Classifier must be trained before use. Training builds a fresh model and
// swaps it in atomically, so Classify is safe for concurrent callers.
package classifier

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

type Example struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

type Result struct {
	Category   Category `json:"category"`
	Confidence int      `json:"confidence"`
}

// Weights scale the three signals that make up a category score.
type Weights struct {
	TFIDF          float64 `json:"tfidf"`
	Patterns       float64 `json:"patterns"`
	DirectQuestion float64 `json:"direct_question"`
}

func DefaultWeights() Weights {
	return Weights{
		TFIDF:          1.0,
		Patterns:       2.5,
		DirectQuestion: 1.5,
	}
}

type CategoryScore struct {
	Category       Category `json:"category"`
	Similarity     float64  `json:"similarity"`
	PatternMatches int      `json:"pattern_matches"`
	QuestionBonus  float64  `json:"question_bonus"`
	Score          float64  `json:"score"`
}

type Explanation struct {
	Tokens []string        `json:"tokens"`
	Scores []CategoryScore `json:"scores"`
	Result Result          `json:"result"`
}

type Stats struct {
	Trained    bool             `json:"trained"`
	Documents  map[Category]int `json:"documents"`
	Vocabulary int              `json:"vocabulary"`
}

type Option func(*Classifier)

func WithWeights(w Weights) Option {
	return func(c *Classifier) {
		c.weights = w
	}
}

func WithRules(r Rules) Option {
	return func(c *Classifier) {
		c.rules = r
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.log = logger
		}
	}
}

type Classifier struct {
	weights Weights
	rules   Rules
	log     *logrus.Logger

	mu    sync.RWMutex
	model *model
}

// model is the frozen result of one training pass.
type model struct {
	idf       map[string]float64
	centroids map[Category]Vector
	documents map[Category]int
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		weights: DefaultWeights(),
		rules:   defaultRules,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Train discards any previous model and builds a new one from examples.
// An example with a label outside the enumeration aborts training and
// leaves the current model in place.
func (c *Classifier) Train(examples []Example) error {
	docs := make(map[Category][][]string, len(categories))
	for i, example := range examples {
		if !example.Category.Valid() {
			return fmt.Errorf("%w: %q (example %d)", ErrUnknownCategory, example.Category, i)
		}
		docs[example.Category] = append(docs[example.Category], Tokenize(example.Text))
	}

	m := buildModel(docs)

	c.mu.Lock()
	c.model = m
	c.mu.Unlock()

	fields := logrus.Fields{
		"examples":   len(examples),
		"vocabulary": len(m.idf),
	}
	for _, category := range categories {
		fields["docs_"+string(category)] = m.documents[category]
	}
	if len(examples) == 0 {
		c.log.WithFields(fields).Warn("classifier trained without examples")
	} else {
		c.log.WithFields(fields).Info("classifier trained")
	}

	return nil
}

func buildModel(docs map[Category][][]string) *model {
	var all [][]string
	for _, category := range categories {
		all = append(all, docs[category]...)
	}

	m := &model{
		idf:       InverseDocumentFrequency(all),
		centroids: make(map[Category]Vector, len(categories)),
		documents: make(map[Category]int, len(categories)),
	}

	for _, category := range categories {
		centroid := make(Vector)
		for _, doc := range docs[category] {
			for token, weight := range m.weigh(doc) {
				centroid[token] += weight
			}
		}
		if n := len(docs[category]); n > 0 {
			for token := range centroid {
				centroid[token] /= float64(n)
			}
		}
		m.centroids[category] = centroid
		m.documents[category] = len(docs[category])
	}

	return m
}

func (m *model) empty() bool {
	for _, n := range m.documents {
		if n > 0 {
			return false
		}
	}
	return true
}

// weigh builds the sparse TF-IDF vector of tokens. Tokens unseen during
// training carry no weight and are left out.
func (m *model) weigh(tokens []string) Vector {
	tf := TermFrequency(tokens)
	vec := make(Vector, len(tf))
	for token, freq := range tf {
		idf, ok := m.idf[token]
		if !ok || idf == 0 {
			continue
		}
		vec[token] = freq * idf
	}
	return vec
}

func (c *Classifier) Classify(text string) (Result, error) {
	explanation, err := c.Explain(text)
	if err != nil {
		return Result{}, err
	}
	return explanation.Result, nil
}

// Explain classifies text and also reports how every category scored.
func (c *Classifier) Explain(text string) (Explanation, error) {
	c.mu.RLock()
	m := c.model
	c.mu.RUnlock()

	if m == nil {
		return Explanation{}, ErrNotTrained
	}

	tokens := Tokenize(text)
	if m.empty() {
		return emptyExplanation(tokens), nil
	}

	vec := m.weigh(tokens)
	question := IsDirectQuestion(text)

	scores := make([]CategoryScore, 0, len(categories))
	total := 0.0
	best := Fallback
	bestScore := 0.0

	for _, category := range categories {
		s := CategoryScore{
			Category:       category,
			Similarity:     CosineSimilarity(vec, m.centroids[category]),
			PatternMatches: c.rules.Matches(category, text),
		}
		if question && category == CategoryGeneralQuestions {
			s.QuestionBonus = c.weights.DirectQuestion
		}
		s.Score = s.Similarity*c.weights.TFIDF + float64(s.PatternMatches)*c.weights.Patterns + s.QuestionBonus

		if s.Score > bestScore {
			best = category
			bestScore = s.Score
		}
		total += s.Score
		scores = append(scores, s)
	}

	return Explanation{
		Tokens: tokens,
		Scores: scores,
		Result: Result{
			Category:   best,
			Confidence: confidence(bestScore, total),
		},
	}, nil
}

// emptyExplanation is what a model trained without examples reports: no
// signal counts, rule cues included, and every input falls back.
func emptyExplanation(tokens []string) Explanation {
	scores := make([]CategoryScore, 0, len(categories))
	for _, category := range categories {
		scores = append(scores, CategoryScore{Category: category})
	}
	return Explanation{
		Tokens: tokens,
		Scores: scores,
		Result: Result{Category: Fallback},
	}
}

func confidence(best, total float64) int {
	if total <= 0 || best <= 0 {
		return 0
	}
	pct := int(math.Round(best / total * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil
}

func (c *Classifier) Stats() Stats {
	c.mu.RLock()
	m := c.model
	c.mu.RUnlock()

	stats := Stats{Documents: make(map[Category]int, len(categories))}
	if m == nil {
		return stats
	}

	stats.Trained = true
	stats.Vocabulary = len(m.idf)
	for category, n := range m.documents {
		stats.Documents[category] = n
	}
	return stats
}
