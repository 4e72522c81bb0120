package classifier

import "math"

// Vector is a sparse token -> weight mapping. Missing tokens weigh 0.
type Vector map[string]float64

// TermFrequency counts tokens and divides every count by the largest one,
// so the most frequent token always weighs 1.
func TermFrequency(tokens []string) Vector {
	counts := make(map[string]int, len(tokens))
	maxCount := 0
	for _, token := range tokens {
		counts[token]++
		if counts[token] > maxCount {
			maxCount = counts[token]
		}
	}

	tf := make(Vector, len(counts))
	for token, count := range counts {
		tf[token] = float64(count) / float64(maxCount)
	}
	return tf
}

// InverseDocumentFrequency computes ln(N / (1 + df)) for every token seen in
// docs, where N is the number of documents.
func InverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, token := range doc {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for token, count := range df {
		idf[token] = math.Log(n / float64(1+count))
	}
	return idf
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns 0 when either vector has no weight.
func CosineSimilarity(a, b Vector) float64 {
	normA := a.Norm()
	normB := b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	dot := 0.0
	for token, w := range small {
		dot += w * large[token]
	}
	return dot / (normA * normB)
}
