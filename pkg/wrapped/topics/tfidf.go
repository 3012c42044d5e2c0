package topics

import (
	"math"
	"sort"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/tokenize"
)

// Vocabulary pruning defaults: terms must appear in at least DefaultMinDF
// documents and at most 60% of them to discriminate between topics.
const (
	DefaultMinDF      = 5
	DefaultMaxDFRatio = 0.6
)

// TermVector is a sparse term-to-weight mapping. A term absent from the map
// has weight zero; vectors never carry explicit zeros.
type TermVector map[string]float64

func (v TermVector) clone() TermVector {
	out := make(TermVector, len(v))
	for term, w := range v {
		out[term] = w
	}
	return out
}

// Vectorize builds TF-IDF vectors over the weekly documents. The shared
// vocabulary holds terms with minDF <= DF <= floor(N*maxDFRatio); terms
// outside it are omitted from every vector. Weight = (count/len) * ln(N/DF).
// The returned vocabulary is sorted for deterministic output.
func Vectorize(docs []WeekDocument, tok *tokenize.Tokenizer, minDF int, maxDFRatio float64) ([]TermVector, []string) {
	n := len(docs)
	vectors := make([]TermVector, n)
	if n == 0 {
		return vectors, nil
	}

	docTokens := make([][]string, n)
	df := make(map[string]int)
	for i, doc := range docs {
		tokens := tok.WithoutStopwords(doc.Content)
		docTokens[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	maxDF := int(float64(n) * maxDFRatio)
	vocab := make(map[string]struct{})
	for term, count := range df {
		if count >= minDF && count <= maxDF {
			vocab[term] = struct{}{}
		}
	}

	for i, tokens := range docTokens {
		vec := make(TermVector)
		if len(tokens) > 0 {
			counts := make(map[string]int, len(tokens))
			for _, t := range tokens {
				counts[t]++
			}
			for term, count := range counts {
				if _, ok := vocab[term]; !ok {
					continue
				}
				tf := float64(count) / float64(len(tokens))
				vec[term] = tf * math.Log(float64(n)/float64(df[term]))
			}
		}
		vectors[i] = vec
	}

	terms := make([]string, 0, len(vocab))
	for term := range vocab {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return vectors, terms
}
