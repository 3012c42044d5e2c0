package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Supported language tags for stopword filtering.
const (
	LanguageEnglish = "en"
	LanguageSpanish = "es"

	DefaultLanguage = LanguageEnglish
)

// minTokenLength drops fragments too short to carry meaning.
const minTokenLength = 3

// Tokenize splits text into lowercase tokens: alphanumeric runs permitting
// internal hyphens and underscores (compound technical terms like "gpt-4" or
// "snake_case" stay intact). Tokens shorter than three characters are dropped.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				if word := cleanToken(current.String()); word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		if word := cleanToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// cleanToken strips edge hyphens/underscores, normalizes runs of them, and
// enforces the minimum length.
func cleanToken(token string) string {
	token = strings.Trim(token, "-_")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	for strings.Contains(token, "__") {
		token = strings.ReplaceAll(token, "__", "_")
	}
	if utf8.RuneCountInString(token) < minTokenLength {
		return ""
	}
	return token
}

// Tokenizer filters tokens through a per-language stopword set.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// New creates a tokenizer for the given language tag. Unknown tags fall back
// to the default language's stopword set.
func New(language string) *Tokenizer {
	words, ok := stopwordSets[language]
	if !ok {
		words = stopwordSets[DefaultLanguage]
	}
	stops := make(map[string]struct{}, len(words)+len(maskingTokens))
	for _, w := range words {
		stops[w] = struct{}{}
	}
	// Tokens shed by masking placeholders carry no topical signal.
	for _, w := range maskingTokens {
		stops[w] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Supported reports whether a language tag has a stopword set.
func Supported(language string) bool {
	_, ok := stopwordSets[language]
	return ok
}

// WithoutStopwords tokenizes text and removes stopwords.
func (t *Tokenizer) WithoutStopwords(text string) []string {
	raw := Tokenize(text)
	tokens := raw[:0]
	for _, tok := range raw {
		if !t.IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// IsStopword checks a single already-lowercased token.
func (t *Tokenizer) IsStopword(token string) bool {
	_, ok := t.stopwords[token]
	return ok
}

// AddStopword adds a word to the stopword set.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword set.
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}

// Bigrams returns the adjacent-pair concatenations of tokens, n-1 bigrams
// for n tokens. Fewer than two tokens yield none.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		bigrams = append(bigrams, tokens[i]+" "+tokens[i+1])
	}
	return bigrams
}
