package grading

import (
	"regexp"
	"strings"
)

// MaxConcepts caps how many concepts are extracted from one text.
const MaxConcepts = 15

// minTokenLen is the shortest token that can count as a concept.
const minTokenLen = 4

var nonWord = regexp.MustCompile(`[^a-z0-9_]+`)

// stopWords are common words long enough to pass the length filter but
// carrying no meaning on their own.
var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "also": true,
	"because": true, "been": true, "before": true, "being": true, "below": true,
	"between": true, "both": true, "cannot": true, "could": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "from": true,
	"further": true, "have": true, "having": true, "here": true, "into": true,
	"just": true, "like": true, "more": true, "most": true, "much": true,
	"must": true, "only": true, "other": true, "over": true, "same": true,
	"should": true, "some": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "through": true, "under": true,
	"until": true, "very": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"would": true, "your": true, "yours": true, "used": true, "using": true,
}

func tokenize(text string) []string {
	var tokens []string
	for _, tok := range nonWord.Split(strings.ToLower(text), -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isConceptWord(tok string) bool {
	return len(tok) >= minTokenLen && !stopWords[tok]
}

// ExtractConcepts returns the distinct keywords of text followed by the
// bigrams of adjacent keywords, earliest first, capped at MaxConcepts.
// A word may appear both alone and inside a bigram.
func ExtractConcepts(text string) []string {
	tokens := tokenize(text)

	seen := make(map[string]bool)
	var concepts []string
	add := func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		concepts = append(concepts, c)
	}

	for _, tok := range tokens {
		if isConceptWord(tok) {
			add(tok)
		}
	}
	for i := 0; i+1 < len(tokens); i++ {
		if isConceptWord(tokens[i]) && isConceptWord(tokens[i+1]) {
			add(tokens[i] + " " + tokens[i+1])
		}
	}

	if len(concepts) > MaxConcepts {
		concepts = concepts[:MaxConcepts]
	}
	return concepts
}

// conceptMatches reports whether ref overlaps any of the user's concepts,
// in either direction of substring containment.
func conceptMatches(ref string, user []string) bool {
	for _, u := range user {
		if strings.Contains(u, ref) || strings.Contains(ref, u) {
			return true
		}
	}
	return false
}
