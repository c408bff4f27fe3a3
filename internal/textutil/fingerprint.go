package textutil

import (
	"math"
	"regexp"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Fingerprint is a weighted term vector used to compare short texts such as
// ingredient lists.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint counts the terms of text. It returns nil when text has no
// usable terms.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return newFingerprint(counts)
}

func newFingerprint(terms map[string]float64) *Fingerprint {
	var sum float64
	for _, w := range terms {
		sum += w * w
	}
	if sum == 0 {
		return nil
	}
	return &Fingerprint{terms: terms, norm: math.Sqrt(sum)}
}

// Tokenize lowercases text and splits it on anything that is not a letter or
// digit. Single-character tokens are dropped.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Len returns the number of distinct terms.
func (f *Fingerprint) Len() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}

// Weighted returns a copy with each term scaled by weights. Terms missing
// from weights keep their count.
func (f *Fingerprint) Weighted(weights map[string]float64) *Fingerprint {
	if f == nil || len(weights) == 0 {
		return f
	}
	scaled := make(map[string]float64, len(f.terms))
	for term, count := range f.terms {
		if w, ok := weights[term]; ok {
			count *= w
		}
		if count != 0 {
			scaled[term] = count
		}
	}
	return newFingerprint(scaled)
}

// Cosine returns the cosine similarity of a and b, or 0 when either is nil.
func Cosine(a, b *Fingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}
	var dot float64
	for term, w := range a.terms {
		dot += w * b.terms[term]
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Corpus tracks how many documents contain each term.
type Corpus struct {
	docs    int
	docFreq map[string]int
}

func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add records the distinct terms of fp as one document.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil || fp == nil {
		return
	}
	c.docs++
	for term := range fp.terms {
		c.docFreq[term]++
	}
}

// IDF returns smoothed inverse document frequencies, 1 + ln((N+1)/(1+df)).
// Terms shared by every document keep a weight of 1.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docs == 0 {
		return nil
	}
	n := float64(c.docs)
	idf := make(map[string]float64, len(c.docFreq))
	for term, df := range c.docFreq {
		idf[term] = 1 + math.Log((n+1)/(1+float64(df)))
	}
	return idf
}
