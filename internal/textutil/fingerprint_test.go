package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Crystal 40 / US-05, a Citra!")
	want := []string{"crystal", "40", "us", "05", "citra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(float64) bool
	}{
		{"identical", "pale malt citra", "pale malt citra", func(v float64) bool { return math.Abs(v-1) < 1e-9 }},
		{"disjoint", "pale malt", "roasted barley", func(v float64) bool { return v == 0 }},
		{"partial", "pale malt citra", "pale malt simcoe", func(v float64) bool { return v > 0 && v < 1 }},
		{"empty", "", "pale malt", func(v float64) bool { return v == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(NewFingerprint(tt.a), NewFingerprint(tt.b))
			if !tt.want(got) {
				t.Fatalf("Cosine(%q, %q) = %v", tt.a, tt.b, got)
			}
		})
	}
}

func TestCorpusIDFWeighting(t *testing.T) {
	docs := []*Fingerprint{
		NewFingerprint("pale malt citra"),
		NewFingerprint("pale malt simcoe"),
		NewFingerprint("pale roasted barley"),
	}
	corpus := NewCorpus()
	for _, fp := range docs {
		corpus.Add(fp)
	}
	idf := corpus.IDF()
	if idf["pale"] != 1 {
		t.Fatalf("term in every document should weigh 1, got %v", idf["pale"])
	}
	if idf["citra"] <= idf["malt"] {
		t.Fatalf("rarer term should weigh more: citra=%v malt=%v", idf["citra"], idf["malt"])
	}

	weighted := docs[0].Weighted(idf)
	if weighted.Len() != 3 {
		t.Fatalf("expected 3 weighted terms, got %d", weighted.Len())
	}
	if Cosine(weighted, docs[1].Weighted(idf)) <= Cosine(weighted, docs[2].Weighted(idf)) {
		t.Fatalf("shared malt should rank the simcoe recipe closer")
	}
}

func TestNilCorpus(t *testing.T) {
	var c *Corpus
	c.Add(NewFingerprint("pale"))
	if c.IDF() != nil {
		t.Fatalf("nil corpus should have no weights")
	}
	if NewCorpus().IDF() != nil {
		t.Fatalf("empty corpus should have no weights")
	}
}
