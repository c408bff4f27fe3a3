package catalog

import (
	"context"
	"sort"
	"strings"

	"brewbook/internal/recipe"
	"brewbook/internal/textutil"
)

const defaultSimilarLimit = 5

// Match is a recipe ranked against another by shared style and ingredients.
type Match struct {
	Recipe *recipe.Recipe
	Score  float64
}

// Similar ranks the other stored recipes by term overlap with slug. Recipes
// with nothing in common are left out. A limit of zero or less returns at
// most five matches.
func (s *Service) Similar(ctx context.Context, slug string, limit int) ([]Match, error) {
	target, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	corpus := textutil.NewCorpus()
	prints := make(map[string]*textutil.Fingerprint, len(all))
	for _, r := range all {
		fp := textutil.NewFingerprint(similarityText(r))
		prints[r.Slug] = fp
		corpus.Add(fp)
	}
	idf := corpus.IDF()

	base := prints[target.Slug]
	if base == nil {
		base = textutil.NewFingerprint(similarityText(target))
	}
	base = base.Weighted(idf)

	var matches []Match
	for _, r := range all {
		if r.Slug == target.Slug {
			continue
		}
		score := textutil.Cosine(base, prints[r.Slug].Weighted(idf))
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Recipe: r, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Recipe.Slug < matches[j].Recipe.Slug
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// similarityText is the style plus each distinct ingredient name.
func similarityText(r *recipe.Recipe) string {
	seen := make(map[string]bool)
	parts := []string{r.Metadata.Style}
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		parts = append(parts, name)
	}
	for _, f := range r.Fermentables {
		add(f.Name)
	}
	for _, h := range r.Hops {
		add(h.Name)
	}
	for _, y := range r.Yeasts {
		add(y.Name)
	}
	return strings.Join(parts, " ")
}
