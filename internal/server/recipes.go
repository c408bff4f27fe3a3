package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"brewbook/internal/api"
	"brewbook/internal/label"
	"brewbook/internal/recipe"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.app.Catalog.List(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		recipes = filterRecipes(recipes, q)
	}
	s.writeJSON(w, http.StatusOK, api.RecipeListResponse{Recipes: recipes})
}

func filterRecipes(recipes []*recipe.Recipe, query string) []*recipe.Recipe {
	needle := strings.ToLower(query)
	out := make([]*recipe.Recipe, 0, len(recipes))
	for _, rec := range recipes {
		if strings.Contains(strings.ToLower(rec.Metadata.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Metadata.Style), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.app.Index == nil {
		s.writeError(w, http.StatusServiceUnavailable, "search index is disabled")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.app.Index.Search(r.Context(), query, limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SearchResponse{Query: query, Results: results})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := s.app.Catalog.Similar(r.Context(), slug, limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	resp := api.SimilarResponse{Slug: slug, Matches: make([]api.SimilarMatch, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, api.SimilarMatch{
			Slug:  m.Recipe.Slug,
			Name:  m.Recipe.Metadata.Name,
			Style: m.Recipe.Metadata.Style,
			Score: m.Score,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Catalog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipe.EditRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	saved, err := s.app.Catalog.Create(r.Context(), req.Recipe(""))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/recipes/"+url.PathEscape(saved.Slug))
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handlePutRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipe.EditRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	saved, err := s.app.Catalog.Save(r.Context(), req.Recipe(r.PathValue("slug")))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Catalog.Delete(r.Context(), r.PathValue("slug")); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportRecipe(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	data, err := s.app.Catalog.Export(r.Context(), slug)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+".xml"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImportRecipe(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	query := r.URL.Query()
	overwrite, _ := strconv.ParseBool(query.Get("overwrite"))
	saved, err := s.app.Catalog.Import(r.Context(), data, strings.TrimSpace(query.Get("slug")), overwrite)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/recipes/"+url.PathEscape(saved.Slug))
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Catalog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, label.FromRecipe(rec, s.app.Colors))
}

func (s *Server) handleLabelSVG(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Catalog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	opts := label.DefaultOptions()
	if v, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && v > 0 {
		opts.Width = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && v > 0 {
		opts.Height = v
	}
	summary := label.FromRecipe(rec, s.app.Colors)
	data, err := label.RenderSVG(summary, opts)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", label.FileName(summary)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
