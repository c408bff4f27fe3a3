package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brewbook/internal/api"
	"brewbook/internal/app"
	"brewbook/internal/config"
	"brewbook/internal/interchange"
	"brewbook/internal/recipe"
	"brewbook/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*Server, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	a, err := app.Open(context.Background(), cfg, nil, app.Options{})
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	srv, err := New(a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, cfg
}

func do(t *testing.T, srv *Server, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seed(t *testing.T, cfg *config.Config, r *recipe.Recipe) {
	t.Helper()
	testsupport.WriteRecipe(t, cfg.Paths.RecipesDir, r)
}

func TestListSkipsBrokenDocuments(t *testing.T) {
	srv, cfg := newTestServer(t)
	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))
	seed(t, cfg, testsupport.MinimalRecipe("abbey", "Abbey Dubbel"))
	testsupport.WriteRawRecipe(t, cfg.Paths.RecipesDir, "broken", "<recipe><metadata>")

	w := do(t, srv, http.MethodGet, "/api/recipes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	resp := decode[api.RecipeListResponse](t, w)
	if len(resp.Recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(resp.Recipes))
	}
	if resp.Recipes[0].Slug != "abbey" || resp.Recipes[1].Slug != "citra-pale" {
		t.Fatalf("unexpected order: %s, %s", resp.Recipes[0].Slug, resp.Recipes[1].Slug)
	}

	w = do(t, srv, http.MethodGet, "/api/recipes?q=pale", nil)
	resp = decode[api.RecipeListResponse](t, w)
	if len(resp.Recipes) != 1 || resp.Recipes[0].Slug != "citra-pale" {
		t.Fatalf("unexpected filtered list %+v", resp.Recipes)
	}
}

func TestGetRecipeStatuses(t *testing.T) {
	srv, cfg := newTestServer(t)
	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))
	testsupport.WriteRawRecipe(t, cfg.Paths.RecipesDir, "broken", "<recipe><metadata>")

	w := do(t, srv, http.MethodGet, "/api/recipes/citra-pale", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decode[recipe.Recipe](t, w)
	if got.Metadata.Name != "Citra Pale Ale" {
		t.Fatalf("unexpected recipe %+v", got.Metadata)
	}

	w = do(t, srv, http.MethodGet, "/api/recipes/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing, got %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/recipes/broken", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for broken, got %d", w.Code)
	}
	if msg := decode[api.ErrorResponse](t, w).Error; !strings.Contains(msg, "unavailable") {
		t.Fatalf("expected unavailable message, got %q", msg)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"metadata":{"name":"Summer Wheat","style":"Weissbier"},
		"fermentables":[{"name":"Wheat","amount":{"value":3,"unit":"kg"},"type":"Grain"}],
		"stats":{"og":"1.048","fg":1.010,"ibu":"","colorSrm":"4"}}`

	w := do(t, srv, http.MethodPost, "/api/recipes", strings.NewReader(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	if loc := w.Header().Get("Location"); loc != "/api/recipes/summer-wheat" {
		t.Fatalf("unexpected location %q", loc)
	}
	created := decode[recipe.Recipe](t, w)
	if created.Stats.ABV != "4.99" {
		t.Fatalf("expected ABV filled in, got %q", created.Stats.ABV)
	}
	if created.Stats.IBU != nil {
		t.Fatalf("expected blank ibu to stay absent, got %v", *created.Stats.IBU)
	}

	w = do(t, srv, http.MethodPost, "/api/recipes", strings.NewReader(body))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate create, got %d", w.Code)
	}

	update, err := json.Marshal(recipe.EditRequest{
		Metadata: recipe.Metadata{Name: "Summer Wheat", Style: "Hefeweizen"},
		Stats:    recipe.EditStats{OG: recipe.Flex(1.052), FG: recipe.Flex(1.012)},
	})
	if err != nil {
		t.Fatalf("marshal update: %v", err)
	}
	w = do(t, srv, http.MethodPut, "/api/recipes/summer-wheat", bytes.NewReader(update))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	updated := decode[recipe.Recipe](t, w)
	if updated.Metadata.Style != "Hefeweizen" || len(updated.Fermentables) != 0 {
		t.Fatalf("expected full replacement, got %+v", updated)
	}
	if updated.Stats.ABV != "5.25" {
		t.Fatalf("expected ABV derived from updated gravities, got %q", updated.Stats.ABV)
	}

	w = do(t, srv, http.MethodDelete, "/api/recipes/summer-wheat", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(t, srv, http.MethodDelete, "/api/recipes/summer-wheat", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestCreateRejectsBadPayload(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodPost, "/api/recipes", strings.NewReader(`{not json`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w = do(t, srv, http.MethodPost, "/api/recipes", strings.NewReader(`{"metadata":{"name":"","style":"x"}}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for nameless recipe, got %d", w.Code)
	}
}

func TestExportAndImport(t *testing.T) {
	srv, cfg := newTestServer(t)
	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))

	w := do(t, srv, http.MethodGet, "/api/recipes/citra-pale/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "citra-pale.xml") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	exported := w.Body.Bytes()
	if _, err := interchange.Decode(exported); err != nil {
		t.Fatalf("exported document does not decode: %v", err)
	}

	w = do(t, srv, http.MethodPost, "/api/recipes/import?slug=copy", bytes.NewReader(exported))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	w = do(t, srv, http.MethodPost, "/api/recipes/import?slug=copy", bytes.NewReader(exported))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 without overwrite, got %d", w.Code)
	}
	w = do(t, srv, http.MethodPost, "/api/recipes/import?slug=copy&overwrite=true", bytes.NewReader(exported))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected overwrite to succeed, got %d", w.Code)
	}
	w = do(t, srv, http.MethodPost, "/api/recipes/import", strings.NewReader("garbage"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage, got %d", w.Code)
	}
}

func TestSearchUsesIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"metadata":{"name":"Oatmeal Stout","style":"Stout"},"stats":{"colorSrm":40}}`
	if w := do(t, srv, http.MethodPost, "/api/recipes", strings.NewReader(body)); w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}

	w := do(t, srv, http.MethodGet, "/api/search?q=stout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	resp := decode[api.SearchResponse](t, w)
	if len(resp.Results) != 1 || resp.Results[0].Slug != "oatmeal-stout" {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	if resp.Results[0].ColorHex != "#361F1B" {
		t.Fatalf("unexpected indexed color %q", resp.Results[0].ColorHex)
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithoutIndex())
	w := do(t, srv, http.MethodGet, "/api/search?q=x", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestCalcEndpoints(t *testing.T) {
	srv, cfg := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/calc/abv?og=1.050&fg=1.010", nil)
	abv := decode[api.ABVResponse](t, w)
	if abv.ABV == nil || *abv.ABV != "5.25" {
		t.Fatalf("unexpected abv %+v", abv)
	}
	w = do(t, srv, http.MethodGet, "/api/calc/abv?og=1.010&fg=1.050", nil)
	if !strings.Contains(w.Body.String(), `"abv":null`) {
		t.Fatalf("expected null abv, got %s", w.Body)
	}

	ibuBody := `{"og":1.050,"boilVolumeL":20,"hops":[{"use":"Boil","amountGrams":28,"alphaPercent":5.5,"timeMinutes":60}]}`
	w = do(t, srv, http.MethodPost, "/api/calc/ibu", strings.NewReader(ibuBody))
	ibu := decode[api.IBUResponse](t, w)
	if ibu.IBU == nil || *ibu.IBU != 17.8 {
		t.Fatalf("unexpected ibu %+v", ibu)
	}
	w = do(t, srv, http.MethodPost, "/api/calc/ibu", strings.NewReader(`{"og":1.050,"hops":[]}`))
	if !strings.Contains(w.Body.String(), `"ibu":null`) {
		t.Fatalf("expected null ibu without hops, got %s", w.Body)
	}

	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))
	w = do(t, srv, http.MethodGet, "/api/calc/ibu?slug=citra-pale&volume=20", nil)
	ibu = decode[api.IBUResponse](t, w)
	if ibu.IBU == nil || ibu.BoilHops != 1 || ibu.BoilVolumeL != 20 {
		t.Fatalf("unexpected recipe ibu %+v", ibu)
	}
	w = do(t, srv, http.MethodGet, "/api/calc/ibu", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without slug, got %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/calc/gravity?sg=1.048&temp=25", nil)
	grav := decode[api.GravityResponse](t, w)
	if grav.Corrected == nil || *grav.Corrected != 1.049 || grav.CalibrationTempC != 20 {
		t.Fatalf("unexpected gravity %+v", grav)
	}
	w = do(t, srv, http.MethodGet, "/api/calc/gravity?sg=abc&temp=25", nil)
	if !strings.Contains(w.Body.String(), `"corrected":null`) {
		t.Fatalf("expected null correction, got %s", w.Body)
	}
}

func TestColorEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/colors/45", nil)
	color := decode[api.ColorResponse](t, w)
	if color.Hex != "#361F1B" || !color.Matched {
		t.Fatalf("unexpected ceiling color %+v", color)
	}
	w = do(t, srv, http.MethodGet, "/api/colors/0.5", nil)
	color = decode[api.ColorResponse](t, w)
	if color.Matched || color.Hex != "#808080" {
		t.Fatalf("expected fallback, got %+v", color)
	}
	w = do(t, srv, http.MethodGet, "/api/colors/dark", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLabelEndpoints(t *testing.T) {
	srv, cfg := newTestServer(t)
	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))

	w := do(t, srv, http.MethodGet, "/api/recipes/citra-pale/label", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"colorHex":"#F8A600"`) {
		t.Fatalf("unexpected label %s", w.Body)
	}

	w = do(t, srv, http.MethodGet, "/api/recipes/citra-pale/label.svg?width=300", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("unexpected svg response %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `width="300"`) {
		t.Fatalf("width not applied:\n%s", w.Body)
	}
	if got := w.Header().Get("Content-Disposition"); got != `inline; filename="Citra Pale Ale.svg"` {
		t.Fatalf("unexpected content disposition %q", got)
	}
}

func TestSimilarEndpoint(t *testing.T) {
	srv, cfg := newTestServer(t)
	seed(t, cfg, testsupport.SampleRecipe("citra-pale"))
	twin := testsupport.SampleRecipe("citra-ipa")
	twin.Metadata.Name = "Citra IPA"
	seed(t, cfg, twin)
	seed(t, cfg, testsupport.MinimalRecipe("mild", "Mild"))

	w := do(t, srv, http.MethodGet, "/api/recipes/citra-pale/similar?limit=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	resp := decode[api.SimilarResponse](t, w)
	if resp.Slug != "citra-pale" || len(resp.Matches) != 1 || resp.Matches[0].Slug != "citra-ipa" {
		t.Fatalf("unexpected matches %+v", resp)
	}

	w = do(t, srv, http.MethodGet, "/api/recipes/ghost/similar", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv, cfg := newTestServer(t)
	testsupport.WriteFile(t, cfg.LogFilePath(), []byte("first\nsecond\n"))

	w := do(t, srv, http.MethodGet, "/api/logs?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"lines":["second"]`) || !strings.Contains(w.Body.String(), `"offset":13`) {
		t.Fatalf("unexpected tail %s", w.Body)
	}

	w = do(t, srv, http.MethodGet, "/api/logs?offset=13", nil)
	if !strings.Contains(w.Body.String(), `"lines":[]`) {
		t.Fatalf("expected no new lines, got %s", w.Body)
	}

	w = do(t, srv, http.MethodGet, "/api/logs?offset=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithAPIToken("secret"))

	if w := do(t, srv, http.MethodGet, "/api/status", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodGet, "/api/status", nil, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}
	w := do(t, srv, http.MethodGet, "/api/status", nil, "Authorization", "Bearer secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
	status := decode[api.StatusResponse](t, w)
	if status.Storage != "fs" || !status.Index.Enabled || status.Colors.Entries != 20 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/status", nil, requestIDHeader, "abc-123")
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
	w = do(t, srv, http.MethodGet, "/api/status", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	w = do(t, srv, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `brewbook_http_requests_total{code="200",method="GET"}`) {
		t.Fatalf("missing request counter:\n%s", body)
	}
}

func TestStartHoldsLock(t *testing.T) {
	srv, cfg := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	a, err := app.Open(context.Background(), cfg, nil, app.Options{SkipIndex: true})
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	second, err := New(a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second server to fail on the lock")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
