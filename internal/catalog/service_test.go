package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"brewbook/internal/interchange"
	"brewbook/internal/recipe"
	"brewbook/internal/storage"
	"brewbook/internal/testsupport"
)

type recordingHook struct {
	changed []string
	removed []string
	err     error
}

func (h *recordingHook) RecipeChanged(_ context.Context, r *recipe.Recipe) error {
	h.changed = append(h.changed, r.Slug)
	return h.err
}

func (h *recordingHook) RecipeRemoved(_ context.Context, slug string) error {
	h.removed = append(h.removed, slug)
	return h.err
}

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.FS, *Metrics) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := storage.NewFS(cfg.Paths.RecipesDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	metrics := NewMetrics(prometheus.NewRegistry())
	opts = append([]Option{WithMetrics(metrics)}, opts...)
	return New(store, opts...), store, metrics
}

func TestListSkipsUndecodableDocuments(t *testing.T) {
	ctx := context.Background()
	svc, store, metrics := newTestService(t)

	testsupport.WriteRecipe(t, store.Dir(), testsupport.MinimalRecipe("zwickel", "Zwickel"))
	testsupport.WriteRecipe(t, store.Dir(), testsupport.MinimalRecipe("amber", "amber Ale"))
	testsupport.WriteRecipe(t, store.Dir(), testsupport.MinimalRecipe("amber-2", "Amber Ale"))
	testsupport.WriteRawRecipe(t, store.Dir(), "broken", "<recipe><metadata>")

	recipes, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var slugs []string
	for _, r := range recipes {
		slugs = append(slugs, r.Slug)
	}
	if strings.Join(slugs, ",") != "amber,amber-2,zwickel" {
		t.Fatalf("unexpected order %v", slugs)
	}
	if got := testutil.ToFloat64(metrics.decodeFailures); got != 1 {
		t.Fatalf("decode failures = %v, want 1", got)
	}

	_, err = svc.Get(ctx, "broken")
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != KindUnavailable {
		t.Fatalf("expected unavailable failure, got %v", err)
	}
	if !strings.Contains(failure.Message, `"broken"`) {
		t.Fatalf("message should name slug: %q", failure.Message)
	}
	var decodeErr *interchange.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected wrapped DecodeError, got %v", err)
	}
}

func TestGetMissingAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Get(ctx, "nope")
	if KindOf(err) != KindNotFound || !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = svc.Get(ctx, "../etc/passwd")
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestSaveFillsABVAndRunsHooks(t *testing.T) {
	ctx := context.Background()
	hook := &recordingHook{}
	svc, _, metrics := newTestService(t, WithInvalidator(hook))

	r := testsupport.MinimalRecipe("session", "Session IPA")
	r.Stats.OG = recipe.Float(1.05)
	r.Stats.FG = recipe.Float(1.01)

	saved, err := svc.Save(ctx, r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Stats.ABV != "5.25" {
		t.Fatalf("expected derived ABV, got %q", saved.Stats.ABV)
	}
	if r.Stats.ABV != "" {
		t.Fatal("Save must not mutate its argument")
	}
	got, err := svc.Get(ctx, "session")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Stats.ABV != "5.25" || got.Metadata.Name != "Session IPA" {
		t.Fatalf("unexpected stored recipe %+v", got)
	}
	if len(hook.changed) != 1 || hook.changed[0] != "session" {
		t.Fatalf("expected change hook, got %v", hook.changed)
	}
	if v := testutil.ToFloat64(metrics.writes.WithLabelValues(OpSave, "ok")); v != 1 {
		t.Fatalf("writes{save,ok} = %v", v)
	}
}

func TestSaveKeepsExplicitABV(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	r := testsupport.SampleRecipe("pale")
	r.Stats.ABV = "4.9"
	saved, err := svc.Save(ctx, r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Stats.ABV != "4.9" {
		t.Fatalf("explicit ABV replaced: %q", saved.Stats.ABV)
	}
}

func TestHookFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	hook := &recordingHook{err: errors.New("index offline")}
	svc, _, metrics := newTestService(t, WithInvalidator(hook))

	if _, err := svc.Save(ctx, testsupport.MinimalRecipe("mild", "Mild")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(ctx, "mild"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := testutil.ToFloat64(metrics.hookFailures); got != 2 {
		t.Fatalf("hook failures = %v, want 2", got)
	}
	if len(hook.removed) != 1 {
		t.Fatalf("expected remove hook, got %v", hook.removed)
	}
}

func TestCreateRejectsExisting(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	r := testsupport.MinimalRecipe("kolsch", "Kolsch")
	if _, err := svc.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, r); KindOf(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Create(ctx, recipe.New("")); KindOf(err) != KindValidation {
		t.Fatalf("expected validation failure for empty slug, got %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Delete(context.Background(), "ghost")
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportIsCanonical(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	testsupport.WriteRawRecipe(t, store.Dir(), "loose", `<recipe>
<metadata><name>  Loose  </name><style>Porter</style><author></author></metadata>
<hops></hops>
</recipe>`)

	data, err := svc.Export(ctx, "loose")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc := string(data)
	if strings.Contains(doc, "<hops") || strings.Contains(doc, "<author") {
		t.Fatalf("expected empty sections dropped:\n%s", doc)
	}
	if _, err := interchange.Decode(data); err != nil {
		t.Fatalf("export should decode: %v", err)
	}

	_, err = svc.Export(ctx, "missing")
	var failure *Failure
	if !errors.As(err, &failure) || failure.Op != OpExport || failure.Kind != KindNotFound {
		t.Fatalf("unexpected export failure %v", err)
	}
}

func TestImportDerivesSlugAndHonoursOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	doc, err := interchange.Encode(testsupport.SampleRecipe("ignored"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	imported, err := svc.Import(ctx, doc, "", false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.Slug != "citra-pale-ale" {
		t.Fatalf("unexpected slug %q", imported.Slug)
	}
	if _, err := svc.Import(ctx, doc, "", false); KindOf(err) != KindConflict {
		t.Fatalf("expected conflict on second import, got %v", err)
	}
	if _, err := svc.Import(ctx, doc, "", true); err != nil {
		t.Fatalf("overwrite import: %v", err)
	}
	if _, err := svc.Import(ctx, []byte("<nope"), "x", false); KindOf(err) != KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(errors.New("raw"), "fallback"); got != "fallback" {
		t.Fatalf("unexpected message %q", got)
	}
	f := fail(OpSave, "x", KindStorage, `could not save recipe "x"`, errors.New("disk"))
	if got := UserMessage(f, "fallback"); got != `could not save recipe "x"` {
		t.Fatalf("unexpected message %q", got)
	}
}

type unreadableStore struct {
	*storage.FS
}

func (unreadableStore) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("input/output error")
}

func TestGetUnreadableDocumentIsUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fs, err := storage.NewFS(cfg.Paths.RecipesDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	testsupport.WriteRecipe(t, fs.Dir(), testsupport.MinimalRecipe("pale", "Pale"))
	svc := New(unreadableStore{fs})

	_, err = svc.Get(context.Background(), "pale")
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	var de *interchange.DecodeError
	if !errors.As(err, &de) || de.Kind != interchange.KindRead {
		t.Fatalf("expected read decode error, got %v", err)
	}

	recipes, err := svc.List(context.Background())
	if err != nil || len(recipes) != 0 {
		t.Fatalf("expected unreadable document skipped, got %d recipes, err %v", len(recipes), err)
	}
}

func TestListKeepsRecipeWithUnparseableOptionalQuantity(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	testsupport.WriteRawRecipe(t, store.Dir(), "pale",
		`<recipe><metadata><name>Pale</name><style>Pale Ale</style><efficiency>72%</efficiency></metadata></recipe>`)

	recipes, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Metadata.Efficiency != nil {
		t.Fatalf("expected one recipe without efficiency, got %+v", recipes)
	}
	if _, err := svc.Get(ctx, "pale"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}
