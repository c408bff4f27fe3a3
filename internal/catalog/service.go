package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"brewbook/internal/brewcalc"
	"brewbook/internal/interchange"
	"brewbook/internal/logging"
	"brewbook/internal/recipe"
	"brewbook/internal/storage"
)

// Operation names used in failures, logs, and metrics.
const (
	OpList   = "list"
	OpGet    = "get"
	OpSave   = "save"
	OpCreate = "create"
	OpDelete = "delete"
	OpExport = "export"
	OpImport = "import"
)

// Invalidator is notified after a recipe document changes or disappears.
// Errors are logged and counted; they never fail the triggering operation.
type Invalidator interface {
	RecipeChanged(ctx context.Context, r *recipe.Recipe) error
	RecipeRemoved(ctx context.Context, slug string) error
}

// Service coordinates storage, the interchange codec, and invalidation hooks.
type Service struct {
	store   storage.Backend
	logger  *slog.Logger
	metrics *Metrics
	hooks   []Invalidator
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the counters the service updates.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithInvalidator registers hooks run after every successful write or delete.
func WithInvalidator(hooks ...Invalidator) Option {
	return func(s *Service) {
		for _, hook := range hooks {
			if hook != nil {
				s.hooks = append(s.hooks, hook)
			}
		}
	}
}

// New returns a Service backed by store.
func New(store storage.Backend, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "catalog")
	return s
}

// Driver reports the storage driver behind the service.
func (s *Service) Driver() string { return s.store.Driver() }

// List decodes every stored document. Documents that fail to read or decode
// are logged and left out. The result is ordered by name, then slug.
func (s *Service) List(ctx context.Context) ([]*recipe.Recipe, error) {
	slugs, err := s.store.List(ctx)
	if err != nil {
		return nil, fail(OpList, "", KindStorage, "could not list recipes", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.load(ctx, slug)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, s.logger), "recipe skipped", "recipe_list_skip",
				logging.String(logging.FieldSlug, slug),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix or re-import the document"),
				logging.String(logging.FieldImpact, "recipe hidden from listing"),
			)
			continue
		}
		recipes = append(recipes, r)
	}
	SortRecipes(recipes)
	return recipes, nil
}

// SortRecipes orders recipes by display name (case and accent insensitive),
// then by slug.
func SortRecipes(recipes []*recipe.Recipe) {
	collator := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(recipes, func(i, j int) bool {
		if c := collator.CompareString(recipes[i].Metadata.Name, recipes[j].Metadata.Name); c != 0 {
			return c < 0
		}
		return recipes[i].Slug < recipes[j].Slug
	})
}

// Get loads a single recipe.
func (s *Service) Get(ctx context.Context, slug string) (*recipe.Recipe, error) {
	if err := recipe.ValidateSlug(slug); err != nil {
		return nil, fail(OpGet, slug, KindValidation, fmt.Sprintf("invalid recipe slug %q", slug), err)
	}
	r, err := s.load(ctx, slug)
	if err != nil {
		return nil, s.loadFailure(ctx, OpGet, slug, err)
	}
	return r, nil
}

// Save replaces the stored document for r.Slug. ABV is derived from OG and FG
// when it is empty. The document is re-decoded before writing so storage never
// receives a document the service could not read back.
func (s *Service) Save(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	return s.save(ctx, OpSave, r)
}

// Create saves r only when no document exists for its slug yet.
func (s *Service) Create(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	if r == nil {
		return nil, fail(OpCreate, "", KindValidation, "recipe payload is required", nil)
	}
	if err := recipe.ValidateSlug(r.Slug); err != nil {
		return nil, fail(OpCreate, r.Slug, KindValidation, "recipe needs a name that yields a valid slug", err)
	}
	if _, err := s.store.Read(ctx, r.Slug); err == nil {
		return nil, fail(OpCreate, r.Slug, KindConflict, fmt.Sprintf("recipe %q already exists", r.Slug), nil)
	} else if !errors.Is(err, recipe.ErrNotFound) {
		return nil, fail(OpCreate, r.Slug, KindStorage, fmt.Sprintf("could not check recipe %q", r.Slug), err)
	}
	return s.save(ctx, OpCreate, r)
}

func (s *Service) save(ctx context.Context, op string, in *recipe.Recipe) (*recipe.Recipe, error) {
	if in == nil {
		return nil, fail(op, "", KindValidation, "recipe payload is required", nil)
	}
	r := in.Clone()
	r.Normalize()
	if err := recipe.ValidateSlug(r.Slug); err != nil {
		return nil, fail(op, r.Slug, KindValidation, fmt.Sprintf("invalid recipe slug %q", r.Slug), err)
	}
	if r.Stats.ABV == "" {
		if abv, ok := brewcalc.ABVFromPointers(r.Stats.OG, r.Stats.FG); ok {
			r.Stats.ABV = abv
		}
	}

	data, err := interchange.Encode(r)
	if err != nil {
		s.metrics.wrote(op, err)
		return nil, fail(op, r.Slug, KindValidation, fmt.Sprintf("could not encode recipe %q", r.Slug), err)
	}
	saved, err := interchange.DecodeSlug(r.Slug, data)
	if err != nil {
		s.metrics.wrote(op, err)
		return nil, fail(op, r.Slug, KindValidation, fmt.Sprintf("recipe %q is incomplete", r.Slug), err)
	}
	if err := s.store.Write(ctx, r.Slug, data); err != nil {
		s.metrics.wrote(op, err)
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "recipe write failed", "recipe_write_failed",
			logging.String(logging.FieldSlug, r.Slug),
			logging.String("driver", s.store.Driver()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check storage permissions and free space"),
		)
		return nil, fail(op, r.Slug, KindStorage, fmt.Sprintf("could not save recipe %q", r.Slug), err)
	}
	s.metrics.wrote(op, nil)
	s.logger.Info("recipe saved", logging.String(logging.FieldSlug, r.Slug), logging.String("op", op))

	for _, hook := range s.hooks {
		if err := hook.RecipeChanged(ctx, saved); err != nil {
			s.hookFailed(ctx, r.Slug, err)
		}
	}
	return saved, nil
}

// Delete removes the stored document for slug.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := recipe.ValidateSlug(slug); err != nil {
		return fail(OpDelete, slug, KindValidation, fmt.Sprintf("invalid recipe slug %q", slug), err)
	}
	existed, err := s.store.Delete(ctx, slug)
	s.metrics.wrote(OpDelete, err)
	if err != nil {
		return fail(OpDelete, slug, KindStorage, fmt.Sprintf("could not delete recipe %q", slug), err)
	}
	if !existed {
		return fail(OpDelete, slug, KindNotFound, fmt.Sprintf("recipe %q not found", slug), recipe.ErrNotFound)
	}
	s.logger.Info("recipe deleted", logging.String(logging.FieldSlug, slug))

	for _, hook := range s.hooks {
		if err := hook.RecipeRemoved(ctx, slug); err != nil {
			s.hookFailed(ctx, slug, err)
		}
	}
	return nil
}

// Export returns the canonical document for slug, re-encoded from the decoded
// recipe so output is normalized regardless of how the file was written.
func (s *Service) Export(ctx context.Context, slug string) ([]byte, error) {
	r, err := s.Get(ctx, slug)
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			failure.Op = OpExport
		}
		return nil, err
	}
	data, err := interchange.Encode(r)
	if err != nil {
		return nil, fail(OpExport, slug, KindUnavailable, fmt.Sprintf("could not export recipe %q", slug), err)
	}
	return data, nil
}

// Import decodes an external document and saves it. An empty slug is derived
// from the recipe name. When overwrite is false an existing recipe is left
// alone and a conflict is reported.
func (s *Service) Import(ctx context.Context, data []byte, slug string, overwrite bool) (*recipe.Recipe, error) {
	r, err := interchange.DecodeSlug(slug, data)
	if err != nil {
		return nil, fail(OpImport, slug, KindValidation, "document is not a valid recipe", err)
	}
	if slug == "" {
		r.Slug = recipe.SlugFromName(r.Metadata.Name)
	}
	if r.Slug == "" {
		return nil, fail(OpImport, "", KindValidation, "imported recipe has no name to derive a slug from", recipe.ErrInvalidSlug)
	}
	if overwrite {
		return s.save(ctx, OpImport, r)
	}
	return s.Create(ctx, r)
}

func (s *Service) load(ctx context.Context, slug string) (*recipe.Recipe, error) {
	data, err := s.store.Read(ctx, slug)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		// An unreadable document is unavailable, the same as an undecodable one.
		return nil, &interchange.DecodeError{Kind: interchange.KindRead, Source: slug, Err: err}
	}
	r, err := interchange.DecodeSlug(slug, data)
	if err != nil {
		s.metrics.decodeFailed()
		return nil, err
	}
	return r, nil
}

func (s *Service) loadFailure(ctx context.Context, op, slug string, err error) error {
	if errors.Is(err, recipe.ErrNotFound) {
		return fail(op, slug, KindNotFound, fmt.Sprintf("recipe %q not found", slug), err)
	}
	var decodeErr *interchange.DecodeError
	if errors.As(err, &decodeErr) {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "recipe unavailable", "recipe_decode_failed",
			logging.String(logging.FieldSlug, slug),
			logging.String("decode_kind", string(decodeErr.Kind)),
			logging.String("field", decodeErr.Field),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix or re-import the document"),
			logging.String(logging.FieldImpact, "recipe cannot be shown"),
		)
		return fail(op, slug, KindUnavailable, fmt.Sprintf("recipe %q is unavailable", slug), err)
	}
	return fail(op, slug, KindStorage, fmt.Sprintf("could not read recipe %q", slug), err)
}

func (s *Service) hookFailed(ctx context.Context, slug string, err error) {
	s.metrics.hookFailed()
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "invalidation hook failed", "recipe_invalidation_failed",
		logging.String(logging.FieldSlug, slug),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "rebuild the index with 'brewbook index rebuild'"),
		logging.String(logging.FieldImpact, "search results may be stale"),
	)
}
